package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sudsk/agentdeck/internal/api"
	"github.com/sudsk/agentdeck/internal/display"
	"github.com/sudsk/agentdeck/internal/metrics"
)

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	var (
		limit        int
		refreshTools bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate run history into dashboard statistics",
		Long: `Fetch workflows and recent runs from the backend and reduce them to
dashboard statistics: success rate, average execution time, tool usage,
and per-agent activity.

The tool histogram buckets by the known tool set; anything else lands in
"other". Pass --refresh-tools to use the backend's tool registry instead
of the built-in set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			client := newClient(cfg)

			workflows, err := client.ListWorkflows(cmd.Context())
			if err != nil {
				return err
			}
			executions, err := client.ListExecutions(cmd.Context(), api.ListOptions{Limit: limit})
			if err != nil {
				return err
			}

			known := cfg.KnownTools
			if refreshTools {
				tools, err := client.ListTools(cmd.Context())
				if err != nil {
					log.Warnf("could not refresh tool registry, using configured set: %v", err)
				} else {
					known = make([]string, 0, len(tools))
					for _, tool := range tools {
						known = append(known, tool.Name)
					}
				}
			}

			summary := metrics.Summarize(workflows, executions, metrics.Options{KnownTools: known})
			fmt.Fprint(os.Stdout, display.FormatStats(summary))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of runs to aggregate")
	cmd.Flags().BoolVar(&refreshTools, "refresh-tools", false, "Fetch the known tool set from the backend")

	return cmd
}
