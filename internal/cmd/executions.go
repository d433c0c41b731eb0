package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sudsk/agentdeck/internal/api"
	"github.com/sudsk/agentdeck/internal/display"
)

// NewExecutionsCommand creates the executions command
func NewExecutionsCommand() *cobra.Command {
	var (
		limit      int
		offset     int
		workflowID string
	)

	cmd := &cobra.Command{
		Use:   "executions",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			execs, err := newClient(cfg).ListExecutions(cmd.Context(), api.ListOptions{
				Limit:      limit,
				Offset:     offset,
				WorkflowID: workflowID,
			})
			if err != nil {
				return err
			}
			if len(execs) == 0 {
				fmt.Fprintln(os.Stdout, "No executions found.")
				return nil
			}

			fmt.Fprint(os.Stdout, display.FormatExecutionTable(execs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of runs to skip")
	cmd.Flags().StringVar(&workflowID, "workflow", "", "Only list runs of this workflow")

	return cmd
}
