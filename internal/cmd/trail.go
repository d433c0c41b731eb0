package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sudsk/agentdeck/internal/display"
	"github.com/sudsk/agentdeck/internal/trail"
)

// NewTrailCommand creates the trail command
func NewTrailCommand() *cobra.Command {
	var (
		selectIndex    int
		correlateIndex int
		showLogs       bool
	)

	cmd := &cobra.Command{
		Use:   "trail <execution-id>",
		Short: "Show the decision trail of a run",
		Long: `Reconstruct the decision trail of a run: every delegation, tool call,
and finalization the supervisor recorded, in backend order.

--correlate N links decision N to the transcript message it most likely
produced. The link is a best-effort match on agent and content; when
nothing matches, the trail is shown without a highlight.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			exec, err := newClient(cfg).GetExecution(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			ledger := trail.NewLedger()
			ledger.Replace(exec)

			if cmd.Flags().Changed("select") {
				ledger.Select(selectIndex)
			}

			fmt.Fprint(os.Stdout, display.FormatTrail(ledger.Decisions(), ledger.Selected()))

			if cmd.Flags().Changed("correlate") {
				msgIndex, ok := ledger.Correlate(correlateIndex)
				if !ok {
					fmt.Fprintf(os.Stdout, "\nNo transcript message matches decision %d.\n", correlateIndex)
					return nil
				}
				msg := ledger.Messages()[msgIndex]
				fmt.Fprintf(os.Stdout, "\nDecision %d produced transcript message %d (%s/%s):\n%s\n",
					correlateIndex, msgIndex, msg.Kind, msg.Agent, msg.Content)
			}

			if showLogs {
				fmt.Fprintln(os.Stdout)
				fmt.Fprint(os.Stdout, display.FormatLogs(exec.Logs))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&selectIndex, "select", trail.NoSelection, "Highlight this decision index")
	cmd.Flags().IntVar(&correlateIndex, "correlate", trail.NoSelection, "Link this decision index to its transcript message")
	cmd.Flags().BoolVar(&showLogs, "logs", false, "Also print backend-side execution logs")

	return cmd
}
