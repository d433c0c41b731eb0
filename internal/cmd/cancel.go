package cmd

import (
	"github.com/spf13/cobra"
)

// NewCancelCommand creates the cancel command
func NewCancelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <execution-id>",
		Short: "Request cancellation of a run",
		Long: `Ask the backend to cancel a run. Cancellation is cooperative: the run
stays in its current status until the backend processes the request, and
a run that finishes first keeps its completed status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			if err := newClient(cfg).CancelExecution(cmd.Context(), args[0]); err != nil {
				return err
			}
			log.Infof("cancellation requested for %s; status will update on the next poll (agentdeck watch %s)", args[0], args[0])
			return nil
		},
	}
	return cmd
}
