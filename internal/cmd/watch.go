package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <execution-id>",
		Short: "Attach to an existing run and watch it live",
		Long: `Attach to a run that already exists, e.g. one submitted from another
session, and stream its decision trail until a terminal status.

Interrupting (Ctrl+C) detaches without canceling: the run may not be
yours to stop. Use "agentdeck cancel" to request cancellation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			mon := newMonitor(cfg, log)

			exec, err := mon.Attach(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			log.Infof("watching execution %s (%s)", exec.ID, exec.Status)

			return watchToCompletion(cmd.Context(), mon, log, os.Stdout, false)
		},
	}
	return cmd
}
