package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sudsk/agentdeck/internal/config"
	"github.com/sudsk/agentdeck/internal/display"
	"github.com/sudsk/agentdeck/internal/logger"
	"github.com/sudsk/agentdeck/internal/models"
	"github.com/sudsk/agentdeck/internal/monitor"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var (
		query   string
		files   []string
		options []string
	)

	cmd := &cobra.Command{
		Use:   "run <workflow-id>",
		Short: "Submit a query to a workflow and watch the run live",
		Long: `Submit a query to an agentic workflow and stream the run's decision
trail until the backend reports a terminal status.

Interrupting (Ctrl+C) requests cooperative cancellation and keeps
watching: the run stays in its current status until the backend confirms,
and a run that finishes first keeps its completed status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if query == "" {
				return fmt.Errorf("--query is required")
			}

			opts, err := parseOptions(options)
			if err != nil {
				return err
			}

			log := newLogger(cfg)
			warnOnGraphIssues(cfg, log)

			input := models.ExecutionInput{Query: query, Files: files}
			mon := newMonitor(cfg, log)

			// The poll loop must survive the interrupt that triggers the
			// cancellation request, so it runs on an uncancelable context.
			exec, err := mon.Start(context.WithoutCancel(cmd.Context()), args[0], input, opts)
			if err != nil {
				return err
			}
			log.Infof("submitted execution %s", exec.ID)

			return watchToCompletion(cmd.Context(), mon, log, os.Stdout, true)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Query to run through the workflow (required)")
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "File reference to attach (repeatable)")
	cmd.Flags().StringSliceVarP(&options, "option", "o", nil, "Execution option as key=value (repeatable)")

	return cmd
}

// newMonitor builds a monitor from config, routing sustained-failure
// notices through the logger.
func newMonitor(cfg *config.Config, log *logger.ConsoleLogger) *monitor.Monitor {
	return monitor.New(newClient(cfg), monitor.Options{
		PollInterval:       cfg.Poll.Interval(),
		BackoffCap:         cfg.Poll.BackoffCap,
		FailureNoticeAfter: cfg.Poll.FailureNoticeAfter,
		OnNotice: func(err error, consecutive int) {
			log.Warnf("backend unreachable (%d consecutive failures): %v", consecutive, err)
		},
	})
}

// watchToCompletion streams snapshots to out until the monitor finishes.
// With cancelOnInterrupt, canceling ctx requests cooperative cancellation
// and keeps watching until the backend reports the outcome; otherwise a
// canceled ctx just detaches, leaving the run untouched.
func watchToCompletion(ctx context.Context, mon *monitor.Monitor, log *logger.ConsoleLogger, out io.Writer, cancelOnInterrupt bool) error {
	renderer := display.NewLiveRenderer(out)

	if cancelOnInterrupt {
		go func() {
			select {
			case <-mon.Done():
				return
			case <-ctx.Done():
			}
			renderer.NoteCancelRequested()
			if err := mon.Cancel(context.WithoutCancel(ctx)); err != nil {
				log.Warnf("cancellation request failed: %v", err)
			}
		}()
	}

	for snap := range mon.Snapshots() {
		renderer.Render(snap)
	}

	final, runErr := mon.Final()
	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
		if final != nil && !final.IsTerminal() {
			log.Infof("stopped watching; the run continues on the backend (agentdeck watch %s)", final.ID)
		}
		return nil
	}

	renderer.Finish(final, runErr)
	return runErr
}

// parseOptions turns repeated key=value flags into the submission options map.
func parseOptions(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	opts := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q, expected key=value", pair)
		}
		opts[key] = value
	}
	return opts, nil
}
