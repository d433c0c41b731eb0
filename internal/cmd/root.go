package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sudsk/agentdeck/internal/api"
	"github.com/sudsk/agentdeck/internal/config"
	"github.com/sudsk/agentdeck/internal/logger"
)

// Version is injected at build time via -ldflags
var Version = "dev"

var (
	flagBackendURL   string
	flagAPIKey       string
	flagPollInterval int
	flagLogLevel     string
)

// NewRootCommand creates and returns the root cobra command for agentdeck
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agentdeck",
		Short: "Operator console for agentic workflow runs",
		Long: `Agentdeck submits queries to a remote agentic workflow backend and
tracks each run to completion: it validates delegation graphs before
submission, polls the backend with backoff until a terminal status,
reconstructs the decision trail, and aggregates run history into
operational statistics.

The backend executes the agents; agentdeck only observes.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagBackendURL, "backend", "", "Backend base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "API key for the backend (overrides config)")
	cmd.PersistentFlags().IntVar(&flagPollInterval, "poll-interval", 0, "Poll interval in seconds (overrides config)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewWatchCommand())
	cmd.AddCommand(NewCancelCommand())
	cmd.AddCommand(NewExecutionsCommand())
	cmd.AddCommand(NewStatsCommand())
	cmd.AddCommand(NewTrailCommand())
	cmd.AddCommand(NewGraphCommand())

	return cmd
}

// loadConfig loads .agentdeck/config.yaml and merges explicitly set
// global flags over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfigFromDir(".")
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var backendURL, apiKey, logLevel *string
	var pollInterval *int
	if cmd.Flags().Changed("backend") {
		backendURL = &flagBackendURL
	}
	if cmd.Flags().Changed("api-key") {
		apiKey = &flagAPIKey
	}
	if cmd.Flags().Changed("poll-interval") {
		pollInterval = &flagPollInterval
	}
	if cmd.Flags().Changed("log-level") {
		logLevel = &flagLogLevel
	}
	cfg.MergeWithFlags(backendURL, apiKey, pollInterval, logLevel)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newClient builds the backend client from config.
func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.Backend.URL, cfg.Backend.APIKey)
}

// newLogger builds the console logger from config.
func newLogger(cfg *config.Config) *logger.ConsoleLogger {
	return logger.New(os.Stderr, cfg.LogLevel)
}
