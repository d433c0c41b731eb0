package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BackendConfig points the client at the execution backend. The API key is
// carried here explicitly and threaded into each request; there is no
// ambient auth state anywhere in the process.
type BackendConfig struct {
	// URL is the backend root, e.g. http://localhost:8000/api/v1
	URL string `yaml:"url"`

	// APIKey authenticates requests. Empty means unauthenticated.
	APIKey string `yaml:"api_key"`
}

// PollConfig tunes the per-run monitor.
type PollConfig struct {
	// IntervalSecs is the base delay between status fetches.
	IntervalSecs int `yaml:"interval_secs"`

	// BackoffCap bounds the backed-off interval as a multiple of the base
	// interval after consecutive fetch failures.
	BackoffCap int `yaml:"backoff_cap"`

	// FailureNoticeAfter is how many consecutive fetch failures pass
	// before a non-blocking notice is shown. Polling continues either way.
	FailureNoticeAfter int `yaml:"failure_notice_after"`
}

// Interval returns the base poll interval as a duration.
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSecs) * time.Second
}

// Config is the operator-facing configuration, loaded from
// .agentdeck/config.yaml with CLI flags taking precedence.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Poll    PollConfig    `yaml:"poll"`

	// KnownTools overrides the built-in tool set used for metrics
	// bucketing. Empty means use the defaults.
	KnownTools []string `yaml:"known_tools"`

	// LogLevel sets console verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// GraphFile is the delegation graph file the graph subcommands edit.
	GraphFile string `yaml:"graph_file"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL: "http://localhost:8000/api/v1",
		},
		Poll: PollConfig{
			IntervalSecs:       3,
			BackoffCap:         8,
			FailureNoticeAfter: 3,
		},
		LogLevel:  "info",
		GraphFile: ".agentdeck/graph.yaml",
	}
}

// LoadConfig loads configuration from path. A missing file is not an
// error: defaults are returned. A malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	// Apply non-zero values from the file over the defaults.
	if fileCfg.Backend.URL != "" {
		cfg.Backend.URL = fileCfg.Backend.URL
	}
	if fileCfg.Backend.APIKey != "" {
		cfg.Backend.APIKey = fileCfg.Backend.APIKey
	}
	if fileCfg.Poll.IntervalSecs != 0 {
		cfg.Poll.IntervalSecs = fileCfg.Poll.IntervalSecs
	}
	if fileCfg.Poll.BackoffCap != 0 {
		cfg.Poll.BackoffCap = fileCfg.Poll.BackoffCap
	}
	if fileCfg.Poll.FailureNoticeAfter != 0 {
		cfg.Poll.FailureNoticeAfter = fileCfg.Poll.FailureNoticeAfter
	}
	if len(fileCfg.KnownTools) > 0 {
		cfg.KnownTools = fileCfg.KnownTools
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.GraphFile != "" {
		cfg.GraphFile = fileCfg.GraphFile
	}

	return cfg, nil
}

// LoadConfigFromDir loads .agentdeck/config.yaml under dir.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".agentdeck", "config.yaml"))
}

// MergeWithFlags overrides config values with explicitly set CLI flags.
// Nil pointers mean the flag was not set.
func (c *Config) MergeWithFlags(backendURL, apiKey *string, pollIntervalSecs *int, logLevel *string) {
	if backendURL != nil {
		c.Backend.URL = *backendURL
	}
	if apiKey != nil {
		c.Backend.APIKey = *apiKey
	}
	if pollIntervalSecs != nil {
		c.Poll.IntervalSecs = *pollIntervalSecs
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend url %q", c.Backend.URL)
	}
	if c.Poll.IntervalSecs <= 0 {
		return fmt.Errorf("poll.interval_secs must be > 0, got %d", c.Poll.IntervalSecs)
	}
	if c.Poll.BackoffCap < 1 {
		return fmt.Errorf("poll.backoff_cap must be >= 1, got %d", c.Poll.BackoffCap)
	}
	if c.Poll.FailureNoticeAfter < 1 {
		return fmt.Errorf("poll.failure_notice_after must be >= 1, got %d", c.Poll.FailureNoticeAfter)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	return nil
}
