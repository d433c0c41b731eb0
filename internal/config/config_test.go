package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend.URL != "http://localhost:8000/api/v1" {
		t.Errorf("Backend.URL = %q, want default", cfg.Backend.URL)
	}
	if cfg.Poll.IntervalSecs != 3 || cfg.Poll.BackoffCap != 8 {
		t.Errorf("poll defaults = %+v", cfg.Poll)
	}
}

func TestLoadConfigMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
backend:
  url: https://agents.example.com/api/v1
  api_key: sk-test
poll:
  interval_secs: 5
known_tools:
  - web_search
  - custom_scraper
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend.URL != "https://agents.example.com/api/v1" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.APIKey != "sk-test" {
		t.Errorf("Backend.APIKey = %q", cfg.Backend.APIKey)
	}
	if cfg.Poll.IntervalSecs != 5 {
		t.Errorf("Poll.IntervalSecs = %d, want 5", cfg.Poll.IntervalSecs)
	}
	// Unset fields keep their defaults.
	if cfg.Poll.BackoffCap != 8 {
		t.Errorf("Poll.BackoffCap = %d, want default 8", cfg.Poll.BackoffCap)
	}
	if len(cfg.KnownTools) != 2 {
		t.Errorf("KnownTools = %v", cfg.KnownTools)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	u := "http://override:9000"
	interval := 10
	cfg.MergeWithFlags(&u, nil, &interval, nil)

	if cfg.Backend.URL != u {
		t.Errorf("Backend.URL = %q, want flag value", cfg.Backend.URL)
	}
	if cfg.Poll.IntervalSecs != 10 {
		t.Errorf("Poll.IntervalSecs = %d, want 10", cfg.Poll.IntervalSecs)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, unset flag must not override", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad url", func(c *Config) { c.Backend.URL = "not a url" }, true},
		{"zero interval", func(c *Config) { c.Poll.IntervalSecs = 0 }, true},
		{"zero backoff cap", func(c *Config) { c.Poll.BackoffCap = 0 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")

	doc := &GraphDocument{}
	g := doc.Graph()
	g.AddEdge("supervisor", "researcher")
	g.AddEdge("supervisor", "writer")
	doc.SetGraph(g)

	if err := SaveGraphFile(path, doc); err != nil {
		t.Fatalf("SaveGraphFile: %v", err)
	}

	loaded, err := LoadGraphFile(path)
	if err != nil {
		t.Fatalf("LoadGraphFile: %v", err)
	}
	targets := loaded.Graph().Targets("supervisor")
	if len(targets) != 2 {
		t.Errorf("Targets(supervisor) = %v, want 2 entries", targets)
	}
}

func TestLoadGraphFileMissingIsEmpty(t *testing.T) {
	doc, err := LoadGraphFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadGraphFile: %v", err)
	}
	if doc.Graph().Len() != 0 {
		t.Error("missing graph file should load as an empty graph")
	}
}
