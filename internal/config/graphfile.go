package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sudsk/agentdeck/internal/filelock"
	"github.com/sudsk/agentdeck/internal/models"
)

// GraphDocument is the on-disk form of a delegation graph: the agent
// roster plus the edge map. The roster lets the validator flag edges left
// dangling after an agent was deleted.
type GraphDocument struct {
	Agents []models.Agent      `yaml:"agents,omitempty"`
	Edges  map[string][]string `yaml:"edges,omitempty"`
}

// Graph materializes the edge map as an ExecutionGraph.
func (d *GraphDocument) Graph() *models.ExecutionGraph {
	return models.GraphFromMap(d.Edges)
}

// SetGraph writes the graph back into the document's edge map.
func (d *GraphDocument) SetGraph(g *models.ExecutionGraph) {
	d.Edges = g.ToMap()
}

// LoadGraphFile reads a graph document. A missing file yields an empty
// document, matching the semantics of an empty (unconstrained) graph.
func LoadGraphFile(path string) (*GraphDocument, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &GraphDocument{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read graph file: %w", err)
	}

	var doc GraphDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse graph file: %w", err)
	}
	return &doc, nil
}

// SaveGraphFile writes a graph document under an advisory file lock.
// Edits within one editor session are last-write-wins; the lock only
// keeps two concurrent saves from interleaving on disk.
func SaveGraphFile(path string, doc *GraphDocument) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create graph dir: %w", err)
		}
	}

	lock := filelock.New(path)
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode graph file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write graph file: %w", err)
	}
	return nil
}
