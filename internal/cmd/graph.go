package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sudsk/agentdeck/internal/config"
	"github.com/sudsk/agentdeck/internal/logger"
	"github.com/sudsk/agentdeck/internal/models"
)

// NewGraphCommand creates the graph command and its subcommands
func NewGraphCommand() *cobra.Command {
	var graphFile string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Edit and validate the local delegation graph",
		Long: `Edit the delegation graph file the backend's supervisor topology is
drafted against. Validation is advisory: a cycle or an edge naming an
unknown agent produces a warning, never a hard failure, because agentic
delegation loops can be legitimate at runtime.`,
	}

	cmd.PersistentFlags().StringVar(&graphFile, "graph-file", "", "Graph file path (overrides config)")

	cmd.AddCommand(newGraphAddEdgeCommand(&graphFile))
	cmd.AddCommand(newGraphRemoveEdgeCommand(&graphFile))
	cmd.AddCommand(newGraphCheckCommand(&graphFile))
	cmd.AddCommand(newGraphShowCommand(&graphFile))

	return cmd
}

func graphFilePath(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.GraphFile
}

func newGraphAddEdgeCommand(graphFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add-edge <from> <to>",
		Short: "Add a delegation edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			path := graphFilePath(cfg, *graphFile)

			doc, err := config.LoadGraphFile(path)
			if err != nil {
				return err
			}
			graph := doc.Graph()
			graph.AddEdge(args[0], args[1])
			doc.SetGraph(graph)

			// Warn-and-save: the edit always lands, the validator only advises.
			reportGraphIssues(validateDoc(doc), log)

			if err := config.SaveGraphFile(path, doc); err != nil {
				return err
			}
			log.Infof("added edge %s -> %s", args[0], args[1])
			return nil
		},
	}
}

func newGraphRemoveEdgeCommand(graphFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-edge <from> <to>",
		Short: "Remove a delegation edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			path := graphFilePath(cfg, *graphFile)

			doc, err := config.LoadGraphFile(path)
			if err != nil {
				return err
			}
			graph := doc.Graph()
			graph.RemoveEdge(args[0], args[1])
			doc.SetGraph(graph)

			reportGraphIssues(validateDoc(doc), log)

			if err := config.SaveGraphFile(path, doc); err != nil {
				return err
			}
			log.Infof("removed edge %s -> %s", args[0], args[1])
			return nil
		},
	}
}

func newGraphCheckCommand(graphFile *string) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the delegation graph",
		Long: `Run the local advisory validator over the graph file. With --remote the
graph is also submitted to the backend's validation endpoint, which
checks it against the full workflow configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			doc, err := config.LoadGraphFile(graphFilePath(cfg, *graphFile))
			if err != nil {
				return err
			}

			result := validateDoc(doc)
			reportGraphIssues(result, log)
			if result.Acyclic && len(result.UnknownAgents) == 0 {
				fmt.Fprintln(os.Stdout, "Graph OK: acyclic, all edges reference known agents.")
			}

			if remote {
				verdict, err := newClient(cfg).ValidateWorkflow(cmd.Context(), map[string]interface{}{
					"agents": doc.Agents,
					"edges":  doc.Edges,
				})
				if err != nil {
					return err
				}
				if verdict.Valid {
					fmt.Fprintf(os.Stdout, "Backend validation OK: %s\n", verdict.Message)
				} else {
					log.Warnf("backend rejected the configuration: %s", verdict.Message)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Also validate against the backend")
	return cmd
}

func newGraphShowCommand(graphFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the delegation graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			doc, err := config.LoadGraphFile(graphFilePath(cfg, *graphFile))
			if err != nil {
				return err
			}
			graph := doc.Graph()
			if graph.Len() == 0 {
				fmt.Fprintln(os.Stdout, "Graph is empty.")
				return nil
			}
			for _, from := range graph.Nodes() {
				for _, to := range graph.Targets(from) {
					fmt.Fprintf(os.Stdout, "%s -> %s\n", from, to)
				}
			}
			return nil
		},
	}
}

// validateDoc runs the roster-aware validator when the document names its
// agents, and the plain cycle check otherwise.
func validateDoc(doc *config.GraphDocument) models.ValidationResult {
	graph := doc.Graph()
	if len(doc.Agents) > 0 {
		return graph.ValidateAgainst(doc.Agents)
	}
	return graph.Validate()
}

// reportGraphIssues logs validator findings. Findings are advisory and
// never block an edit or a submission.
func reportGraphIssues(result models.ValidationResult, log *logger.ConsoleLogger) {
	if !result.Acyclic {
		log.Warnf("delegation graph contains a cycle through: %s", strings.Join(result.CycleNodes, ", "))
	}
	if len(result.UnknownAgents) > 0 {
		log.Warnf("edges reference agents missing from the roster: %s", strings.Join(result.UnknownAgents, ", "))
	}
}

// warnOnGraphIssues checks the configured graph file before a submission.
// A missing file is an unconstrained graph and produces no output.
func warnOnGraphIssues(cfg *config.Config, log *logger.ConsoleLogger) {
	doc, err := config.LoadGraphFile(cfg.GraphFile)
	if err != nil {
		log.Warnf("could not read graph file: %v", err)
		return
	}
	reportGraphIssues(validateDoc(doc), log)
}
