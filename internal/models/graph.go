package models

import (
	"sort"
)

// ExecutionGraph is the delegation topology of a workflow: each agent maps
// to the ordered set of agents it may hand work to. An empty graph means
// routing is unconstrained and agents decide autonomously at run time.
//
// The graph is edited only before a run starts, by a single editor session
// with last-write-wins semantics. Cycle detection is advisory rather than
// blocking: a workflow may legitimately contain a bounded loop that the
// backend terminates via its max-iterations setting.
type ExecutionGraph struct {
	edges map[string][]string
}

// NewExecutionGraph returns an empty delegation graph.
func NewExecutionGraph() *ExecutionGraph {
	return &ExecutionGraph{edges: make(map[string][]string)}
}

// GraphFromMap builds a graph from the wire representation, preserving
// target order and dropping duplicate targets.
func GraphFromMap(m map[string][]string) *ExecutionGraph {
	g := NewExecutionGraph()
	for from, targets := range m {
		for _, to := range targets {
			g.AddEdge(from, to)
		}
	}
	return g
}

// AddEdge permits from to delegate to. Adding an existing edge is a no-op.
// A self-edge is accepted; it forms a 1-node cycle that Validate reports.
func (g *ExecutionGraph) AddEdge(from, to string) {
	for _, t := range g.edges[from] {
		if t == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// RemoveEdge withdraws the delegation permission. When an agent's target
// set becomes empty its key is dropped: an empty set and an absent key mean
// the same thing.
func (g *ExecutionGraph) RemoveEdge(from, to string) {
	targets := g.edges[from]
	for i, t := range targets {
		if t == to {
			g.edges[from] = append(targets[:i], targets[i+1:]...)
			break
		}
	}
	if len(g.edges[from]) == 0 {
		delete(g.edges, from)
	}
}

// Targets returns the ordered delegation targets of an agent.
func (g *ExecutionGraph) Targets(from string) []string {
	return g.edges[from]
}

// Len returns the number of agents with at least one outgoing edge.
func (g *ExecutionGraph) Len() int {
	return len(g.edges)
}

// ToMap returns the wire representation of the graph. The returned map is
// a copy; mutating it does not affect the graph.
func (g *ExecutionGraph) ToMap() map[string][]string {
	m := make(map[string][]string, len(g.edges))
	for from, targets := range g.edges {
		m[from] = append([]string(nil), targets...)
	}
	return m
}

// Nodes returns every agent name mentioned by the graph, sorted.
func (g *ExecutionGraph) Nodes() []string {
	seen := make(map[string]bool)
	for from, targets := range g.edges {
		seen[from] = true
		for _, to := range targets {
			seen[to] = true
		}
	}
	nodes := make([]string, 0, len(seen))
	for n := range seen {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// ValidationResult is the outcome of a graph validation pass. A cycle does
// not make the graph unsaveable; callers surface CycleNodes as a warning.
type ValidationResult struct {
	Acyclic bool
	// CycleNodes lists the members of the first cycle found, in traversal
	// order. Empty when Acyclic is true.
	CycleNodes []string
	// UnknownAgents lists edge endpoints that are not in the roster passed
	// to ValidateAgainst. Always empty for Validate, which has no roster.
	UnknownAgents []string
}

// Validate runs a depth-first traversal with three-state coloring over all
// nodes and reports whether the graph is acyclic. Revisiting an in-progress
// node signals a cycle; the nodes on the traversal stack from that node
// onward form the reported cycle.
func (g *ExecutionGraph) Validate() ValidationResult {
	const (
		white = 0 // not visited
		gray  = 1 // on the current traversal stack
		black = 2 // fully explored
	)

	colors := make(map[string]int)
	var stack []string
	var cycle []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		colors[node] = gray
		stack = append(stack, node)

		for _, next := range g.edges[node] {
			if colors[next] == gray {
				// Back edge: the cycle is the stack suffix starting at next.
				for i, n := range stack {
					if n == next {
						cycle = append([]string(nil), stack[i:]...)
						break
					}
				}
				return true
			}
			if colors[next] == white && dfs(next) {
				return true
			}
		}

		colors[node] = black
		stack = stack[:len(stack)-1]
		return false
	}

	for _, node := range g.Nodes() {
		if colors[node] == white {
			if dfs(node) {
				return ValidationResult{Acyclic: false, CycleNodes: cycle}
			}
		}
	}
	return ValidationResult{Acyclic: true}
}

// ValidateAgainst validates the graph and additionally flags edges whose
// endpoints are missing from the agent roster, which happens when an agent
// is deleted after edges referencing it were drawn. Unknown agents are
// reported, not rejected, matching the advisory cycle policy.
func (g *ExecutionGraph) ValidateAgainst(agents []Agent) ValidationResult {
	result := g.Validate()

	known := make(map[string]bool, len(agents))
	for _, a := range agents {
		known[a.Name] = true
	}
	for _, node := range g.Nodes() {
		if !known[node] {
			result.UnknownAgents = append(result.UnknownAgents, node)
		}
	}
	return result
}
