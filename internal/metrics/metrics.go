// Package metrics reduces run history into dashboard statistics. The
// reducer is a pure function: no hidden state, deterministic output,
// recomputed from scratch on every fetch of the execution list.
package metrics

import (
	"math"
	"sort"

	"github.com/sudsk/agentdeck/internal/models"
)

// DefaultKnownTools is the backend's built-in tool registry. Tool names
// outside the known set are bucketed under OtherBucket in the histogram.
var DefaultKnownTools = []string{
	"web_search",
	"execute_code",
	"analyze_data",
	"file_operations",
}

// OtherBucket collects tool usage for tools outside the known set.
const OtherBucket = "other"

// Options configure a summary pass.
type Options struct {
	// KnownTools overrides DefaultKnownTools when non-nil, e.g. with the
	// registry fetched from the backend's tools endpoint.
	KnownTools []string
}

// AgentActivity is the per-agent rollup across all input executions.
type AgentActivity struct {
	Agent             string
	Role              string
	Runs              int
	MessagesProcessed int
	ToolsUsed         []string
}

// Summary is the dashboard statistics block.
type Summary struct {
	TotalWorkflows      int
	TotalExecutions     int
	ActiveExecutions    int
	CompletedExecutions int
	FailedExecutions    int
	// SuccessRate is completed/total*100 rounded to one decimal; 0 when
	// there are no executions.
	SuccessRate float64
	// AverageExecutionTime is the mean run duration in seconds over
	// executions that completed and carry both timestamps. Executions
	// missing either timestamp are excluded from the mean entirely.
	AverageExecutionTime float64
	// ToolUsage counts use_tool decisions per tool name, with unknown
	// tools under OtherBucket.
	ToolUsage map[string]int
	// AgentActivity aggregates agent_usage records, sorted by agent name.
	AgentActivity []AgentActivity
}

// Summarize reduces workflows and executions into a Summary.
func Summarize(workflows []models.Workflow, executions []models.Execution, opts Options) Summary {
	known := opts.KnownTools
	if known == nil {
		known = DefaultKnownTools
	}
	knownSet := make(map[string]bool, len(known))
	for _, name := range known {
		knownSet[name] = true
	}

	s := Summary{
		TotalExecutions: len(executions),
		ToolUsage:       make(map[string]int),
	}

	for i := range workflows {
		if workflows[i].IsAgentic() {
			s.TotalWorkflows++
		}
	}

	var totalSeconds float64
	var timedRuns int
	activity := make(map[string]*AgentActivity)

	for i := range executions {
		exec := &executions[i]
		switch exec.Status {
		case models.StatusRunning:
			s.ActiveExecutions++
		case models.StatusCompleted:
			s.CompletedExecutions++
		case models.StatusFailed:
			s.FailedExecutions++
		}

		if exec.Status == models.StatusCompleted {
			if d, ok := exec.Duration(); ok {
				totalSeconds += d.Seconds()
				timedRuns++
			}
		}

		for _, decision := range exec.Decisions() {
			if decision.ActionType != models.ActionUseTool {
				continue
			}
			name := decision.ToolName
			if !knownSet[name] {
				name = OtherBucket
			}
			s.ToolUsage[name]++
		}

		if exec.Result != nil {
			for _, usage := range exec.Result.AgentUsage {
				a := activity[usage.Agent]
				if a == nil {
					a = &AgentActivity{Agent: usage.Agent, Role: usage.Role}
					activity[usage.Agent] = a
				}
				a.Runs++
				a.MessagesProcessed += usage.MessagesProcessed
				a.ToolsUsed = mergeTools(a.ToolsUsed, usage.ToolsUsed)
			}
		}
	}

	if s.TotalExecutions > 0 {
		rate := float64(s.CompletedExecutions) / float64(s.TotalExecutions) * 100
		s.SuccessRate = math.Round(rate*10) / 10
	}
	if timedRuns > 0 {
		s.AverageExecutionTime = totalSeconds / float64(timedRuns)
	}

	for _, a := range activity {
		s.AgentActivity = append(s.AgentActivity, *a)
	}
	sort.Slice(s.AgentActivity, func(i, j int) bool {
		return s.AgentActivity[i].Agent < s.AgentActivity[j].Agent
	})

	return s
}

// mergeTools appends tools not already present, keeping first-seen order.
func mergeTools(have, add []string) []string {
	seen := make(map[string]bool, len(have))
	for _, t := range have {
		seen[t] = true
	}
	for _, t := range add {
		if !seen[t] {
			have = append(have, t)
			seen[t] = true
		}
	}
	return have
}
