package models

import (
	"time"
)

// Execution status constants. These are wire values and case-sensitive.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
)

// IsTerminalStatus reports whether a status admits no further transition.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// Decision action types.
const (
	ActionDelegate = "delegate"
	ActionUseTool  = "use_tool"
	ActionFinalize = "finalize"
)

// ExecutionInput is the query submitted to a run, with optional file
// references attached for retrieval.
type ExecutionInput struct {
	Query string   `json:"query"`
	Files []string `json:"files,omitempty"`
}

// Decision is one recorded choice an agent made during a run. The backend
// appends decisions as the run progresses; the client treats the full list
// on each fetch as authoritative.
type Decision struct {
	Agent       string                 `json:"agent"`
	ActionType  string                 `json:"action_type"`
	TargetAgent string                 `json:"target_agent,omitempty"`
	ToolName    string                 `json:"tool_name,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
	Content     string                 `json:"content"`
	Timestamp   time.Time              `json:"timestamp,omitempty"`
}

// AgentUsageRecord describes how one agent participated in a run.
type AgentUsageRecord struct {
	Agent             string   `json:"agent"`
	Role              string   `json:"role,omitempty"`
	Model             string   `json:"model,omitempty"`
	MessagesProcessed int      `json:"messages_processed"`
	ToolsUsed         []string `json:"tools_used,omitempty"`
}

// ExecutionResult is the structured result payload of a finished (or
// in-flight) run. All fields are optional on the wire; the backend fills
// them in as the run produces them.
type ExecutionResult struct {
	Outputs        map[string]string   `json:"outputs,omitempty"`
	FinalOutput    string              `json:"final_output,omitempty"`
	Decisions      []Decision          `json:"decisions,omitempty"`
	ExecutionGraph map[string][]string `json:"execution_graph,omitempty"`
	AgentUsage     []AgentUsageRecord  `json:"agent_usage,omitempty"`
}

// ExecutionLogEntry is a backend-side log line attached to an execution.
type ExecutionLogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Agent     string                 `json:"agent,omitempty"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Execution is one run of a workflow. The record is owned by the backend;
// the client replaces its local copy wholesale on every poll and never
// merges or diffs successive snapshots.
type Execution struct {
	ID          string              `json:"id"`
	WorkflowID  string              `json:"workflow_id"`
	Status      string              `json:"status"`
	StartedAt   *time.Time          `json:"started_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	Input       ExecutionInput      `json:"input_data"`
	Result      *ExecutionResult    `json:"result,omitempty"`
	Error       string              `json:"error,omitempty"`
	Logs        []ExecutionLogEntry `json:"logs,omitempty"`
}

// IsTerminal reports whether the execution has reached a terminal status.
func (e *Execution) IsTerminal() bool {
	return IsTerminalStatus(e.Status)
}

// Duration returns the wall-clock run time. ok is false when either
// timestamp is missing; callers must exclude such executions from averages
// rather than treating them as zero.
func (e *Execution) Duration() (time.Duration, bool) {
	if e.StartedAt == nil || e.CompletedAt == nil {
		return 0, false
	}
	return e.CompletedAt.Sub(*e.StartedAt), true
}

// Decisions returns the decision trail, or nil when no result is present.
func (e *Execution) Decisions() []Decision {
	if e.Result == nil {
		return nil
	}
	return e.Result.Decisions
}
