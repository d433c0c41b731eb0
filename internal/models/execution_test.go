package models

import (
	"testing"
	"time"
)

func TestIsTerminalStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusPending, false},
		{StatusRunning, false},
		{StatusCompleted, true},
		{StatusFailed, true},
		{StatusCanceled, true},
		{"", false},
		{"Completed", false}, // wire values are case-sensitive
	}

	for _, tt := range tests {
		if got := IsTerminalStatus(tt.status); got != tt.want {
			t.Errorf("IsTerminalStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestExecutionDuration(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Second)

	exec := &Execution{Status: StatusCompleted, StartedAt: &start, CompletedAt: &end}
	d, ok := exec.Duration()
	if !ok || d != 10*time.Second {
		t.Errorf("Duration() = (%v, %v), want (10s, true)", d, ok)
	}

	running := &Execution{Status: StatusRunning, StartedAt: &start}
	if _, ok := running.Duration(); ok {
		t.Error("Duration() ok = true for execution without completed_at")
	}

	bare := &Execution{Status: StatusCompleted}
	if _, ok := bare.Duration(); ok {
		t.Error("Duration() ok = true for execution without timestamps")
	}
}

func TestWorkflowIsAgentic(t *testing.T) {
	tests := []struct {
		name string
		wf   Workflow
		want bool
	}{
		{"explicit type tag", Workflow{Type: "agentic"}, true},
		{"supervisor variant tag", Workflow{Type: "agentic_supervisor"}, true},
		{"supervisor in config", Workflow{Config: map[string]interface{}{"supervisor": map[string]interface{}{"name": "boss"}}}, true},
		{"plain template", Workflow{Type: "sequential"}, false},
		{"no config", Workflow{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.wf.IsAgentic(); got != tt.want {
				t.Errorf("IsAgentic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildMessages(t *testing.T) {
	exec := &Execution{
		Input: ExecutionInput{Query: "summarize the report"},
		Result: &ExecutionResult{
			Outputs: map[string]string{
				"writer":     "draft summary",
				"researcher": "key findings",
			},
			FinalOutput: "final summary",
			Decisions: []Decision{
				{Agent: "supervisor", ActionType: ActionDelegate, TargetAgent: "researcher"},
				{Agent: "supervisor", ActionType: ActionFinalize, Content: "final summary"},
			},
		},
	}

	msgs := BuildMessages(exec)
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4", len(msgs))
	}
	if msgs[0].Kind != MessageKindInput || msgs[0].Content != "summarize the report" {
		t.Errorf("first message = %+v, want the operator query", msgs[0])
	}
	// Agent outputs come sorted by agent name for stable ordering.
	if msgs[1].Agent != "researcher" || msgs[2].Agent != "writer" {
		t.Errorf("agent messages out of order: %q, %q", msgs[1].Agent, msgs[2].Agent)
	}
	if msgs[3].Kind != MessageKindFinal || msgs[3].Agent != "supervisor" {
		t.Errorf("final message = %+v, want finalize decision author", msgs[3])
	}
}

func TestBuildMessagesRegeneratedWholesale(t *testing.T) {
	exec := &Execution{Input: ExecutionInput{Query: "q"}}
	first := BuildMessages(exec)

	exec.Result = &ExecutionResult{Outputs: map[string]string{"w1": "out"}}
	second := BuildMessages(exec)

	if len(first) != 1 {
		t.Errorf("first build = %d messages, want 1", len(first))
	}
	if len(second) != 2 {
		t.Errorf("second build = %d messages, want 2", len(second))
	}
}

func TestBuildMessagesNil(t *testing.T) {
	if msgs := BuildMessages(nil); msgs != nil {
		t.Errorf("BuildMessages(nil) = %v, want nil", msgs)
	}
}
