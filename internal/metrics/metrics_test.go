package metrics

import (
	"testing"
	"time"

	"github.com/sudsk/agentdeck/internal/models"
)

func completedExec(start time.Time, seconds int) models.Execution {
	end := start.Add(time.Duration(seconds) * time.Second)
	return models.Execution{
		Status:      models.StatusCompleted,
		StartedAt:   &start,
		CompletedAt: &end,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil, Options{})

	if s.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0 for empty input", s.SuccessRate)
	}
	if s.AverageExecutionTime != 0 {
		t.Errorf("AverageExecutionTime = %v, want 0", s.AverageExecutionTime)
	}
	if s.TotalExecutions != 0 || s.ActiveExecutions != 0 {
		t.Errorf("counts = %+v, want all zero", s)
	}
}

func TestSuccessRateAllCompleted(t *testing.T) {
	start := time.Now()
	execs := []models.Execution{
		completedExec(start, 5),
		completedExec(start, 15),
	}

	s := Summarize(nil, execs, Options{})
	if s.SuccessRate != 100.0 {
		t.Errorf("SuccessRate = %v, want 100.0", s.SuccessRate)
	}
}

func TestSuccessRateMixed(t *testing.T) {
	// One completed (10s), one failed: 50.0% success, average 10s.
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	execs := []models.Execution{
		completedExec(start, 10),
		{Status: models.StatusFailed},
	}

	s := Summarize(nil, execs, Options{})
	if s.SuccessRate != 50.0 {
		t.Errorf("SuccessRate = %v, want 50.0", s.SuccessRate)
	}
	if s.AverageExecutionTime != 10 {
		t.Errorf("AverageExecutionTime = %v, want 10", s.AverageExecutionTime)
	}
}

func TestSuccessRateRoundedToOneDecimal(t *testing.T) {
	// 1 of 3 completed = 33.333...% -> 33.3
	execs := []models.Execution{
		{Status: models.StatusCompleted},
		{Status: models.StatusFailed},
		{Status: models.StatusFailed},
	}

	s := Summarize(nil, execs, Options{})
	if s.SuccessRate != 33.3 {
		t.Errorf("SuccessRate = %v, want 33.3", s.SuccessRate)
	}
}

func TestAverageExcludesRunsWithoutTimestamps(t *testing.T) {
	// A completed 10s run plus a running one: the average is 10, not 5.
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	execs := []models.Execution{
		completedExec(start, 10),
		{Status: models.StatusRunning},
	}

	s := Summarize(nil, execs, Options{})
	if s.AverageExecutionTime != 10 {
		t.Errorf("AverageExecutionTime = %v, want 10", s.AverageExecutionTime)
	}

	// A completed run missing completed_at is excluded too.
	execs = append(execs, models.Execution{Status: models.StatusCompleted, StartedAt: &start})
	s = Summarize(nil, execs, Options{})
	if s.AverageExecutionTime != 10 {
		t.Errorf("AverageExecutionTime = %v, want 10 with timestampless run excluded", s.AverageExecutionTime)
	}
}

func TestActiveAndCompletedCounts(t *testing.T) {
	execs := []models.Execution{
		{Status: models.StatusRunning},
		{Status: models.StatusRunning},
		{Status: models.StatusPending},
		{Status: models.StatusCompleted},
		{Status: models.StatusCanceled},
	}

	s := Summarize(nil, execs, Options{})
	if s.ActiveExecutions != 2 {
		t.Errorf("ActiveExecutions = %d, want 2", s.ActiveExecutions)
	}
	if s.CompletedExecutions != 1 {
		t.Errorf("CompletedExecutions = %d, want 1", s.CompletedExecutions)
	}
	if s.TotalExecutions != 5 {
		t.Errorf("TotalExecutions = %d, want 5", s.TotalExecutions)
	}
}

func TestToolUsageHistogramWithOtherBucket(t *testing.T) {
	execs := []models.Execution{
		{
			Status: models.StatusCompleted,
			Result: &models.ExecutionResult{
				Decisions: []models.Decision{
					{Agent: "w1", ActionType: models.ActionUseTool, ToolName: "web_search"},
					{Agent: "w1", ActionType: models.ActionUseTool, ToolName: "unknown_x"},
					{Agent: "w1", ActionType: models.ActionDelegate, TargetAgent: "w2"},
				},
			},
		},
	}

	s := Summarize(nil, execs, Options{})
	if s.ToolUsage["web_search"] != 1 {
		t.Errorf("ToolUsage[web_search] = %d, want 1", s.ToolUsage["web_search"])
	}
	if s.ToolUsage[OtherBucket] != 1 {
		t.Errorf("ToolUsage[other] = %d, want 1", s.ToolUsage[OtherBucket])
	}
	if _, exists := s.ToolUsage["unknown_x"]; exists {
		t.Error("unknown tool should be bucketed under other, not keyed by name")
	}
	if len(s.ToolUsage) != 2 {
		t.Errorf("ToolUsage = %v, want exactly 2 buckets", s.ToolUsage)
	}
}

func TestToolUsageCustomKnownSet(t *testing.T) {
	execs := []models.Execution{
		{
			Status: models.StatusCompleted,
			Result: &models.ExecutionResult{
				Decisions: []models.Decision{
					{ActionType: models.ActionUseTool, ToolName: "custom_tool"},
					{ActionType: models.ActionUseTool, ToolName: "web_search"},
				},
			},
		},
	}

	s := Summarize(nil, execs, Options{KnownTools: []string{"custom_tool"}})
	if s.ToolUsage["custom_tool"] != 1 || s.ToolUsage[OtherBucket] != 1 {
		t.Errorf("ToolUsage = %v, want custom_tool:1 other:1", s.ToolUsage)
	}
}

func TestTotalWorkflowsCountsAgenticOnly(t *testing.T) {
	workflows := []models.Workflow{
		{Type: "agentic"},
		{Type: "sequential"},
		{Config: map[string]interface{}{"supervisor": map[string]interface{}{"name": "boss"}}},
	}

	s := Summarize(workflows, nil, Options{})
	if s.TotalWorkflows != 2 {
		t.Errorf("TotalWorkflows = %d, want 2", s.TotalWorkflows)
	}
}

func TestAgentActivityRollup(t *testing.T) {
	execs := []models.Execution{
		{
			Status: models.StatusCompleted,
			Result: &models.ExecutionResult{
				AgentUsage: []models.AgentUsageRecord{
					{Agent: "researcher", Role: "researcher", MessagesProcessed: 4, ToolsUsed: []string{"web_search"}},
				},
			},
		},
		{
			Status: models.StatusCompleted,
			Result: &models.ExecutionResult{
				AgentUsage: []models.AgentUsageRecord{
					{Agent: "researcher", Role: "researcher", MessagesProcessed: 2, ToolsUsed: []string{"web_search", "analyze_data"}},
					{Agent: "writer", Role: "worker", MessagesProcessed: 3},
				},
			},
		},
	}

	s := Summarize(nil, execs, Options{})
	if len(s.AgentActivity) != 2 {
		t.Fatalf("got %d agents, want 2", len(s.AgentActivity))
	}

	researcher := s.AgentActivity[0]
	if researcher.Agent != "researcher" || researcher.Runs != 2 || researcher.MessagesProcessed != 6 {
		t.Errorf("researcher rollup = %+v", researcher)
	}
	if len(researcher.ToolsUsed) != 2 {
		t.Errorf("researcher tools = %v, want deduplicated pair", researcher.ToolsUsed)
	}
}

func TestSummarizeIsDeterministic(t *testing.T) {
	execs := []models.Execution{
		{Status: models.StatusCompleted, Result: &models.ExecutionResult{
			AgentUsage: []models.AgentUsageRecord{
				{Agent: "b"}, {Agent: "a"}, {Agent: "c"},
			},
		}},
	}

	first := Summarize(nil, execs, Options{})
	second := Summarize(nil, execs, Options{})
	for i := range first.AgentActivity {
		if first.AgentActivity[i].Agent != second.AgentActivity[i].Agent {
			t.Fatal("agent activity order is not deterministic")
		}
	}
	if first.AgentActivity[0].Agent != "a" {
		t.Errorf("first agent = %q, want a (sorted)", first.AgentActivity[0].Agent)
	}
}
