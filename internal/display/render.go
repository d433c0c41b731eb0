// Package display renders executions, decision trails, and dashboard
// statistics for the terminal.
package display

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/sudsk/agentdeck/internal/metrics"
	"github.com/sudsk/agentdeck/internal/models"
)

// statusColor maps an execution status to its display color.
func statusColor(status string) *color.Color {
	switch status {
	case models.StatusCompleted:
		return color.New(color.FgGreen)
	case models.StatusFailed:
		return color.New(color.FgRed)
	case models.StatusCanceled:
		return color.New(color.FgYellow)
	case models.StatusRunning:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}

// StatusLabel returns the status string, colored for terminals.
func StatusLabel(status string) string {
	return statusColor(status).Sprint(status)
}

// FormatDuration renders a duration the way the dashboards show it.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

// FormatExecutionLine is the one-line listing form of an execution.
func FormatExecutionLine(exec *models.Execution) string {
	started := "-"
	if exec.StartedAt != nil {
		started = exec.StartedAt.Format("2006-01-02 15:04:05")
	}
	duration := "-"
	if d, ok := exec.Duration(); ok {
		duration = FormatDuration(d)
	}
	return fmt.Sprintf("%-36s  %-12s  %-19s  %-8s  %s",
		exec.ID, StatusLabel(exec.Status), started, duration, truncate(exec.Input.Query, 40))
}

// FormatExecutionTable lists executions with a header.
func FormatExecutionTable(execs []models.Execution) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-36s  %-12s  %-19s  %-8s  %s\n",
		"EXECUTION", "STATUS", "STARTED", "DURATION", "QUERY"))
	sb.WriteString(strings.Repeat("-", 100) + "\n")
	for i := range execs {
		sb.WriteString(FormatExecutionLine(&execs[i]) + "\n")
	}
	return sb.String()
}

// FormatDecision is the one-line trail form of a decision.
func FormatDecision(index int, d models.Decision, highlighted bool) string {
	var action string
	switch d.ActionType {
	case models.ActionDelegate:
		action = fmt.Sprintf("delegate -> %s", d.TargetAgent)
	case models.ActionUseTool:
		action = fmt.Sprintf("use_tool [%s]", d.ToolName)
	case models.ActionFinalize:
		action = "finalize"
	default:
		action = d.ActionType
	}

	marker := " "
	if highlighted {
		marker = ">"
	}
	ts := ""
	if !d.Timestamp.IsZero() {
		ts = d.Timestamp.Format("15:04:05") + " "
	}
	return fmt.Sprintf("%s %3d  %s%-14s %-28s %s",
		marker, index, ts, d.Agent, action, truncate(d.Content, 60))
}

// FormatTrail renders the full decision trail, marking the selected entry.
func FormatTrail(decisions []models.Decision, selected int) string {
	if len(decisions) == 0 {
		return "No decisions recorded.\n"
	}
	var sb strings.Builder
	for i, d := range decisions {
		sb.WriteString(FormatDecision(i, d, i == selected) + "\n")
	}
	return sb.String()
}

// FormatLogs renders backend-side execution log lines.
func FormatLogs(logs []models.ExecutionLogEntry) string {
	if len(logs) == 0 {
		return "No execution logs.\n"
	}
	var sb strings.Builder
	for _, entry := range logs {
		agent := entry.Agent
		if agent == "" {
			agent = "-"
		}
		sb.WriteString(fmt.Sprintf("[%s] %-5s %-14s %s\n",
			entry.Timestamp.Format("15:04:05"), strings.ToUpper(entry.Level), agent, entry.Message))
	}
	return sb.String()
}

// FormatStats renders the dashboard summary as a readable table.
func FormatStats(s metrics.Summary) string {
	var sb strings.Builder

	sb.WriteString("\n=== EXECUTION STATISTICS ===\n\n")
	sb.WriteString(fmt.Sprintf("Agentic Workflows:    %d\n", s.TotalWorkflows))
	sb.WriteString(fmt.Sprintf("Total Executions:     %d\n", s.TotalExecutions))
	sb.WriteString(fmt.Sprintf("Active:               %d\n", s.ActiveExecutions))
	sb.WriteString(fmt.Sprintf("Completed:            %d\n", s.CompletedExecutions))
	sb.WriteString(fmt.Sprintf("Failed:               %d\n", s.FailedExecutions))
	sb.WriteString(fmt.Sprintf("Success Rate:         %.1f%%\n", s.SuccessRate))
	sb.WriteString(fmt.Sprintf("Avg Execution Time:   %.1fs\n", s.AverageExecutionTime))

	if len(s.ToolUsage) > 0 {
		sb.WriteString("\n--- Tool Usage ---\n")
		names := make([]string, 0, len(s.ToolUsage))
		for name := range s.ToolUsage {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if s.ToolUsage[names[i]] != s.ToolUsage[names[j]] {
				return s.ToolUsage[names[i]] > s.ToolUsage[names[j]]
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("%-20s %d\n", name, s.ToolUsage[name]))
		}
	}

	if len(s.AgentActivity) > 0 {
		sb.WriteString("\n--- Agent Activity ---\n")
		sb.WriteString(fmt.Sprintf("%-20s %-12s %-8s %-10s %s\n",
			"Agent", "Role", "Runs", "Messages", "Tools"))
		for _, a := range s.AgentActivity {
			sb.WriteString(fmt.Sprintf("%-20s %-12s %-8d %-10d %s\n",
				truncate(a.Agent, 19), a.Role, a.Runs, a.MessagesProcessed,
				strings.Join(a.ToolsUsed, ", ")))
		}
	}

	return sb.String()
}

// truncate shortens a string to maxLen characters with an ellipsis.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
