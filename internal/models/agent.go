package models

import (
	"errors"
	"fmt"
)

// Agent roles recognized by the backend. RoleCustom covers anything the
// author typed that is not a built-in role.
const (
	RoleSupervisor = "supervisor"
	RoleWorker     = "worker"
	RoleCritic     = "critic"
	RoleExecutor   = "executor"
	RolePlanner    = "planner"
	RoleResearcher = "researcher"
	RoleHub        = "hub"
	RoleSpoke      = "spoke"
	RoleCustom     = "custom"
)

// Agent represents one member of a workflow team. Agents are defined by the
// workflow author and are immutable once a run starts.
type Agent struct {
	Name  string   `json:"name" yaml:"name"`
	Role  string   `json:"role" yaml:"role"`
	Tools []string `json:"tools,omitempty" yaml:"tools,omitempty"`

	// Capability flags. The backend defaults can_finalize to true only for
	// supervisors; the client carries whatever the workflow config says.
	CanDelegate         bool `json:"can_delegate" yaml:"can_delegate"`
	CanUseTools         bool `json:"can_use_tools" yaml:"can_use_tools"`
	CanFinalize         bool `json:"can_finalize" yaml:"can_finalize"`
	AutonomousDecisions bool `json:"autonomous_decisions" yaml:"autonomous_decisions"`
}

// validRoles is the set of role names the backend understands.
var validRoles = map[string]bool{
	RoleSupervisor: true,
	RoleWorker:     true,
	RoleCritic:     true,
	RoleExecutor:   true,
	RolePlanner:    true,
	RoleResearcher: true,
	RoleHub:        true,
	RoleSpoke:      true,
	RoleCustom:     true,
}

// Validate checks that the agent has the fields required for submission.
func (a *Agent) Validate() error {
	if a.Name == "" {
		return errors.New("agent name is required")
	}
	if a.Role != "" && !validRoles[a.Role] {
		return fmt.Errorf("unknown agent role %q", a.Role)
	}
	return nil
}

// IsSupervisor reports whether the agent holds the supervisor role.
func (a *Agent) IsSupervisor() bool {
	return a.Role == RoleSupervisor
}

// Workflow is the definition a run executes against. Config is the raw
// template configuration; the client only inspects it to classify the
// workflow as agentic for dashboard counts.
type Workflow struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"workflow_type,omitempty"`
	Config      map[string]interface{} `json:"config,omitempty"`
}

// IsAgentic reports whether the workflow should be counted as an agentic
// workflow: either it carries an explicit type tag, or its template config
// declares a supervisor agent.
func (w *Workflow) IsAgentic() bool {
	if w.Type == "agentic" || w.Type == "agentic_supervisor" {
		return true
	}
	if w.Config == nil {
		return false
	}
	if _, ok := w.Config["supervisor"]; ok {
		return true
	}
	return false
}
