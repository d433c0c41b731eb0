package models

import (
	"sort"
)

// Message kinds for the derived transcript.
const (
	MessageKindInput  = "input"
	MessageKindAgent  = "agent"
	MessageKindFinal  = "final"
	MessageKindSystem = "system"
)

// Message is one entry of the derived conversational transcript. Messages
// are not persisted anywhere: they are rebuilt from scratch out of the
// execution snapshot every time it changes, never updated incrementally.
type Message struct {
	Kind    string
	Agent   string
	Content string
}

// BuildMessages reconstructs the transcript for display and correlation:
// the operator's query first, then one message per agent output (sorted by
// agent name so the order is stable across polls), then the final output.
func BuildMessages(exec *Execution) []Message {
	if exec == nil {
		return nil
	}

	var msgs []Message
	if exec.Input.Query != "" {
		msgs = append(msgs, Message{Kind: MessageKindInput, Agent: "user", Content: exec.Input.Query})
	}

	if exec.Result != nil {
		agents := make([]string, 0, len(exec.Result.Outputs))
		for agent := range exec.Result.Outputs {
			agents = append(agents, agent)
		}
		sort.Strings(agents)
		for _, agent := range agents {
			msgs = append(msgs, Message{Kind: MessageKindAgent, Agent: agent, Content: exec.Result.Outputs[agent]})
		}

		if exec.Result.FinalOutput != "" {
			msgs = append(msgs, Message{Kind: MessageKindFinal, Agent: finalAgent(exec), Content: exec.Result.FinalOutput})
		}
	}
	return msgs
}

// finalAgent names the author of the final output: the agent whose finalize
// decision closed the run, or "system" when the trail does not say.
func finalAgent(exec *Execution) string {
	for i := len(exec.Result.Decisions) - 1; i >= 0; i-- {
		if exec.Result.Decisions[i].ActionType == ActionFinalize {
			return exec.Result.Decisions[i].Agent
		}
	}
	return "system"
}
