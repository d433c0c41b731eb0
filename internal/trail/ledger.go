// Package trail reconstructs the decision trail of a run and links
// decisions to the derived conversational transcript.
package trail

import (
	"strings"

	"github.com/sudsk/agentdeck/internal/models"
)

// NoSelection marks the absence of a highlighted decision.
const NoSelection = -1

// Ledger holds the decision trail of the latest execution snapshot along
// with the transcript derived from the same snapshot.
//
// The backend's decision list is authoritative and may be re-ordered or
// extended between polls, so Replace swaps the whole trail out wholesale —
// there is no merging, and the transcript is rebuilt from scratch rather
// than patched.
type Ledger struct {
	decisions []models.Decision
	messages  []models.Message
	selected  int
}

// NewLedger returns an empty ledger with no selection.
func NewLedger() *Ledger {
	return &Ledger{selected: NoSelection}
}

// Replace installs the decision trail and transcript from a fresh
// execution snapshot, discarding whatever was held before. A selection
// index that no longer exists after the swap is cleared.
func (l *Ledger) Replace(exec *models.Execution) {
	l.decisions = exec.Decisions()
	l.messages = models.BuildMessages(exec)
	if l.selected >= len(l.decisions) {
		l.selected = NoSelection
	}
}

// Decisions returns the current trail in backend order.
func (l *Ledger) Decisions() []models.Decision {
	return l.decisions
}

// Messages returns the transcript derived from the current snapshot.
func (l *Ledger) Messages() []models.Message {
	return l.messages
}

// Select highlights a decision for display. Selecting is idempotent and
// has no effect beyond the transient marker; out-of-range indexes clear
// the selection.
func (l *Ledger) Select(index int) {
	if index < 0 || index >= len(l.decisions) {
		l.selected = NoSelection
		return
	}
	l.selected = index
}

// Selected returns the highlighted decision index, or NoSelection.
func (l *Ledger) Selected() int {
	return l.selected
}

// Correlate links the decision at index to its transcript message: the
// first message whose agent matches the decision's agent and whose content
// contains the decision content as a substring.
//
// No shared identifier ties a decision to a message, so this is explicitly
// a best-effort heuristic. A miss is not an error: the caller simply
// applies no highlight.
func (l *Ledger) Correlate(index int) (int, bool) {
	if index < 0 || index >= len(l.decisions) {
		return NoSelection, false
	}
	return CorrelateDecision(l.messages, l.decisions[index])
}

// CorrelateDecision scans messages in order for the first entry matching
// the decision's agent whose content contains the decision content.
func CorrelateDecision(messages []models.Message, decision models.Decision) (int, bool) {
	for i, msg := range messages {
		if msg.Agent != decision.Agent {
			continue
		}
		if strings.Contains(msg.Content, decision.Content) {
			return i, true
		}
	}
	return NoSelection, false
}
