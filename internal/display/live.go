package display

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/sudsk/agentdeck/internal/models"
)

// LiveRenderer prints a run's progress as a rolling event stream. The
// underlying model replaces every snapshot wholesale; the renderer only
// tracks how many trail lines it has already printed so the terminal is
// not rewritten on each poll. Safe for concurrent use: the cancel notice
// arrives from the interrupt handler while snapshots keep streaming.
type LiveRenderer struct {
	mu              sync.Mutex
	out             io.Writer
	lastStatus      string
	printedTrail    int
	cancelRequested bool
}

// NewLiveRenderer creates a renderer writing to out.
func NewLiveRenderer(out io.Writer) *LiveRenderer {
	return &LiveRenderer{out: out}
}

// NoteCancelRequested records that the operator asked for cancellation,
// so the stream can say the wait is cooperative.
func (r *LiveRenderer) NoteCancelRequested() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.cancelRequested {
		r.cancelRequested = true
		r.eventf("cancellation requested; waiting for the backend to confirm")
	}
}

// Render prints whatever is new in this snapshot.
func (r *LiveRenderer) Render(exec *models.Execution) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.render(exec)
}

func (r *LiveRenderer) render(exec *models.Execution) {
	if exec.Status != r.lastStatus {
		r.eventf("status: %s", StatusLabel(exec.Status))
		r.lastStatus = exec.Status
	}

	decisions := exec.Decisions()
	if len(decisions) < r.printedTrail {
		// The backend re-ordered or truncated the trail; start over.
		r.eventf("decision trail rewritten by backend (%d entries)", len(decisions))
		r.printedTrail = 0
	}
	for i := r.printedTrail; i < len(decisions); i++ {
		fmt.Fprintln(r.out, FormatDecision(i, decisions[i], false))
	}
	r.printedTrail = len(decisions)
}

// Finish prints the terminal state: the rendered final output for a
// completed run, or the backend's error verbatim for a failed one.
func (r *LiveRenderer) Finish(exec *models.Execution, runErr error) {
	if exec == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.render(exec)

	switch exec.Status {
	case models.StatusCompleted:
		if exec.Result != nil && exec.Result.FinalOutput != "" {
			fmt.Fprintln(r.out)
			fmt.Fprint(r.out, RenderMarkdown(exec.Result.FinalOutput))
		}
		if d, ok := exec.Duration(); ok {
			r.eventf("completed in %s", FormatDuration(d))
		}
	case models.StatusFailed:
		red := color.New(color.FgRed)
		if runErr != nil {
			fmt.Fprintln(r.out, red.Sprint(runErr.Error()))
		} else if exec.Error != "" {
			fmt.Fprintln(r.out, red.Sprint(exec.Error))
		}
	case models.StatusCanceled:
		r.eventf("run canceled")
	}
}

func (r *LiveRenderer) eventf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, "[%s] %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
}
