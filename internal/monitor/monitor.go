// Package monitor tracks a single workflow run to completion through the
// backend's polling protocol.
//
// Each Monitor is an independent state machine
// (Idle → Starting → Polling → Terminal) owning exactly one timer and one
// execution id. Monitors for different runs share no mutable state, so any
// number of them can run side by side without locking between them.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sudsk/agentdeck/internal/models"
)

// Service is the slice of the backend contract the monitor needs. It is
// satisfied by *api.Client.
type Service interface {
	CreateExecution(ctx context.Context, workflowID string, input models.ExecutionInput, options map[string]interface{}) (*models.Execution, error)
	GetExecution(ctx context.Context, executionID string) (*models.Execution, error)
	CancelExecution(ctx context.Context, executionID string) error
}

// State of the monitor's lifecycle.
type State int

const (
	StateIdle State = iota
	StateStarting
	StatePolling
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StatePolling:
		return "polling"
	case StateTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Default polling parameters.
const (
	DefaultPollInterval       = 3 * time.Second
	DefaultBackoffCap         = 8 // max interval as a multiple of PollInterval
	DefaultFailureNoticeAfter = 3
)

// Options tune one monitor.
type Options struct {
	// PollInterval is the base delay between status fetches.
	PollInterval time.Duration

	// BackoffCap bounds the backed-off interval at
	// PollInterval * BackoffCap after consecutive fetch failures.
	BackoffCap int

	// FailureNoticeAfter is the number of consecutive fetch failures
	// before OnNotice is invoked. Polling continues regardless: while the
	// last known status is non-terminal the backend remains the sole
	// source of truth and the loop never gives up.
	FailureNoticeAfter int

	// OnNotice receives a non-blocking notice about sustained fetch
	// failures. May be nil.
	OnNotice func(err error, consecutive int)

	// Clock defaults to the wall clock.
	Clock Clock
}

func (o *Options) applyDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.BackoffCap <= 0 {
		o.BackoffCap = DefaultBackoffCap
	}
	if o.FailureNoticeAfter <= 0 {
		o.FailureNoticeAfter = DefaultFailureNoticeAfter
	}
	if o.Clock == nil {
		o.Clock = RealClock()
	}
}

// RunError is the terminal error of a failed run, carrying the backend's
// error message verbatim.
type RunError struct {
	ExecutionID string
	Message     string
}

func (e *RunError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("execution %s failed", e.ExecutionID)
	}
	return fmt.Sprintf("execution %s failed: %s", e.ExecutionID, e.Message)
}

// Monitor drives one run from submission to terminal status.
type Monitor struct {
	svc  Service
	opts Options

	mu              sync.Mutex
	state           State
	executionID     string
	latest          *models.Execution
	cancelRequested bool

	snapshots chan *models.Execution
	done      chan struct{}
	finish    sync.Once
	finalExec *models.Execution
	finalErr  error
}

// New creates an idle monitor.
func New(svc Service, opts Options) *Monitor {
	opts.applyDefaults()
	return &Monitor{
		svc:       svc,
		opts:      opts,
		state:     StateIdle,
		snapshots: make(chan *models.Execution, 16),
		done:      make(chan struct{}),
	}
}

// Start submits a run and begins polling. It returns the initial execution
// snapshot. If the backend reports a terminal status on the submission
// response itself, the monitor transitions straight to Terminal without
// ever scheduling a poll timer.
//
// Start (or Attach) may be called at most once per monitor.
func (m *Monitor) Start(ctx context.Context, workflowID string, input models.ExecutionInput, options map[string]interface{}) (*models.Execution, error) {
	if err := m.enterStarting(); err != nil {
		return nil, err
	}

	exec, err := m.svc.CreateExecution(ctx, workflowID, input, options)
	if err != nil {
		m.setState(StateIdle)
		return nil, fmt.Errorf("submit run: %w", err)
	}
	m.begin(ctx, exec)
	return exec, nil
}

// Attach begins monitoring an execution that already exists, e.g. one
// submitted by another operator session.
func (m *Monitor) Attach(ctx context.Context, executionID string) (*models.Execution, error) {
	if err := m.enterStarting(); err != nil {
		return nil, err
	}

	exec, err := m.svc.GetExecution(ctx, executionID)
	if err != nil {
		m.setState(StateIdle)
		return nil, fmt.Errorf("attach to run: %w", err)
	}
	m.begin(ctx, exec)
	return exec, nil
}

func (m *Monitor) enterStarting() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		return fmt.Errorf("monitor already started (state %s)", m.state)
	}
	m.state = StateStarting
	return nil
}

func (m *Monitor) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// begin records the first snapshot and either terminates immediately or
// starts the poll loop.
func (m *Monitor) begin(ctx context.Context, exec *models.Execution) {
	m.mu.Lock()
	m.executionID = exec.ID
	m.latest = exec
	m.mu.Unlock()

	m.publish(exec)
	if exec.IsTerminal() {
		m.terminate(exec)
		return
	}

	m.setState(StatePolling)
	go m.pollLoop(ctx)
}

// pollLoop fetches the execution at the configured interval until a
// terminal status is observed or the caller discards the monitor by
// canceling ctx. Transient fetch failures double the interval up to
// PollInterval * BackoffCap; a successful fetch resets it.
func (m *Monitor) pollLoop(ctx context.Context) {
	base := m.opts.PollInterval
	maxInterval := base * time.Duration(m.opts.BackoffCap)
	interval := base
	consecutiveFailures := 0

	for {
		timer := m.opts.Clock.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			m.discard(ctx.Err())
			return
		case <-timer.C():
		}

		exec, err := m.svc.GetExecution(ctx, m.executionID)
		if err != nil {
			if ctx.Err() != nil {
				m.discard(ctx.Err())
				return
			}
			consecutiveFailures++
			if consecutiveFailures >= m.opts.FailureNoticeAfter && m.opts.OnNotice != nil {
				m.opts.OnNotice(err, consecutiveFailures)
			}
			interval *= 2
			if interval > maxInterval {
				interval = maxInterval
			}
			continue
		}

		consecutiveFailures = 0
		interval = base

		m.mu.Lock()
		m.latest = exec
		m.mu.Unlock()
		m.publish(exec)

		if exec.IsTerminal() {
			m.terminate(exec)
			return
		}
	}
}

// Cancel sends a cancellation request to the backend. Cancellation is
// cooperative and eventually consistent: the monitor does not force a
// local terminal transition and keeps polling until the backend itself
// reports a terminal status. If the run completes before the backend
// observes the cancel, the observed status wins.
func (m *Monitor) Cancel(ctx context.Context) error {
	m.mu.Lock()
	id := m.executionID
	if id == "" {
		m.mu.Unlock()
		return fmt.Errorf("monitor has no execution to cancel")
	}
	m.cancelRequested = true
	m.mu.Unlock()

	if err := m.svc.CancelExecution(ctx, id); err != nil {
		return fmt.Errorf("request cancellation: %w", err)
	}
	return nil
}

// CancelRequested reports whether Cancel has been called on this monitor.
// Display-only; the run's actual outcome is whatever status the backend
// reports.
func (m *Monitor) CancelRequested() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelRequested
}

// State returns the monitor's current lifecycle state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Latest returns the most recent execution snapshot.
func (m *Monitor) Latest() *models.Execution {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

// Snapshots delivers each execution snapshot as it is fetched, including
// the terminal one. The channel is closed after the terminal snapshot.
// Slow consumers lose intermediate snapshots rather than stalling the
// poll loop; the terminal state is always available from Final.
func (m *Monitor) Snapshots() <-chan *models.Execution {
	return m.snapshots
}

// Done is closed exactly once, when the monitor reaches Terminal or is
// discarded.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// Final returns the terminal execution and, for a failed run, a *RunError
// carrying the backend's error verbatim. Valid after Done is closed. A
// discarded monitor returns the context error and the last known snapshot.
func (m *Monitor) Final() (*models.Execution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finalExec, m.finalErr
}

// publish offers a snapshot without ever blocking the poll loop.
func (m *Monitor) publish(exec *models.Execution) {
	select {
	case m.snapshots <- exec:
	default:
	}
}

// terminate records the terminal execution and closes done exactly once.
func (m *Monitor) terminate(exec *models.Execution) {
	m.finish.Do(func() {
		var err error
		if exec.Status == models.StatusFailed {
			err = &RunError{ExecutionID: exec.ID, Message: exec.Error}
		}
		m.mu.Lock()
		m.state = StateTerminal
		m.finalExec = exec
		m.finalErr = err
		m.mu.Unlock()
		close(m.snapshots)
		close(m.done)
	})
}

// discard ends the monitor without a terminal status, because the caller
// canceled the context that owns the poll loop.
func (m *Monitor) discard(cause error) {
	m.finish.Do(func() {
		m.mu.Lock()
		m.state = StateTerminal
		m.finalExec = m.latest
		m.finalErr = cause
		m.mu.Unlock()
		close(m.snapshots)
		close(m.done)
	})
}
