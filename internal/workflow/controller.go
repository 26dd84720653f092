// Package workflow drives the fetch, reply and advance loop for one annotator.
//
// The Controller is a state machine owned by a single event loop. Methods that
// trigger backend work return a *Request instead of blocking; the caller runs
// it off the loop and feeds the Result back through Apply. At most one request
// is outstanding at any time, so results are always applied in the order the
// requests were issued.
package workflow

import (
	"context"
	"fmt"

	"github.com/runoshun/promptdesk/internal/domain"
)

// State is the state of the workflow.
type State int

const (
	StateEmpty   State = iota // No current task
	StateLoading              // A fetch or submit is in flight
	StateReady                // A current task is awaiting input
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// RequestKind identifies what triggered a request.
type RequestKind int

const (
	RequestFetch  RequestKind = iota // Bootstrap or manual retry
	RequestSubmit                    // Reply to the current task
	RequestSkip                      // Advance without replying
)

// String returns the string representation of the request kind.
func (k RequestKind) String() string {
	switch k {
	case RequestFetch:
		return "fetch"
	case RequestSubmit:
		return "submit"
	case RequestSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Request is a backend call issued by the Controller.
// Run may be called from any goroutine, exactly once.
type Request struct {
	ctx    context.Context
	call   func(ctx context.Context) (*domain.Task, error)
	TaskID string // Task replied to or skipped; empty for fetches
	ID     uint64
	Kind   RequestKind
}

// Run performs the call and returns its result. It never panics on backend
// failures; errors are carried in the Result.
func (r *Request) Run() Result {
	task, err := r.call(r.ctx)
	if err == nil && task != nil {
		if verr := task.Validate(); verr != nil {
			task, err = nil, &domain.RequestError{Op: r.Kind.String(), Err: verr}
		}
	}
	return Result{RequestID: r.ID, Kind: r.Kind, Task: task, Err: err}
}

// Result is the outcome of a Request.
// A nil Task with a nil Err means the queue had no task.
type Result struct {
	Task      *domain.Task
	Err       error
	RequestID uint64
	Kind      RequestKind
}

// Event is passed to observers after a request completes successfully.
type Event struct {
	Task     *domain.Task // Task appended to the history, nil if the queue was empty
	Previous *domain.Task // Current task before the request, nil on bootstrap
	Kind     RequestKind
}

// Observer is notified of completed requests.
// Observers must not call back into the Controller.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) { f(ev) }

// Snapshot is the read-only view exposed to presentation.
// Fields are ordered to minimize memory padding.
type Snapshot struct {
	CurrentTask *domain.Task
	Err         error
	DraftText   string
	State       State
	HistoryLen  int
	IsLoading   bool
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l domain.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers an observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithContext sets the parent context of every request.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// Controller owns the task history and the draft, and sequences requests.
// It is not safe for concurrent use.
// Fields are ordered to minimize memory padding.
type Controller struct {
	ctx       context.Context
	fetcher   domain.TaskFetcher
	submitter domain.TaskSubmitter
	logger    domain.Logger
	err       error
	cancel    context.CancelFunc
	pending   *Request
	observers []Observer
	draft     InputBuffer
	history   domain.TaskHistory
	seq       uint64
	state     State
	prior     State
	activated bool
	closed    bool
}

// New creates a Controller in the Empty state.
func New(fetcher domain.TaskFetcher, submitter domain.TaskSubmitter, opts ...Option) *Controller {
	c := &Controller{
		ctx:       context.Background(),
		fetcher:   fetcher,
		submitter: submitter,
		logger:    nopLogger{},
		state:     StateEmpty,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Activate issues the bootstrap fetch. It returns a request only on the first
// call, and only if no task has been received yet.
func (c *Controller) Activate() *Request {
	if c.activated || c.closed {
		return nil
	}
	c.activated = true
	if c.history.Len() > 0 {
		return nil
	}
	return c.begin(RequestFetch, "", c.fetcher.FetchNewTask)
}

// Retry fetches again after the queue was found empty or the bootstrap fetch
// failed. It does nothing unless the controller is Empty.
func (c *Controller) Retry() *Request {
	if c.closed || c.state != StateEmpty {
		return nil
	}
	c.activated = true
	return c.begin(RequestFetch, "", c.fetcher.FetchNewTask)
}

// Submit sends the trimmed draft as a reply to the current task.
// It does nothing unless the controller is Ready.
func (c *Controller) Submit() *Request {
	if c.closed || c.state != StateReady {
		return nil
	}
	current := c.history.Current()
	req := domain.NewTextReply(current.ID, c.draft.Text())
	submitter := c.submitter
	return c.begin(RequestSubmit, current.ID, func(ctx context.Context) (*domain.Task, error) {
		return submitter.SubmitResponse(ctx, req)
	})
}

// Skip fetches a new task without sending the draft.
// It does nothing unless the controller is Ready.
func (c *Controller) Skip() *Request {
	if c.closed || c.state != StateReady {
		return nil
	}
	return c.begin(RequestSkip, c.history.Current().ID, c.fetcher.FetchNewTask)
}

func (c *Controller) begin(kind RequestKind, taskID string, call func(context.Context) (*domain.Task, error)) *Request {
	ctx, cancel := context.WithCancel(c.ctx)
	c.seq++
	c.cancel = cancel
	c.prior = c.state
	c.state = StateLoading
	c.err = nil
	c.pending = &Request{
		ctx:    ctx,
		call:   call,
		TaskID: taskID,
		ID:     c.seq,
		Kind:   kind,
	}
	c.logger.Debug(taskID, "workflow", fmt.Sprintf("request #%d %s started", c.seq, kind))
	return c.pending
}

// Apply applies the result of the outstanding request and reports whether it
// was accepted. Results of torn down or unknown requests are dropped.
func (c *Controller) Apply(res Result) bool {
	if c.pending == nil || res.RequestID != c.pending.ID {
		c.logger.Debug("", "workflow", fmt.Sprintf("request #%d result dropped", res.RequestID))
		return false
	}
	req := c.pending
	c.pending = nil
	c.cancel()
	c.cancel = nil

	if res.Err != nil {
		c.state = c.prior
		c.err = res.Err
		c.logger.Warn(req.TaskID, "workflow", fmt.Sprintf("request #%d %s failed: %v", req.ID, req.Kind, res.Err))
		return true
	}

	previous := c.history.Current()
	if c.prior != StateReady {
		previous = nil
	}

	if res.Task == nil {
		c.state = StateEmpty
		if req.Kind != RequestFetch {
			c.draft.Clear()
		}
		c.logger.Info(req.TaskID, "workflow", fmt.Sprintf("request #%d %s: queue empty", req.ID, req.Kind))
		c.notify(Event{Previous: previous, Kind: req.Kind})
		return true
	}

	c.history.Append(res.Task)
	c.draft.Clear()
	c.state = StateReady
	c.logger.Info(res.Task.ID, "workflow", fmt.Sprintf("request #%d %s: task received (%d in history)", req.ID, req.Kind, c.history.Len()))
	c.notify(Event{Task: res.Task, Previous: previous, Kind: req.Kind})
	return true
}

func (c *Controller) notify(ev Event) {
	for _, o := range c.observers {
		o.Observe(ev)
	}
}

// Teardown cancels the outstanding request and stops accepting triggers.
// The result of a canceled request is never applied.
func (c *Controller) Teardown() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.pending != nil {
		c.logger.Debug(c.pending.TaskID, "workflow", fmt.Sprintf("request #%d canceled", c.pending.ID))
		c.pending = nil
		c.state = c.prior
	}
	c.closed = true
}

// SetDraft replaces the draft text.
func (c *Controller) SetDraft(text string) {
	c.draft.SetText(text)
}

// Draft returns the draft text.
func (c *Controller) Draft() string {
	return c.draft.Text()
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Current returns the current task, or nil if the controller has none.
// While a request is in flight the previous current task is returned.
func (c *Controller) Current() *domain.Task {
	state := c.state
	if state == StateLoading {
		state = c.prior
	}
	if state != StateReady {
		return nil
	}
	return c.history.Current()
}

// History returns a copy of the received tasks in order.
func (c *Controller) History() []*domain.Task {
	return c.history.Tasks()
}

// Err returns the error of the last failed request, cleared by the next one.
func (c *Controller) Err() error {
	return c.err
}

// Snapshot returns the state exposed to presentation.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		CurrentTask: c.Current(),
		Err:         c.err,
		DraftText:   c.draft.Text(),
		State:       c.state,
		HistoryLen:  c.history.Len(),
		IsLoading:   c.state == StateLoading,
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, string) {}
func (nopLogger) Info(string, string, string)  {}
func (nopLogger) Warn(string, string, string)  {}
func (nopLogger) Error(string, string, string) {}
