package notebook

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"sync"
)

// Status is the phase of a Viewer.
type Status int

const (
	// StatusIdle means no reference has been loaded.
	StatusIdle Status = iota
	// StatusLoading means a retrieval is in flight.
	StatusLoading
	// StatusReady means the current reference parsed as a Document.
	StatusReady
	// StatusFailed means the current reference could not be shown; see State.Reason.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is an immutable snapshot of a Viewer.
type State struct {
	Status Status
	Ref    string
	// Document is set only when Status is StatusReady.
	Document *Document
	// Reason and Err are set only when Status is StatusFailed.
	Reason Reason
	Err    error
}

// Blocks is the lazy block sequence of a ready state; empty otherwise.
func (s State) Blocks() iter.Seq[Block] {
	if s.Status != StatusReady {
		return func(func(Block) bool) {}
	}
	return s.Document.Blocks()
}

// Message is the human-readable text shown for the state.
func (s State) Message() string {
	switch s.Status {
	case StatusLoading:
		return "Loading notebook..."
	case StatusFailed:
		if s.Reason == ReasonFormat {
			return "Invalid notebook format."
		}
		return "Error loading notebook. Check your connection and try again."
	default:
		return ""
	}
}

// Viewer owns the state machine for showing one notebook reference at a time.
//
// Each Load starts a new generation. Only the generation that is current
// when a retrieval completes may write its result; anything that arrives for
// an older reference is dropped. The viewer itself never times out a
// retrieval.
type Viewer struct {
	fetcher  Fetcher
	logger   *slog.Logger
	loggerOf func(context.Context) *slog.Logger
	observer func(State)

	mu     sync.Mutex
	gen    uint64
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// ViewerOption configures a Viewer.
type ViewerOption func(*Viewer)

// WithObserver registers fn to receive every applied state transition in
// order. fn is called with the viewer locked and must not call back into it.
func WithObserver(fn func(State)) ViewerOption {
	return func(v *Viewer) {
		v.observer = fn
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) ViewerOption {
	return func(v *Viewer) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithContextLogger resolves the logger from each call's context, for viewers
// that outlive a single request.
func WithContextLogger(fn func(context.Context) *slog.Logger) ViewerOption {
	return func(v *Viewer) {
		v.loggerOf = fn
	}
}

func (v *Viewer) log(ctx context.Context) *slog.Logger {
	if v.loggerOf != nil {
		if l := v.loggerOf(ctx); l != nil {
			return l
		}
	}
	return v.logger
}

// NewViewer creates an idle viewer that retrieves references through fetcher.
func NewViewer(fetcher Fetcher, opts ...ViewerOption) *Viewer {
	v := &Viewer{
		fetcher: fetcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// State returns the current snapshot.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Load shows ref. It blocks until the retrieval for ref completes (or ctx is
// done) and returns the viewer's state at that point. If another Load
// superseded this one meanwhile, the returned state belongs to the newer
// reference; callers compare State.Ref to detect that.
//
// Loading the reference that is already current does not fetch again. A
// retrieval whose ctx ends before it completes leaves the viewer idle, so a
// later Load fetches instead of reporting the cancellation as a failure.
func (v *Viewer) Load(ctx context.Context, ref string) State {
	return v.load(ctx, ref, false)
}

// Reload fetches the current reference again. It is the explicit retry for a
// failed load; an idle viewer is left untouched.
func (v *Viewer) Reload(ctx context.Context) State {
	v.mu.Lock()
	ref := v.state.Ref
	idle := v.state.Status == StatusIdle
	v.mu.Unlock()
	if idle {
		return v.State()
	}
	return v.load(ctx, ref, true)
}

// Close cancels any in-flight retrieval and returns the viewer to idle.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.gen++
	if v.state.Status != StatusIdle {
		v.setLocked(State{Status: StatusIdle})
	}
}

func (v *Viewer) load(ctx context.Context, ref string, force bool) State {
	for {
		v.mu.Lock()
		if force || v.state.Status == StatusIdle || v.state.Ref != ref {
			return v.fetchLocked(ctx, ref)
		}
		if v.state.Status != StatusLoading {
			st := v.state
			v.mu.Unlock()
			return st
		}
		done, gen := v.done, v.gen
		v.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return v.State()
		}

		// The load we waited on was abandoned by its caller; take it over.
		v.mu.Lock()
		abandoned := v.gen == gen && v.state.Status == StatusIdle
		v.mu.Unlock()
		if !abandoned {
			return v.State()
		}
	}
}

// fetchLocked starts a retrieval of ref. It is called with v.mu held and
// releases it.
func (v *Viewer) fetchLocked(ctx context.Context, ref string) State {
	if v.cancel != nil {
		v.cancel()
	}
	v.gen++
	gen := v.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	v.cancel = cancel
	v.done = done
	v.setLocked(State{Status: StatusLoading, Ref: ref})
	v.mu.Unlock()

	defer close(done)
	defer cancel()

	raw, err := v.fetcher.Fetch(fetchCtx, ref)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		v.log(ctx).DebugContext(ctx, "discarding superseded notebook result",
			"ref", ref,
			"current_ref", v.state.Ref,
		)
		return v.state
	}
	v.cancel = nil

	// A caller that went away did not observe a failed retrieval. The viewer
	// returns to idle so the next Load of ref fetches again.
	if err != nil && ctx.Err() != nil {
		v.log(ctx).DebugContext(ctx, "notebook load abandoned", "ref", ref, "error", context.Cause(ctx))
		v.setLocked(State{Status: StatusIdle})
		return v.state
	}

	next := settle(ref, raw, err)
	v.setLocked(next)
	if next.Status == StatusFailed {
		v.log(ctx).DebugContext(ctx, "notebook load failed", "ref", ref, "reason", next.Reason.String(), "error", next.Err)
	}
	return next
}

func (v *Viewer) setLocked(st State) {
	v.state = st
	if v.observer != nil {
		v.observer(st)
	}
}

// settle turns a retrieval result into a terminal state.
func settle(ref string, raw []byte, err error) State {
	if err != nil {
		return State{Status: StatusFailed, Ref: ref, Reason: ReasonTransport, Err: asTransport(ref, err)}
	}
	doc, err := Parse(ref, raw)
	if err != nil {
		return State{Status: StatusFailed, Ref: ref, Reason: ReasonOf(err), Err: err}
	}
	return State{Status: StatusReady, Ref: ref, Document: doc}
}

func asTransport(ref string, err error) error {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return err
	}
	return &TransportError{Ref: ref, Err: err}
}
