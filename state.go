package fmstore

import (
	"sync"
	"sync/atomic"
)

// State is the last observed connection status of a client.
type State int32

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	switch s {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

type TrackerOptions struct {
	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used
}

// Tracker reflects driver connection events as a two-state machine.
// It never reconnects anything; drivers report into it and callers read it.
// Safe for concurrent use. Alive is lock-free.
type Tracker struct {
	component string
	state     atomic.Int32
	closed    atomic.Bool
	log       Logger
	hooks     Hooks

	mu sync.Mutex // orders transitions so hooks observe them in sequence
}

func NewTracker(component string, initial State, opts TrackerOptions) *Tracker {
	t := &Tracker{
		component: component,
		log:       Coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:     Coalesce[Hooks](opts.Hooks, NopHooks{}),
	}
	t.state.Store(int32(initial))
	return t
}

func (t *Tracker) Component() string { return t.component }

func (t *Tracker) State() State {
	if t == nil {
		return Disconnected
	}
	return State(t.state.Load())
}

// Alive reports whether the last observed event was a successful connect.
// A nil Tracker is never alive.
func (t *Tracker) Alive() bool { return t.State() == Connected }

// ReportConnected records a connect event. Ignored after ReportClosed.
func (t *Tracker) ReportConnected() {
	if t.closed.Load() || State(t.state.Load()) == Connected {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed.Load() || State(t.state.Swap(int32(Connected))) == Connected {
		return
	}
	t.log.Info("connection established", Fields{"component": t.component})
	t.hooks.Connected(t.component)
}

// ReportError records a connection-error event. Every event is logged,
// hooks fire only on the Connected -> Disconnected edge. Ignored after
// ReportClosed.
func (t *Tracker) ReportError(err error) {
	if t.closed.Load() {
		return
	}
	cerr := &ConnectionError{Component: t.component, Err: err}
	t.log.Error("connection failed", Fields{"component": t.component, "err": cerr.Error()})

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed.Load() || State(t.state.Swap(int32(Disconnected))) == Disconnected {
		return
	}
	t.hooks.Disconnected(t.component, cerr)
}

// ReportClosed marks the client as intentionally disconnected. The state is
// terminal: later connect or error reports are dropped.
func (t *Tracker) ReportClosed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed.Store(true)
	if State(t.state.Swap(int32(Disconnected))) == Disconnected {
		return
	}
	t.log.Debug("connection closed", Fields{"component": t.component})
	t.hooks.Disconnected(t.component, nil)
}
