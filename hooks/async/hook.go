// Package asynchook moves fmstore.Hooks calls off the driver goroutines.
// Transitions are queued on a bounded channel and delivered in order by a
// single worker; when the queue is full the event is dropped.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{})
//	hooks := asynchook.New(raw, 256)
//	defer hooks.Close()
//
//	a, _ := app.New(ctx, cfg, app.Options{Hooks: hooks})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/fmstore"
)

type Hooks struct {
	inner   fmstore.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Uint64
}

var _ fmstore.Hooks = (*Hooks)(nil)

// New starts one worker. qlen <= 0 => 1024.
func New(inner fmstore.Hooks, qlen int) *Hooks {
	if qlen <= 0 {
		qlen = 1024
	}
	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for f := range h.q {
			f()
		}
	}()
	return h
}

// Close drains the queue and stops the worker. Calls after Close panic.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped counts events lost to a full queue.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) Connected(c string) { h.try(func() { h.inner.Connected(c) }) }
func (h *Hooks) Disconnected(c string, err error) {
	h.try(func() { h.inner.Disconnected(c, err) })
}
