// Package sloghooks logs connection-state transitions through log/slog.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/fmstore"
)

type Options struct {
	// Sampling of Disconnected logs to avoid floods from a flapping link;
	// 0/1 = log all.
	DisconnectEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	disconnectCtr atomic.Uint64
}

var _ fmstore.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 1
}

func (h *Hooks) Connected(component string) {
	if h.l == nil {
		return
	}
	h.l.Info("fmstore.connected", "component", component)
}

func (h *Hooks) Disconnected(component string, err error) {
	if h.l == nil || !sample(h.opts.DisconnectEvery, &h.disconnectCtr) {
		return
	}
	if err == nil {
		h.l.Info("fmstore.closed", "component", component)
		return
	}
	h.l.Warn("fmstore.disconnected", "component", component, "err", err)
}
