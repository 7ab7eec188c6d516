package asynchook

import (
	"errors"
	"sync"
	"testing"
)

type recHooks struct {
	mu     sync.Mutex
	events []string
	gate   chan struct{}
}

func (r *recHooks) Connected(c string) {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	r.events = append(r.events, "up:"+c)
	r.mu.Unlock()
}

func (r *recHooks) Disconnected(c string, err error) {
	r.mu.Lock()
	r.events = append(r.events, "down:"+c+":"+err.Error())
	r.mu.Unlock()
}

func TestDeliversInOrder(t *testing.T) {
	rec := &recHooks{}
	h := New(rec, 16)

	h.Disconnected("kvcache", errors.New("refused"))
	h.Connected("kvcache")
	h.Connected("docstore")
	h.Close()
	h.Close() // idempotent

	want := []string{"down:kvcache:refused", "up:kvcache", "up:docstore"}
	if len(rec.events) != len(want) {
		t.Fatalf("events=%v want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Fatalf("events=%v want %v", rec.events, want)
		}
	}
}

func TestDropsWhenFull(t *testing.T) {
	rec := &recHooks{gate: make(chan struct{})}
	h := New(rec, 1)

	h.Connected("a") // taken by the worker, blocks on gate
	h.Connected("b") // may be queued or taken
	for i := 0; i < 10; i++ {
		h.Connected("x")
	}
	if h.Dropped() == 0 {
		t.Fatalf("expected drops with a full queue")
	}
	close(rec.gate)
	h.Close()
}
