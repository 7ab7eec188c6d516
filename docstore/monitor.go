package docstore

import (
	"errors"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/event"

	"github.com/unkn0wn-root/fmstore"
)

var errNoLiveServer = errors.New("docstore: no live server left in topology")

// NewServerMonitor maps driver heartbeats onto t. Heartbeats are tracked per
// server address: the store is alive while at least one server's last
// heartbeat succeeded, so a single failing replica-set member does not mark
// it down. When the last live server fails, t gets an error event carrying
// that failure. Closing the topology marks t closed.
func NewServerMonitor(t *fmstore.Tracker) *event.ServerMonitor {
	s := &serverSet{t: t, up: make(map[string]bool)}
	return &event.ServerMonitor{
		ServerHeartbeatSucceeded: func(e *event.ServerHeartbeatSucceededEvent) {
			s.mark(e.ConnectionID, true, nil)
		},
		ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
			s.mark(e.ConnectionID, false, e.Failure)
		},
		ServerClosed: func(e *event.ServerClosedEvent) {
			s.remove(string(e.Address))
		},
		TopologyClosed: func(*event.TopologyClosedEvent) {
			t.ReportClosed()
		},
	}
}

type serverSet struct {
	t  *fmstore.Tracker
	mu sync.Mutex
	up map[string]bool // by server address
}

func (s *serverSet) mark(connID string, ok bool, failure error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.up[serverAddr(connID)] = ok
	s.report(failure)
}

// remove forgets a server dropped from the topology.
func (s *serverSet) remove(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.up[addr]; !ok {
		return
	}
	delete(s.up, addr)
	if len(s.up) > 0 {
		s.report(errNoLiveServer)
	}
}

func (s *serverSet) report(failure error) {
	for _, ok := range s.up {
		if ok {
			s.t.ReportConnected()
			return
		}
	}
	if failure != nil {
		s.t.ReportError(failure)
	}
}

// serverAddr strips the connection counter from a driver connection ID
// ("host:port[-7]" -> "host:port"); monitoring connections are redialed
// with fresh IDs.
func serverAddr(connID string) string {
	addr, _, _ := strings.Cut(connID, "[")
	return addr
}
