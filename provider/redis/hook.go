package redis

import (
	"context"
	"errors"
	"io"
	"net"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/fmstore"
)

// StateHook feeds go-redis connection events into a Tracker:
// a command that got an answer from the server is a connect event, a failed
// dial or a command failing at the network level is an error event.
// A dial alone proves nothing; the server may accept and never reply.
type StateHook struct {
	t *fmstore.Tracker
}

var _ goredis.Hook = (*StateHook)(nil)

func NewStateHook(t *fmstore.Tracker) *StateHook { return &StateHook{t: t} }

func (h *StateHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			if !isContextErr(err) {
				h.t.ReportError(err)
			}
			return nil, err
		}
		return conn, nil
	}
}

func (h *StateHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		err := next(ctx, cmd)
		h.observe(err)
		return err
	}
}

func (h *StateHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		err := next(ctx, cmds)
		h.observe(err)
		return err
	}
}

func (h *StateHook) observe(err error) {
	switch {
	case err == nil || errors.Is(err, goredis.Nil) || isReply(err):
		h.t.ReportConnected()
	case IsConnError(err):
		h.t.ReportError(err)
	}
}

// isReply reports whether err is an error reply sent by the server.
func isReply(err error) bool {
	var rerr goredis.Error
	return errors.As(err, &rerr)
}

// IsConnError reports whether err means the server could not be reached
// (as opposed to a miss, a server-side error reply or a caller cancellation).
func IsConnError(err error) bool {
	if err == nil || errors.Is(err, goredis.Nil) || isContextErr(err) {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
