package fmstore

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by client operations after Close.
var ErrClosed = errors.New("fmstore: client closed")

// ConnectionError describes why a client lost (or never got) its connection.
// It is reported through Hooks and logs; operations return driver errors as-is.
type ConnectionError struct {
	Component string
	Err       error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: connection lost", e.Component)
	}
	return fmt.Sprintf("%s: connection error: %v", e.Component, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
