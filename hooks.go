package fmstore

// Hooks receive connection-state transitions of a client.
// Implementations MUST be cheap and non-blocking: they run on driver
// goroutines (dial path, heartbeat monitor). Wrap with hooks/async otherwise.
//
// component is "docstore" or "kvcache".
type Hooks interface {
	// State moved Disconnected -> Connected.
	Connected(component string)
	// State moved Connected -> Disconnected. err is a *ConnectionError or nil
	// when the client was closed.
	Disconnected(component string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Connected(string)           {}
func (NopHooks) Disconnected(string, error) {}
