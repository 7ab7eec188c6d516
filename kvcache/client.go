// Package kvcache is the key-value cache client: get, set-with-expiry and
// delete over a provider.Provider (Redis by default), plus the last observed
// connection state.
package kvcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/fmstore"
	"github.com/unkn0wn-root/fmstore/config"
	pr "github.com/unkn0wn-root/fmstore/provider"
	redisprov "github.com/unkn0wn-root/fmstore/provider/redis"
	"github.com/unkn0wn-root/fmstore/provider/ristretto"
)

// Component names this client in logs and hooks.
const Component = "kvcache"

// InitialState is Connected. The client is reported alive until the first
// error event, so health checks don't fail between construction and the
// first dial.
const InitialState = fmstore.Connected

const (
	defaultAddr           = "localhost:6379"
	defaultHealthInterval = 15 * time.Second
	defaultPingTimeout    = 2 * time.Second
)

var (
	ErrNilProvider = errors.New("kvcache: provider is required")
	ErrInvalidTTL  = errors.New("kvcache: ttl must be positive")
	ErrRejected    = errors.New("kvcache: write rejected by provider")
	ErrProvider    = errors.New("kvcache: unknown provider")
)

type Options struct {
	Logger fmstore.Logger // if nil, NopLogger is used
	Hooks  fmstore.Hooks  // if nil, NopHooks is used

	// HealthInterval is the period of background pings. 0 => config value,
	// then 15s; negative disables polling (the initial ping still runs).
	HealthInterval time.Duration
	PingTimeout    time.Duration // 0 => 2s
}

type Client struct {
	p     pr.Provider
	state *fmstore.Tracker
	log   fmstore.Logger

	healthInterval time.Duration
	pingTimeout    time.Duration

	closed atomic.Bool
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// New builds the client for cfg.Provider. "ristretto" keeps entries in
// process and is always alive; "redis" (or empty) connects to cfg.Addr.
//
// The Redis client does not wait for the server: an initial ping runs in
// the background. Ping outcomes and the state hook on the driver both
// report into IsAlive, so a server that accepts connections but never
// answers is reported down once a ping times out.
func New(cfg config.Cache, opts Options) (*Client, error) {
	opts.HealthInterval = fmstore.Coalesce(opts.HealthInterval, cfg.HealthInterval)
	switch cfg.Provider {
	case "", config.CacheRedis:
	case config.CacheRistretto:
		p, err := ristretto.New(ristretto.DefaultConfig())
		if err != nil {
			return nil, err
		}
		return NewWithProvider(p, opts)
	default:
		return nil, fmt.Errorf("%w %q", ErrProvider, cfg.Provider)
	}

	tr := newTracker(opts)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     fmstore.Coalesce(cfg.Addr, defaultAddr),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	rdb.AddHook(redisprov.NewStateHook(tr))

	p, err := redisprov.New(redisprov.Config{Client: rdb, CloseClient: true})
	if err != nil {
		return nil, err
	}
	return newClient(p, tr, opts), nil
}

// NewWithProvider wraps any provider. Connection state follows the outcome
// of the background pings.
func NewWithProvider(p pr.Provider, opts Options) (*Client, error) {
	if p == nil {
		return nil, ErrNilProvider
	}
	return newClient(p, newTracker(opts), opts), nil
}

func newTracker(opts Options) *fmstore.Tracker {
	return fmstore.NewTracker(Component, InitialState, fmstore.TrackerOptions{
		Logger: opts.Logger,
		Hooks:  opts.Hooks,
	})
}

func newClient(p pr.Provider, tr *fmstore.Tracker, opts Options) *Client {
	c := &Client{
		p:              p,
		state:          tr,
		log:            fmstore.Coalesce[fmstore.Logger](opts.Logger, fmstore.NopLogger{}),
		healthInterval: fmstore.Coalesce(opts.HealthInterval, defaultHealthInterval),
		pingTimeout:    fmstore.Coalesce(opts.PingTimeout, defaultPingTimeout),
		stopCh:         make(chan struct{}),
	}
	c.wg.Add(1)
	go c.watch()
	return c
}

func (c *Client) watch() {
	defer c.wg.Done()
	c.ping()
	if c.healthInterval < 0 {
		return
	}
	t := time.NewTicker(c.healthInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.ping()
		case <-c.stopCh:
			return
		}
	}
}

func (c *Client) ping() {
	ctx, cancel := context.WithTimeout(context.Background(), c.pingTimeout)
	defer cancel()
	go func() {
		select {
		case <-c.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := c.p.Ping(ctx)
	if c.closed.Load() {
		return
	}
	if err != nil {
		c.state.ReportError(err)
		return
	}
	c.state.ReportConnected()
}

// IsAlive returns the last observed connection state. Never blocks.
func (c *Client) IsAlive() bool {
	if c == nil {
		return false
	}
	return c.state.Alive()
}

// Tracker exposes the connection state machine, e.g. for providers that
// report their own events.
func (c *Client) Tracker() *fmstore.Tracker { return c.state }

// Get returns the text stored at key; ok=false when the key does not exist.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	b, ok, err := c.getRaw(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	return string(b), true, nil
}

// Set stores v.Text() under key for ttl, replacing any value and expiry.
func (c *Client) Set(ctx context.Context, key string, v Value, ttl time.Duration) error {
	return c.setRaw(ctx, key, []byte(v.Text()), ttl)
}

// SetSeconds is Set with the expiry given in whole seconds.
func (c *Client) SetSeconds(ctx context.Context, key string, v Value, seconds int) error {
	return c.Set(ctx, key, v, time.Duration(seconds)*time.Second)
}

// Del removes key. Deleting a missing key is not an error.
func (c *Client) Del(ctx context.Context, key string) error {
	if c.closed.Load() {
		return fmstore.ErrClosed
	}
	return c.p.Del(ctx, key)
}

// Close stops health polling and releases the provider. Idempotent.
func (c *Client) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.closed.Store(true)
		close(c.stopCh)
		c.wg.Wait()
		err = c.p.Close(ctx)
		c.state.ReportClosed()
	})
	return err
}

func (c *Client) getRaw(ctx context.Context, key string) ([]byte, bool, error) {
	if c.closed.Load() {
		return nil, false, fmstore.ErrClosed
	}
	return c.p.Get(ctx, key)
}

func (c *Client) setRaw(ctx context.Context, key string, b []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return fmstore.ErrClosed
	}
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	ok, err := c.p.Set(ctx, key, b, ttl)
	if err != nil {
		return err
	}
	if !ok {
		c.log.Debug("set rejected by provider (pressure)", fmstore.Fields{"key": key})
		return ErrRejected
	}
	return nil
}
