// Package docstore is the document-store client: one MongoDB connection,
// counts and handles for the "users" and "files" collections.
//
// The client adds no retry, buffering or query logic. Driver errors reach the
// caller unchanged; callers holding a collection handle do their own reads
// and writes.
package docstore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unkn0wn-root/fmstore"
	"github.com/unkn0wn-root/fmstore/config"
)

const Component = "docstore"

const (
	CollUsers = "users"
	CollFiles = "files"
)

// InitialState is Disconnected: the store counts as alive only once a
// server heartbeat has succeeded.
const InitialState = fmstore.Disconnected

var (
	ErrNilClient  = errors.New("docstore: nil mongo client")
	ErrNoDatabase = errors.New("docstore: database name is required")
)

type Options struct {
	Logger fmstore.Logger // if nil, NopLogger is used
	Hooks  fmstore.Hooks  // if nil, NopHooks is used
}

type Client struct {
	mc    *mongo.Client
	db    *mongo.Database
	uri   string
	state *fmstore.Tracker
	log   fmstore.Logger
	owned bool

	closed atomic.Bool
	once   sync.Once
}

// New starts connecting to cfg.URI() and returns immediately; server
// discovery and heartbeats run in the driver's background goroutines.
// IsAlive turns true on the first successful heartbeat.
func New(ctx context.Context, cfg config.DocStore, opts Options) (*Client, error) {
	if cfg.Database == "" {
		return nil, ErrNoDatabase
	}
	tr := newTracker(opts)
	uri := cfg.URI()

	co := options.Client().
		ApplyURI(uri).
		SetServerMonitor(NewServerMonitor(tr))
	mc, err := mongo.Connect(ctx, co)
	if err != nil {
		return nil, err
	}

	c := wrap(mc, cfg.Database, tr, opts)
	c.uri = uri
	c.owned = true
	c.log.Info("document store connecting", fmstore.Fields{"uri": uri})
	return c, nil
}

// NewFromClient wraps a driver client owned by the caller. Close leaves it
// connected. The state stays Disconnected unless the caller installed
// NewServerMonitor(c.Tracker()) or reports into Tracker itself.
func NewFromClient(mc *mongo.Client, database string, opts Options) (*Client, error) {
	if mc == nil {
		return nil, ErrNilClient
	}
	if database == "" {
		return nil, ErrNoDatabase
	}
	return wrap(mc, database, newTracker(opts), opts), nil
}

func newTracker(opts Options) *fmstore.Tracker {
	return fmstore.NewTracker(Component, InitialState, fmstore.TrackerOptions{
		Logger: opts.Logger,
		Hooks:  opts.Hooks,
	})
}

func wrap(mc *mongo.Client, database string, tr *fmstore.Tracker, opts Options) *Client {
	return &Client{
		mc:    mc,
		db:    mc.Database(database),
		state: tr,
		log:   fmstore.Coalesce[fmstore.Logger](opts.Logger, fmstore.NopLogger{}),
	}
}

// IsAlive reports whether the last server heartbeat succeeded. Never blocks.
func (c *Client) IsAlive() bool {
	if c == nil {
		return false
	}
	return c.state.Alive()
}

func (c *Client) Tracker() *fmstore.Tracker { return c.state }
func (c *Client) URI() string               { return c.uri }
func (c *Client) Database() string          { return c.db.Name() }

// CountUsers returns the number of documents in the users collection.
func (c *Client) CountUsers(ctx context.Context) (int64, error) {
	return c.count(ctx, CollUsers)
}

// CountFiles returns the number of documents in the files collection.
func (c *Client) CountFiles(ctx context.Context) (int64, error) {
	return c.count(ctx, CollFiles)
}

// UsersCollection returns the users collection handle. Its lifetime is bound
// to the client.
func (c *Client) UsersCollection() (*mongo.Collection, error) {
	return c.collection(CollUsers)
}

// FilesCollection returns the files collection handle.
func (c *Client) FilesCollection() (*mongo.Collection, error) {
	return c.collection(CollFiles)
}

// Close disconnects an owned driver client. Idempotent.
func (c *Client) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.closed.Store(true)
		if c.owned {
			err = c.mc.Disconnect(ctx)
		}
		c.state.ReportClosed()
	})
	return err
}

func (c *Client) count(ctx context.Context, name string) (int64, error) {
	coll, err := c.collection(name)
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, bson.D{})
}

func (c *Client) collection(name string) (*mongo.Collection, error) {
	if c.closed.Load() {
		return nil, fmstore.ErrClosed
	}
	return c.db.Collection(name), nil
}
