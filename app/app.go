// Package app builds the clients once at startup and hands them to the rest
// of the program explicitly.
package app

import (
	"context"
	"errors"

	"github.com/unkn0wn-root/fmstore"
	"github.com/unkn0wn-root/fmstore/config"
	"github.com/unkn0wn-root/fmstore/docstore"
	"github.com/unkn0wn-root/fmstore/kvcache"
	"github.com/unkn0wn-root/fmstore/statusapi"
)

type Options struct {
	Logger fmstore.Logger // shared by both clients; nil => NopLogger
	Hooks  fmstore.Hooks  // shared by both clients; nil => NopHooks
}

// App owns one document-store client and one cache client for the life of
// the process. Components receive *App (or the single client they need)
// instead of reaching for globals.
type App struct {
	DB    *docstore.Client
	Cache *kvcache.Client
}

// New builds both clients. Neither waits for its server.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	db, err := docstore.New(ctx, cfg.DocStore, docstore.Options{Logger: opts.Logger, Hooks: opts.Hooks})
	if err != nil {
		return nil, err
	}
	cache, err := kvcache.New(cfg.Cache, kvcache.Options{Logger: opts.Logger, Hooks: opts.Hooks})
	if err != nil {
		_ = db.Close(ctx)
		return nil, err
	}
	return &App{DB: db, Cache: cache}, nil
}

// Status is the health snapshot served at /status.
func (a *App) Status() statusapi.Status { return statusapi.Check(a.DB, a.Cache) }

// Close tears down both clients and returns every error encountered.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.Cache.Close(ctx), a.DB.Close(ctx))
}
