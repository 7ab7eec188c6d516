// Package fmstore is the data-access layer of the file manager: a MongoDB
// document-store client and a Redis key-value cache client. Both are thin
// wrappers; pooling, retry and consistency stay with the drivers.
//
// Components:
//   - docstore.Client: counts and collection handles for "users" and "files".
//   - kvcache.Client: get / set-with-expiry / delete over a provider.Provider.
//   - Tracker: last observed connection State of a client, fed by driver
//     events (mongo heartbeats, redis dials) and reported to Hooks.
//
// Clients are built once at startup and passed around through app.App;
// there is no package-level state.
//
//	a, err := app.New(ctx, cfg, app.Options{Logger: zaplog.ZapLogger{L: zl}})
//	n, err := a.DB.CountUsers(ctx)
//	err = a.Cache.Set(ctx, "session:42", kvcache.String("abc123"), 10*time.Second)
package fmstore
