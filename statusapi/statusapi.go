// Package statusapi serves the health and statistics endpoints of the file
// manager:
//
//	GET /status -> {"redis": true, "db": true}
//	GET /stats  -> {"users": 12, "files": 1231}
package statusapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unkn0wn-root/fmstore"
)

// Pinger is anything with a non-blocking liveness flag.
type Pinger interface {
	IsAlive() bool
}

// Counter reports collection sizes.
type Counter interface {
	CountUsers(ctx context.Context) (int64, error)
	CountFiles(ctx context.Context) (int64, error)
}

type Store interface {
	Pinger
	Counter
}

// Status is the body of GET /status.
type Status struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// Check reads both liveness flags without blocking.
func Check(db, cache Pinger) Status {
	return Status{Redis: cache.IsAlive(), DB: db.IsAlive()}
}

// Stats is the body of GET /stats.
type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

type Handlers struct {
	db    Store
	cache Pinger
	log   fmstore.Logger
}

func NewRouter(db Store, cache Pinger, log fmstore.Logger) chi.Router {
	h := &Handlers{db: db, cache: cache, log: fmstore.Coalesce[fmstore.Logger](log, fmstore.NopLogger{})}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Get("/status", h.Status)
	r.Get("/stats", h.Stats)
	return r
}

func (h *Handlers) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Check(h.db, h.cache))
}

func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	users, err := h.db.CountUsers(r.Context())
	if err != nil {
		h.log.Error("count users failed", fmstore.Fields{"err": err})
		writeError(w, http.StatusInternalServerError, "failed to count users")
		return
	}
	files, err := h.db.CountFiles(r.Context())
	if err != nil {
		h.log.Error("count files failed", fmstore.Fields{"err": err})
		writeError(w, http.StatusInternalServerError, "failed to count files")
		return
	}
	writeJSON(w, http.StatusOK, Stats{Users: users, Files: files})
}

// writeJSON writes JSON response with the specified status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
