package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/unkn0wn-root/fmstore/config"
	"github.com/unkn0wn-root/fmstore/kvcache"
	"github.com/unkn0wn-root/fmstore/statusapi"
)

func TestNewAndClose(t *testing.T) {
	mr := miniredis.RunT(t)

	var cfg config.Config
	cfg.LoadDefaults()
	cfg.Cache.Addr = mr.Addr()
	cfg.Cache.HealthInterval = -1

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := New(ctx, &cfg, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.DB.URI() != "mongodb://localhost:27017/file_manager" {
		t.Fatalf("DB URI=%q", a.DB.URI())
	}
	if !a.Status().Redis {
		t.Fatalf("cache should report alive against a running server")
	}

	if err := a.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if st := a.Status(); st.Redis || st.DB {
		t.Fatalf("closed app must report both down, got %+v", st)
	}
}

func TestStatusMatchesHandler(t *testing.T) {
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.Cache.Provider = config.CacheRistretto
	cfg.Cache.HealthInterval = -1

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a, err := New(ctx, &cfg, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close(ctx)

	rec := httptest.NewRecorder()
	statusapi.NewRouter(a.DB, a.Cache, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	var served statusapi.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &served); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st := a.Status(); served != st {
		t.Fatalf("/status served %+v, App.Status %+v", served, st)
	}
	if !served.Redis {
		t.Fatalf("in-process cache must be reported alive")
	}
}

func TestNewUnknownCacheProvider(t *testing.T) {
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.Cache.Provider = "memcached"

	if _, err := New(context.Background(), &cfg, Options{}); !errors.Is(err, kvcache.ErrProvider) {
		t.Fatalf("expected kvcache.ErrProvider, got %v", err)
	}
}
