package statusapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeStore struct {
	alive        bool
	users, files int64
	err          error
}

func (f fakeStore) IsAlive() bool { return f.alive }
func (f fakeStore) CountUsers(context.Context) (int64, error) {
	return f.users, f.err
}
func (f fakeStore) CountFiles(context.Context) (int64, error) {
	return f.files, f.err
}

type fakeCache bool

func (f fakeCache) IsAlive() bool { return bool(f) }

func do(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s: %v (%s)", path, err, rec.Body.String())
	}
	return rec, body
}

func TestStatus(t *testing.T) {
	r := NewRouter(fakeStore{alive: false}, fakeCache(true), nil)
	rec, body := do(t, r, "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d", rec.Code)
	}
	if body["redis"] != true || body["db"] != false {
		t.Fatalf("body=%v", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type=%q", ct)
	}
}

func TestStatusBodyMatchesCheck(t *testing.T) {
	db, cache := fakeStore{alive: true}, fakeCache(false)
	rec := httptest.NewRecorder()
	NewRouter(db, cache, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	var got Status
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if want := Check(db, cache); got != want {
		t.Fatalf("served %+v, Check returns %+v", got, want)
	}
}

func TestStats(t *testing.T) {
	r := NewRouter(fakeStore{alive: true, users: 4, files: 30}, fakeCache(true), nil)
	rec, body := do(t, r, "/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d", rec.Code)
	}
	if body["users"] != float64(4) || body["files"] != float64(30) {
		t.Fatalf("body=%v", body)
	}
}

func TestStatsError(t *testing.T) {
	r := NewRouter(fakeStore{err: errors.New("server selection timeout")}, fakeCache(false), nil)
	rec, body := do(t, r, "/stats")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code=%d", rec.Code)
	}
	if body["error"] != "failed to count users" {
		t.Fatalf("body=%v", body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	r := NewRouter(fakeStore{}, fakeCache(true), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("code=%d", rec.Code)
	}
}
