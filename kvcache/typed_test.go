package kvcache

import (
	"context"
	"testing"
	"time"

	"github.com/unkn0wn-root/fmstore/codec"
	"github.com/unkn0wn-root/fmstore/provider/ristretto"
)

type fileDoc struct {
	ID       string `json:"id" msgpack:"id"`
	Name     string `json:"name" msgpack:"name"`
	ParentID string `json:"parentId" msgpack:"parentId"`
}

func TestTypedOverRedis(t *testing.T) {
	ctx := context.Background()
	mr, c := newRedisClient(t)

	files := NewTyped[fileDoc](c, codec.JSON[fileDoc]{}, "file")
	in := fileDoc{ID: "f1", Name: "notes.txt", ParentID: "0"}

	if err := files.Set(ctx, "f1", in, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("file:f1") {
		t.Fatalf("typed value should be stored under prefixed key")
	}
	got, ok, err := files.Get(ctx, "f1")
	if err != nil || !ok || got != in {
		t.Fatalf("Get: ok=%v err=%v got=%+v", ok, err, got)
	}

	if err := files.Del(ctx, "f1"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := files.Get(ctx, "f1"); ok {
		t.Fatalf("deleted typed value still present")
	}
}

func TestTypedSelfHealsUndecodable(t *testing.T) {
	ctx := context.Background()
	mr, c := newRedisClient(t)

	if err := mr.Set("file:bad", "{not json"); err != nil {
		t.Fatal(err)
	}
	files := NewTyped[fileDoc](c, codec.JSON[fileDoc]{}, "file")
	if _, ok, err := files.Get(ctx, "bad"); err != nil || ok {
		t.Fatalf("undecodable entry should miss, ok=%v err=%v", ok, err)
	}
	if mr.Exists("file:bad") {
		t.Fatalf("undecodable entry should be deleted")
	}
}

func TestTypedOverRistretto(t *testing.T) {
	ctx := context.Background()
	p, err := ristretto.New(ristretto.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewWithProvider(p, Options{HealthInterval: -1})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close(ctx)

	docs := NewTyped[fileDoc](c, codec.Msgpack[fileDoc]{}, "")
	in := fileDoc{ID: "f2", Name: "a.png"}
	if err := docs.Set(ctx, "f2", in, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := docs.Get(ctx, "f2")
	if err != nil || !ok || got != in {
		t.Fatalf("Get: ok=%v err=%v got=%+v", ok, err, got)
	}

	// plain and typed entries share the keyspace
	if err := c.Set(ctx, "count", Int(3), time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := c.Get(ctx, "count"); !ok || v != "3" {
		t.Fatalf("plain Get over ristretto: ok=%v v=%q", ok, v)
	}
	eventually(t, c.IsAlive, "in-process provider is always reachable")
}
