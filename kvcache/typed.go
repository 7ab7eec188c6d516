package kvcache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/fmstore"
	"github.com/unkn0wn-root/fmstore/codec"
)

// Typed stores structured values through a codec, next to the plain text
// entries of the same Client. Keys are "<prefix>:<key>" when prefix is set.
type Typed[V any] struct {
	c      *Client
	codec  codec.Codec[V]
	prefix string
}

func NewTyped[V any](c *Client, cd codec.Codec[V], prefix string) *Typed[V] {
	return &Typed[V]{c: c, codec: cd, prefix: prefix}
}

func (t *Typed[V]) key(k string) string {
	if t.prefix == "" {
		return k
	}
	return t.prefix + ":" + k
}

// Get returns the decoded value at key. An entry the codec cannot decode is
// deleted and reported as a miss.
func (t *Typed[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	k := t.key(key)
	raw, ok, err := t.c.getRaw(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := t.codec.Decode(raw)
	if err != nil {
		t.c.log.Warn("dropping undecodable entry", fmstore.Fields{"key": k, "err": err})
		_ = t.c.p.Del(ctx, k)
		return zero, false, nil
	}
	return v, true, nil
}

func (t *Typed[V]) Set(ctx context.Context, key string, v V, ttl time.Duration) error {
	b, err := t.codec.Encode(v)
	if err != nil {
		return err
	}
	return t.c.setRaw(ctx, t.key(key), b, ttl)
}

func (t *Typed[V]) Del(ctx context.Context, key string) error {
	return t.c.Del(ctx, t.key(key))
}
