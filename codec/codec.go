// Package codec converts cached values to and from the bytes a provider stores.
// kvcache.Typed uses a Codec to keep structured values (a file's metadata,
// a user's session) under plain cache keys.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
