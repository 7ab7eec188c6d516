package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack stores values with vmihailenco/msgpack/v5. Smaller than JSON;
// honours `msgpack:"name"` struct tags. The zero value is ready to use.
type Msgpack[V any] struct{}

var _ Codec[struct{}] = Msgpack[struct{}]{}

func (Msgpack[V]) Encode(v V) ([]byte, error) { return msgpack.Marshal(v) }
func (Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	err := msgpack.Unmarshal(b, &v)
	return v, err
}
