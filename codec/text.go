package codec

// Text stores Go strings as their UTF-8 bytes, unchanged. No validation.
type Text struct{}

var _ Codec[string] = Text{}

func (Text) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (Text) Decode(b []byte) (string, error) { return string(b), nil }
