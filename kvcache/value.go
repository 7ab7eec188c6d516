package kvcache

import (
	"fmt"
	"strconv"
)

// Kind tags the Go type a Value was built from.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is what Set accepts: a string, a number or a boolean.
//
// Storage contract: every Value is written as UTF-8 text. Strings as-is,
// integers in base 10, floats in the shortest 'g' form, booleans as
// "true"/"false". The kind is not stored; Get returns text and the caller
// decodes it with ParseValue when it needs the typed form.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

func String(s string) Value    { return Value{kind: KindString, s: s} }
func Int(i int64) Value        { return Value{kind: KindInt, i: i} }
func Float(f float64) Value    { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value        { return Value{kind: KindBool, b: b} }
func (v Value) Kind() Kind     { return v.kind }
func (v Value) Str() string    { return v.s }
func (v Value) Int() int64     { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Bool() bool     { return v.b }

// Text is the stored representation of v.
func (v Value) Text() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

func (v Value) String() string { return v.Text() }

// ParseValue decodes text read from the cache as a Value of the given kind.
func ParseValue(text string, kind Kind) (Value, error) {
	switch kind {
	case KindString:
		return String(text), nil
	case KindInt:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("kvcache: parse int %q: %w", text, err)
		}
		return Int(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("kvcache: parse float %q: %w", text, err)
		}
		return Float(f), nil
	case KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, fmt.Errorf("kvcache: parse bool %q: %w", text, err)
		}
		return Bool(b), nil
	default:
		return Value{}, fmt.Errorf("kvcache: unknown kind %d", kind)
	}
}
