package goSentinel

import (
	"bytes"
	"encoding"
	"fmt"
	"iter"
	"math/big"
	"reflect"
	"strings"
	"unicode/utf8"
)

// Kind identifies the type family of a representation.
type Kind uint8

const (
	// KindInvalid is the zero Kind; no Value produced by this package has it.
	KindInvalid Kind = iota
	// KindBytes is a byte sequence.
	KindBytes
	// KindInt is an arbitrary-precision integer.
	KindInt
	// KindString is a UTF-8 string.
	KindString
	// KindOpaque is any other Go value.
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindOpaque:
		return "opaque"
	default:
		return "invalid"
	}
}

// Value is a constant representation: bytes, integer, string, or an opaque
// Go value. Bytes and integer payloads are copied in and out; opaque payloads
// are held by reference.
type Value struct {
	kind   Kind
	raw    []byte
	num    *big.Int
	text   string
	opaque any
}

// BytesValue returns a bytes Value holding a copy of b.
func BytesValue(b []byte) Value {
	out := make([]byte, len(b))
	copy(out, b)
	return Value{kind: KindBytes, raw: out}
}

// IntValue returns an integer Value.
func IntValue(i int64) Value {
	return Value{kind: KindInt, num: big.NewInt(i)}
}

// BigIntValue returns an integer Value holding a copy of i. A nil i is zero.
func BigIntValue(i *big.Int) Value {
	n := new(big.Int)
	if i != nil {
		n.Set(i)
	}
	return Value{kind: KindInt, num: n}
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{kind: KindString, text: s}
}

// OpaqueValue wraps an arbitrary Go value without interpreting it.
func OpaqueValue(v any) Value {
	return Value{kind: KindOpaque, opaque: v}
}

// ValueOf maps a Go value to its representation family: []byte, string, the
// integer types and *big.Int are recognized, a Value is copied, and anything
// else becomes opaque.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case Value:
		return x.clone()
	case []byte:
		return BytesValue(x)
	case string:
		return StringValue(x)
	case *big.Int:
		return BigIntValue(x)
	}
	if n, ok := integerOf(v); ok {
		return Value{kind: KindInt, num: n}
	}
	return OpaqueValue(v)
}

func integerOf(v any) (*big.Int, bool) {
	switch x := v.(type) {
	case int:
		return big.NewInt(int64(x)), true
	case int8:
		return big.NewInt(int64(x)), true
	case int16:
		return big.NewInt(int64(x)), true
	case int32:
		return big.NewInt(int64(x)), true
	case int64:
		return big.NewInt(x), true
	case uint:
		return new(big.Int).SetUint64(uint64(x)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(x)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(x)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), true
	case uint64:
		return new(big.Int).SetUint64(x), true
	case *big.Int:
		if x == nil {
			return new(big.Int), true
		}
		return new(big.Int).Set(x), true
	default:
		return nil, false
	}
}

// Kind returns the representation family.
func (v Value) Kind() Kind {
	return v.kind
}

// Bytes returns a copy of the payload of a bytes Value.
func (v Value) Bytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return bytes.Clone(v.raw), true
}

// Int returns a copy of the payload of an integer Value.
func (v Value) Int() (*big.Int, bool) {
	if v.kind != KindInt {
		return nil, false
	}
	return new(big.Int).Set(v.num), true
}

// Text returns the payload of a string Value.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// Interface returns the payload as a plain Go value: []byte, *big.Int,
// string, or the opaque value.
func (v Value) Interface() any {
	switch v.kind {
	case KindBytes:
		return bytes.Clone(v.raw)
	case KindInt:
		return new(big.Int).Set(v.num)
	case KindString:
		return v.text
	default:
		return v.opaque
	}
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBytes:
		return bytes.Equal(v.raw, o.raw)
	case KindInt:
		return v.num.Cmp(o.num) == 0
	case KindString:
		return v.text == o.text
	case KindOpaque:
		return reflect.DeepEqual(v.opaque, o.opaque)
	default:
		return true
	}
}

// String renders the value for diagnostics. Bytes are quoted.
func (v Value) String() string {
	switch v.kind {
	case KindBytes:
		return fmt.Sprintf("b%q", v.raw)
	case KindInt:
		return v.num.String()
	case KindString:
		return v.text
	case KindOpaque:
		return fmt.Sprint(v.opaque)
	default:
		return "<invalid>"
	}
}

func (v Value) clone() Value {
	switch v.kind {
	case KindBytes:
		return BytesValue(v.raw)
	case KindInt:
		return BigIntValue(v.num)
	default:
		return v
	}
}

// truth is the boolean implied by the payload. Opaque values have none.
func (v Value) truth() (bool, bool) {
	switch v.kind {
	case KindBytes:
		return len(v.raw) > 0, true
	case KindInt:
		return v.num.Sign() != 0, true
	case KindString:
		return v.text != "", true
	default:
		return false, false
	}
}

func (v Value) length() (int, error) {
	switch v.kind {
	case KindBytes:
		return len(v.raw), nil
	case KindString:
		return utf8.RuneCountInString(v.text), nil
	case KindOpaque:
		if l, ok := v.opaque.(interface{ Len() int }); ok {
			return l.Len(), nil
		}
	}
	return 0, fmt.Errorf("%w: len of %s", ErrUnsupportedOperation, v.kind)
}

func (v Value) elements() (iter.Seq[Value], error) {
	switch v.kind {
	case KindBytes:
		raw := bytes.Clone(v.raw)
		return func(yield func(Value) bool) {
			for _, b := range raw {
				if !yield(IntValue(int64(b))) {
					return
				}
			}
		}, nil
	case KindString:
		text := v.text
		return func(yield func(Value) bool) {
			for _, r := range text {
				if !yield(StringValue(string(r))) {
					return
				}
			}
		}, nil
	case KindOpaque:
		if seq, ok := v.opaque.(iter.Seq[any]); ok {
			return func(yield func(Value) bool) {
				for item := range seq {
					if !yield(ValueOf(item)) {
						return
					}
				}
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: iteration over %s", ErrUnsupportedOperation, v.kind)
}

func castBytes(v Value) ([]byte, error) {
	switch v.kind {
	case KindBytes:
		return bytes.Clone(v.raw), nil
	case KindString:
		return []byte(v.text), nil
	case KindInt:
		return []byte(v.num.String()), nil
	case KindOpaque:
		if m, ok := v.opaque.(encoding.BinaryMarshaler); ok {
			out, err := m.MarshalBinary()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCast, err)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s to bytes", ErrCast, v.kind)
}

// castInt converts v to an integer. fallback marks the default
// representation, which converts as a big-endian unsigned number; other
// bytes and strings must spell a decimal integer.
func castInt(v Value, fallback bool) (*big.Int, error) {
	switch v.kind {
	case KindInt:
		return new(big.Int).Set(v.num), nil
	case KindBytes:
		if fallback {
			return new(big.Int).SetBytes(v.raw), nil
		}
		return parseDecimal(string(v.raw))
	case KindString:
		return parseDecimal(v.text)
	}
	return nil, fmt.Errorf("%w: %s to int", ErrCast, v.kind)
}

func parseDecimal(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a decimal integer", ErrCast, s)
	}
	return n, nil
}

func castString(v Value) (string, error) {
	switch v.kind {
	case KindString:
		return v.text, nil
	case KindBytes:
		if !utf8.Valid(v.raw) {
			return "", fmt.Errorf("%w: bytes are not valid UTF-8", ErrCast)
		}
		return string(v.raw), nil
	case KindInt:
		return v.num.String(), nil
	case KindOpaque:
		return fmt.Sprint(v.opaque), nil
	}
	return "", fmt.Errorf("%w: %s to string", ErrCast, v.kind)
}
