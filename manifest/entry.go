package manifest

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
)

// Representation kinds carried in an Entry.
const (
	KindBytes  = "bytes"
	KindInt    = "int"
	KindString = "string"
)

// ErrInvalidEntry is returned for an entry whose kind or value cannot be decoded.
var ErrInvalidEntry = errors.New("invalid manifest entry")

// Entry is one constant's explicit bindings. Kind is empty when only Bool is
// bound. Bytes values are base64 encoded; ints are decimal.
type Entry struct {
	Name  string `json:"name"`
	Kind  string `json:"kind,omitempty"`
	Value string `json:"value,omitempty"`
	Bool  *bool  `json:"bool,omitempty"`
}

// BytesEntry returns an entry binding name to b.
func BytesEntry(name string, b []byte) Entry {
	return Entry{Name: name, Kind: KindBytes, Value: base64.StdEncoding.EncodeToString(b)}
}

// IntEntry returns an entry binding name to n.
func IntEntry(name string, n *big.Int) Entry {
	return Entry{Name: name, Kind: KindInt, Value: n.String()}
}

// StringEntry returns an entry binding name to s.
func StringEntry(name, s string) Entry {
	return Entry{Name: name, Kind: KindString, Value: s}
}

// Decode returns the Go value the entry binds: []byte, *big.Int or string.
// ok is false when the entry only carries a boolean.
func (e Entry) Decode() (v any, ok bool, err error) {
	switch e.Kind {
	case "":
		return nil, false, nil
	case KindBytes:
		b, err := base64.StdEncoding.DecodeString(e.Value)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %s: %v", ErrInvalidEntry, e.Name, err)
		}
		return b, true, nil
	case KindInt:
		n, ok := new(big.Int).SetString(e.Value, 10)
		if !ok {
			return nil, false, fmt.Errorf("%w: %s: %q is not an integer", ErrInvalidEntry, e.Name, e.Value)
		}
		return n, true, nil
	case KindString:
		return e.Value, true, nil
	default:
		return nil, false, fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidEntry, e.Name, e.Kind)
	}
}
