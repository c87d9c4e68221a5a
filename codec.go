package goSentinel

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/MrEthical07/goSentinel/wire"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("goSentinel: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalCBOR encodes the constant's bytes form as a CBOR byte string. An
// unbound constant materializes its default representation first.
func (c *Constant) MarshalCBOR() ([]byte, error) {
	raw, err := c.Bytes()
	if err != nil {
		return nil, err
	}
	return cborEncMode.Marshal(raw)
}

// DecodeCBOR decodes a CBOR byte string and resolves it against r.
func (r *Registry) DecodeCBOR(data []byte) (Resolved, error) {
	var raw []byte
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return Resolved{}, fmt.Errorf("goSentinel: unmarshal constant: %w", err)
	}
	return r.Resolve(raw)
}

// AppendKey appends c's default key to dst. The key is a fixed-width prefix
// that ResolvePrefix reads back off a framed payload. Only constants using
// their default representation have a key the reverse index knows, so a
// constant with an explicit representation fails with ErrCast.
func (c *Constant) AppendKey(dst []byte) ([]byte, error) {
	if _, err := c.Bytes(); err != nil {
		return nil, err
	}
	if !c.UsesDefault() {
		return nil, fmt.Errorf("%w: %s has an explicit representation and no default key", ErrCast, c.name)
	}
	return wire.AppendKey(dst, c.DefaultKey()), nil
}

// ResolvePrefix reads a leading default key off buf and resolves it,
// returning the remaining bytes.
func (r *Registry) ResolvePrefix(buf []byte) (Resolved, []byte, error) {
	key, rest, err := wire.SplitKey(buf)
	if err != nil {
		return Resolved{}, nil, err
	}
	return r.resolveBytes(key[:]), rest, nil
}
