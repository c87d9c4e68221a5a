package goSentinel

import (
	"fmt"
	"iter"
	"math/big"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/MrEthical07/goSentinel/digest"
)

// binding is an immutable representation state. A nil *binding is Unbound;
// fallback marks a default representation derived from the name.
type binding struct {
	value    Value
	fallback bool
}

// Constant is a named sentinel whose representation and boolean value are
// each bound at most once.
//
// Constants are created by a [Registry] and live as long as it does. All
// methods are safe for concurrent use. Reads are lock-free; transitions are
// serialized per constant so the first successful bind wins.
type Constant struct {
	name       string
	key        string
	registry   *Registry
	generation uint64

	// Mutable state lives behind a pointer so shallow copies, such as the
	// ones encoders take of a dereferenced *Constant, share it.
	st *constantState
}

type constantState struct {
	mu          sync.Mutex
	rep         atomic.Pointer[binding]
	truth       atomic.Pointer[bool]
	stringified atomic.Bool
}

// Name returns the name the constant was first referenced by.
func (c *Constant) Name() string {
	return c.name
}

// IsBound reports whether a representation, explicit or default, is bound.
func (c *Constant) IsBound() bool {
	return c.st.rep.Load() != nil
}

// UsesDefault reports whether the constant has no explicitly bound
// representation.
func (c *Constant) UsesDefault() bool {
	b := c.st.rep.Load()
	return b == nil || b.fallback
}

// ObservedAsString reports whether the constant's name has been read as its
// string form while no explicit representation was bound.
func (c *Constant) ObservedAsString() bool {
	return c.st.stringified.Load()
}

// RepresentAs binds the constant's representation to v. Binding the value
// already bound is a no-op. Binding a different value fails with ErrRebind;
// binding a value whose string form differs from the name after the name has
// been observed fails with ErrStringFrozen; binding a value whose truthiness
// contradicts the boolean override fails with ErrBoolConflict. A nil v is not
// a representation and fails with ErrCast.
func (c *Constant) RepresentAs(v any) (*Constant, error) {
	if v == nil {
		err := fmt.Errorf("%w: nil representation for %s", ErrCast, c.name)
		c.registry.rejected(c, err)
		return nil, err
	}
	next := ValueOf(v)

	c.st.mu.Lock()
	changed, err := c.bindLocked(next)
	c.st.mu.Unlock()

	if err != nil {
		c.registry.rejected(c, err)
		return nil, err
	}
	if changed {
		c.registry.bound(c, next)
	}
	return c, nil
}

// bindLocked reports whether next was stored; rebinding an equal value stores nothing.
func (c *Constant) bindLocked(next Value) (bool, error) {
	if cur := c.st.rep.Load(); cur != nil {
		if cur.value.Equal(next) {
			return false, nil
		}
		return false, &BindError{Name: c.name, Current: cur.value.String(), Attempted: next.String(), Err: ErrRebind}
	}

	if c.st.stringified.Load() {
		if s, err := castString(next); err != nil || s != c.name {
			return false, &BindError{Name: c.name, Current: c.name, Attempted: next.String(), Err: ErrStringFrozen}
		}
	}

	if b := c.st.truth.Load(); b != nil {
		if t, ok := next.truth(); ok && t != *b {
			return false, &BindError{
				Name:      c.name,
				Current:   fmt.Sprintf("bool %t", *b),
				Attempted: fmt.Sprintf("%s (bool %t)", next, t),
				Err:       ErrBoolConflict,
			}
		}
	}

	c.st.rep.Store(&binding{value: next})
	return true, nil
}

// BoolValue binds the constant's boolean override. It fails with
// ErrBoolConflict if b contradicts a prior override or the truthiness of the
// bound representation.
func (c *Constant) BoolValue(b bool) (*Constant, error) {
	c.st.mu.Lock()
	cur, known := c.boolLocked()
	if known && cur != b {
		c.st.mu.Unlock()
		err := &BindError{
			Name:      c.name,
			Current:   fmt.Sprintf("bool %t", cur),
			Attempted: fmt.Sprintf("bool %t", b),
			Err:       ErrBoolConflict,
		}
		c.registry.rejected(c, err)
		return nil, err
	}
	first := c.st.truth.Load() == nil
	if first {
		c.st.truth.Store(&b)
	}
	c.st.mu.Unlock()

	if first {
		c.registry.boolBound(c, b)
	}
	return c, nil
}

func (c *Constant) boolLocked() (bool, bool) {
	if b := c.st.truth.Load(); b != nil {
		return *b, true
	}
	if rep := c.st.rep.Load(); rep != nil {
		return rep.value.truth()
	}
	return false, false
}

// Bool returns the boolean override if set, otherwise the truthiness of the
// bound representation. It fails with ErrUnboundBoolean when neither exists.
func (c *Constant) Bool() (bool, error) {
	b, ok := c.boolLocked()
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnboundBoolean, c.name)
	}
	return b, nil
}

// current returns the binding, materializing the default if needed.
func (c *Constant) current() (*binding, error) {
	if b := c.st.rep.Load(); b != nil {
		return b, nil
	}
	return c.materialize()
}

func (c *Constant) materialize() (*binding, error) {
	if c.registry.defaultsDisabled() {
		return nil, fmt.Errorf("%w: %s", ErrDefaultsDisabled, c.name)
	}

	c.st.mu.Lock()
	if b := c.st.rep.Load(); b != nil {
		c.st.mu.Unlock()
		return b, nil
	}
	key := c.registry.sum(c.name)
	b := &binding{value: BytesValue(key[:]), fallback: true}
	c.st.rep.Store(b)
	c.registry.indexDefault(key, c)
	c.st.mu.Unlock()

	c.registry.materialized(c, key)
	return b, nil
}

// DefaultKey returns the digest of the constant's name without binding it.
func (c *Constant) DefaultKey() digest.Digest {
	return c.registry.sum(c.name)
}

// Bytes casts the representation to bytes. Strings are UTF-8 encoded and
// integers are written in decimal. An unbound constant first materializes its
// default representation.
func (c *Constant) Bytes() ([]byte, error) {
	b, err := c.current()
	if err != nil {
		return nil, err
	}
	return castBytes(b.value)
}

// Int casts the representation to an integer. Bytes and strings must spell a
// decimal integer; the default representation converts as big-endian unsigned.
func (c *Constant) Int() (*big.Int, error) {
	b, err := c.current()
	if err != nil {
		return nil, err
	}
	return castInt(b.value, b.fallback)
}

// Text returns the string form. Without an explicit representation this is
// the name, and reading it freezes the string form: any later representation
// must stringify to the name.
func (c *Constant) Text() (string, error) {
	if b := c.st.rep.Load(); b != nil && !b.fallback {
		return castString(b.value)
	}
	if c.st.stringified.Load() {
		return c.name, nil
	}

	c.st.mu.Lock()
	b := c.st.rep.Load()
	if b == nil || b.fallback {
		c.st.stringified.Store(true)
		c.st.mu.Unlock()
		return c.name, nil
	}
	c.st.mu.Unlock()
	return castString(b.value)
}

// String implements fmt.Stringer. Representations without a string form are
// rendered as Repr.
func (c *Constant) String() string {
	s, err := c.Text()
	if err != nil {
		return c.Repr()
	}
	return s
}

// Repr returns a debug form, "NAME (representation)" or "NAME". It does not
// freeze the string form.
func (c *Constant) Repr() string {
	if b := c.st.rep.Load(); b != nil {
		return fmt.Sprintf("%s (%s)", c.name, b.value)
	}
	return c.name
}

// GoString implements fmt.GoStringer.
func (c *Constant) GoString() string {
	return c.Repr()
}

// Len returns the length of the bound representation, or of the name when
// nothing is bound.
func (c *Constant) Len() (int, error) {
	b := c.st.rep.Load()
	if b == nil {
		return utf8.RuneCountInString(c.name), nil
	}
	return b.value.length()
}

// Elements iterates the bound representation: bytes yield integers, strings
// yield one-rune strings. It never materializes a default representation.
func (c *Constant) Elements() (iter.Seq[Value], error) {
	b := c.st.rep.Load()
	if b == nil {
		return nil, fmt.Errorf("%w: cannot iterate %s", ErrUnboundRepresentation, c.name)
	}
	return b.value.elements()
}

// Representation returns a copy of the bound representation.
func (c *Constant) Representation() (Value, error) {
	b := c.st.rep.Load()
	if b == nil {
		return Value{}, fmt.Errorf("%w: %s", ErrUnboundRepresentation, c.name)
	}
	return b.value.clone(), nil
}

// As returns the bound representation's payload as a T. It is the only
// pass-through to an opaque payload: it fails with ErrUnboundRepresentation
// when nothing is bound and ErrCast when the payload is not a T.
func As[T any](c *Constant) (T, error) {
	var zero T
	b := c.st.rep.Load()
	if b == nil {
		return zero, fmt.Errorf("%w: %s", ErrUnboundRepresentation, c.name)
	}
	out, ok := b.value.Interface().(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %s, not %T", ErrCast, c.name, b.value.kind, zero)
	}
	return out, nil
}

// kind reports the family other constants cast into when compared with c.
// Unbound constants cast as bytes.
func (c *Constant) kind() Kind {
	if b := c.st.rep.Load(); b != nil {
		return b.value.kind
	}
	return KindBytes
}

// castTo converts c into the family k.
func (c *Constant) castTo(k Kind) (Value, error) {
	switch k {
	case KindString:
		s, err := c.Text()
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case KindInt:
		n, err := c.Int()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindInt, num: n}, nil
	case KindOpaque:
		b, err := c.current()
		if err != nil {
			return Value{}, err
		}
		if b.value.kind != KindOpaque {
			return Value{}, fmt.Errorf("%w: %s to opaque", ErrCast, b.value.kind)
		}
		return b.value, nil
	default:
		raw, err := c.Bytes()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindBytes, raw: raw}, nil
	}
}
