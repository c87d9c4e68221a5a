package goSentinel

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"iter"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New().Build()
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

func TestFourteenCastsFromBytes(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("FOURTEEN")

	_, err := c.RepresentAs([]byte("14"))
	require.NoError(t, err)

	n, err := c.Int()
	require.NoError(t, err)
	assert.EqualValues(t, 14, n.Int64())

	b, err := c.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("14"), b)

	s, err := c.Text()
	require.NoError(t, err)
	assert.Equal(t, "14", s)
	assert.False(t, c.UsesDefault())
}

func TestDingosRebind(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("DINGOS")

	_, err := c.RepresentAs("a certain dingo")
	require.NoError(t, err)
	_, err = c.RepresentAs("a certain dingo")
	require.NoError(t, err)

	_, err = c.RepresentAs("something else")
	require.ErrorIs(t, err, ErrRebind)

	var be *BindError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "DINGOS", be.Name)
	assert.Equal(t, "something else", be.Attempted)

	s, err := c.Text()
	require.NoError(t, err)
	assert.Equal(t, "a certain dingo", s, "rejected rebind must leave value unchanged")
}

func TestLlamasDefaultRepresentation(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("LLAMAS")
	assert.False(t, c.IsBound())

	first, err := c.Bytes()
	require.NoError(t, err)
	require.Len(t, first, 8)

	want := sha512.Sum512([]byte("LLAMAS"))
	assert.Equal(t, want[:8], first)

	second, err := c.Bytes()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.True(t, c.IsBound())
	assert.True(t, c.UsesDefault())
	assert.Equal(t, c.DefaultKey().Bytes(), first)
}

func TestRebindSameValueIsNoOp(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("ANSWER")

	_, err := c.RepresentAs(42)
	require.NoError(t, err)
	_, err = c.RepresentAs(int64(42))
	require.NoError(t, err, "equal integers of different Go types are the same value")
	_, err = c.RepresentAs(big.NewInt(42))
	require.NoError(t, err)

	_, err = c.RepresentAs(43)
	assert.ErrorIs(t, err, ErrRebind)

	assert.EqualValues(t, 1, r.Metrics().Value(MetricRepresentationBound))
	assert.EqualValues(t, 1, r.Metrics().Value(MetricRebindRejected))
}

func TestDefaultThenExplicitRebindFails(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("LATE")

	_, err := c.Bytes()
	require.NoError(t, err)

	_, err = c.RepresentAs([]byte("late"))
	assert.ErrorIs(t, err, ErrRebind)

	_, err = c.RepresentAs(c.DefaultKey().Bytes())
	assert.NoError(t, err, "binding the default value itself is a no-op")
}

func TestStringFreezeRejectsDifferentString(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("HELLO")

	assert.Equal(t, "HELLO", c.String())
	assert.True(t, c.ObservedAsString())

	_, err := c.RepresentAs("goodbye")
	require.ErrorIs(t, err, ErrStringFrozen)
	assert.False(t, c.IsBound())

	_, err = c.RepresentAs([]byte("HELLO"))
	require.NoError(t, err, "a representation that stringifies to the name is accepted")

	b, err := c.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("HELLO"), b)
}

func TestStringFreezeAppliesToDefaultBound(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("HASHED")

	_, err := c.Bytes()
	require.NoError(t, err)

	s, err := c.Text()
	require.NoError(t, err)
	assert.Equal(t, "HASHED", s, "default representations do not change the string form")
	assert.True(t, c.ObservedAsString())
}

func TestReprDoesNotFreeze(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("QUIET")

	assert.Equal(t, "QUIET", c.Repr())
	assert.Equal(t, "QUIET", fmt.Sprintf("%#v", c))
	assert.False(t, c.ObservedAsString())

	_, err := c.RepresentAs(7)
	require.NoError(t, err)
	assert.Equal(t, "QUIET (7)", c.Repr())
	assert.Equal(t, "7", c.String())
}

func TestBoolOverride(t *testing.T) {
	r := newTestRegistry(t)

	c := r.MustGet("FLAG")
	_, err := c.Bool()
	require.ErrorIs(t, err, ErrUnboundBoolean)

	_, err = c.BoolValue(true)
	require.NoError(t, err)
	_, err = c.BoolValue(true)
	require.NoError(t, err)
	_, err = c.BoolValue(false)
	require.ErrorIs(t, err, ErrBoolConflict)

	b, err := c.Bool()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestBoolDerivedFromRepresentation(t *testing.T) {
	r := newTestRegistry(t)

	cases := []struct {
		name string
		rep  any
		want bool
	}{
		{"EMPTY_BYTES", []byte{}, false},
		{"SOME_BYTES", []byte{0}, true},
		{"ZERO", 0, false},
		{"NEGATIVE", -3, true},
		{"EMPTY_STRING", "", false},
		{"SOME_STRING", "x", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := r.MustGet(tc.name)
			_, err := c.RepresentAs(tc.rep)
			require.NoError(t, err)

			got, err := c.Bool()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			_, err = c.BoolValue(!tc.want)
			assert.ErrorIs(t, err, ErrBoolConflict)
			_, err = c.BoolValue(tc.want)
			assert.NoError(t, err)
		})
	}
}

func TestBoolOverrideConstrainsLaterRepresentation(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("OFF")

	_, err := c.BoolValue(false)
	require.NoError(t, err)

	_, err = c.RepresentAs(1)
	require.ErrorIs(t, err, ErrBoolConflict)
	assert.False(t, c.IsBound())

	_, err = c.RepresentAs(0)
	require.NoError(t, err)
}

type payload struct {
	ID   int
	Tags []string
}

func TestOpaqueRepresentation(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("OPAQUE")

	_, err := As[payload](c)
	require.ErrorIs(t, err, ErrUnboundRepresentation)
	assert.False(t, c.IsBound(), "pass-through never materializes")

	p := payload{ID: 1, Tags: []string{"a"}}
	_, err = c.RepresentAs(p)
	require.NoError(t, err)
	_, err = c.RepresentAs(payload{ID: 1, Tags: []string{"a"}})
	require.NoError(t, err, "deep-equal opaque payloads are the same value")

	got, err := As[payload](c)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = As[string](c)
	assert.ErrorIs(t, err, ErrCast)

	_, err = c.Bool()
	assert.ErrorIs(t, err, ErrUnboundBoolean, "opaque payloads have no derived truthiness")

	_, err = c.Bytes()
	assert.ErrorIs(t, err, ErrCast)

	_, err = c.Len()
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestLen(t *testing.T) {
	r := newTestRegistry(t)

	n, err := r.MustGet("ÜBER").Len()
	require.NoError(t, err)
	assert.Equal(t, 4, n, "unbound length counts runes of the name")

	c := r.MustGet("WORD")
	_, err = c.RepresentAs("héllo")
	require.NoError(t, err)
	n, err = c.Len()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	raw := r.MustGet("RAW")
	_, err = raw.RepresentAs([]byte("héllo"))
	require.NoError(t, err)
	n, err = raw.Len()
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	num := r.MustGet("NUM")
	_, err = num.RepresentAs(5)
	require.NoError(t, err)
	_, err = num.Len()
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

func collect(seq iter.Seq[Value]) []string {
	var out []string
	for v := range seq {
		out = append(out, v.String())
	}
	return out
}

func TestElements(t *testing.T) {
	r := newTestRegistry(t)

	unbound := r.MustGet("NOTHING")
	_, err := unbound.Elements()
	require.ErrorIs(t, err, ErrUnboundRepresentation)
	assert.False(t, unbound.IsBound(), "iteration never materializes")

	b := r.MustGet("BYTES")
	_, err = b.RepresentAs([]byte{1, 2, 3})
	require.NoError(t, err)
	seq, err := b.Elements()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, collect(seq))

	s := r.MustGet("TEXT")
	_, err = s.RepresentAs("ab")
	require.NoError(t, err)
	seq, err = s.Elements()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, collect(seq))

	var opaque iter.Seq[any] = func(yield func(any) bool) {
		for _, v := range []any{1, "x"} {
			if !yield(v) {
				return
			}
		}
	}
	o := r.MustGet("SEQ")
	_, err = o.RepresentAs(opaque)
	require.NoError(t, err)
	seq, err = o.Elements()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "x"}, collect(seq))
}

func TestRepresentationIsCopy(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("MUTABLE")

	in := []byte("abc")
	_, err := c.RepresentAs(in)
	require.NoError(t, err)
	in[0] = 'z'

	v, err := c.Representation()
	require.NoError(t, err)
	raw, ok := v.Bytes()
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), raw)

	raw[0] = 'y'
	again, err := c.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestIntCasts(t *testing.T) {
	r := newTestRegistry(t)

	spaced := r.MustGet("SPACED")
	_, err := spaced.RepresentAs([]byte(" 14\n"))
	require.NoError(t, err)
	n, err := spaced.Int()
	require.NoError(t, err)
	assert.EqualValues(t, 14, n.Int64())

	word := r.MustGet("WORDY")
	_, err = word.RepresentAs("fourteen")
	require.NoError(t, err)
	_, err = word.Int()
	assert.ErrorIs(t, err, ErrCast)

	def := r.MustGet("DEFAULTED")
	n, err = def.Int()
	require.NoError(t, err)
	key := def.DefaultKey()
	assert.Equal(t, 0, n.Cmp(new(big.Int).SetBytes(key[:])), "default converts as big-endian unsigned")

	num := r.MustGet("NUMBER")
	_, err = num.RepresentAs(-12)
	require.NoError(t, err)
	b, err := num.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("-12"), b)
}

func TestInvalidUTF8HasNoStringForm(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("BINARY")
	_, err := c.RepresentAs([]byte{0xff, 0xfe})
	require.NoError(t, err)

	_, err = c.Text()
	require.ErrorIs(t, err, ErrCast)
	assert.Equal(t, `BINARY (b"\xff\xfe")`, c.String())
}

func TestDefaultsDisabled(t *testing.T) {
	r, err := New().WithDefaultsDisabled(true).Build()
	require.NoError(t, err)
	defer r.Close()

	c := r.MustGet("STRICT")
	_, err = c.Bytes()
	require.ErrorIs(t, err, ErrDefaultsDisabled)
	require.ErrorIs(t, err, ErrUnboundRepresentation)
	assert.False(t, c.IsBound())

	s, err := c.Text()
	require.NoError(t, err)
	assert.Equal(t, "STRICT", s)
}

func TestRepresentAsNilRejected(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("NOTHING")

	_, err := c.RepresentAs(nil)
	require.ErrorIs(t, err, ErrCast)
	assert.False(t, c.IsBound())

	_, err = c.RepresentAs("something")
	require.NoError(t, err)
}

func TestOpaqueRepresentationIsHeldByReference(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("SETTINGS")

	payload := map[string]int{"a": 1}
	_, err := c.RepresentAs(payload)
	require.NoError(t, err)

	payload["b"] = 2
	got, err := As[map[string]int](c)
	require.NoError(t, err)
	assert.Equal(t, 2, got["b"])
}
