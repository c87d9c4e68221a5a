package goSentinel

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/goSentinel/wire"
)

func TestCBORRoundTripDefault(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("LLAMAS")

	data, err := cbor.Marshal(c)
	require.NoError(t, err)

	// Major type 2 (byte string) of length 8.
	require.Len(t, data, 9)
	assert.Equal(t, byte(0x48), data[0])

	res, err := r.DecodeCBOR(data)
	require.NoError(t, err)
	assert.Same(t, c, res.Constant)
}

func TestCBOREncodesExplicitBytesForm(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("FOURTEEN")
	_, err := c.RepresentAs(14)
	require.NoError(t, err)

	data, err := c.MarshalCBOR()
	require.NoError(t, err)

	var raw []byte
	require.NoError(t, cbor.Unmarshal(data, &raw))
	assert.Equal(t, []byte("14"), raw)

	res, err := r.DecodeCBOR(data)
	require.NoError(t, err)
	assert.False(t, res.IsConstant())
	assert.Equal(t, []byte("14"), res.Raw)
}

func TestCBORInStruct(t *testing.T) {
	r := newTestRegistry(t)
	type frame struct {
		Kind *Constant `cbor:"k"`
		Body string    `cbor:"b"`
	}

	data, err := cbor.Marshal(frame{Kind: r.MustGet("PING"), Body: "hi"})
	require.NoError(t, err)

	var decoded struct {
		Kind []byte `cbor:"k"`
		Body string `cbor:"b"`
	}
	require.NoError(t, cbor.Unmarshal(data, &decoded))

	res, err := r.Resolve(decoded.Kind)
	require.NoError(t, err)
	assert.Same(t, r.MustGet("PING"), res.Constant)
}

func TestDecodeCBORRejectsGarbage(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.DecodeCBOR([]byte{0xff})
	assert.Error(t, err)
}

func TestResolvePrefixReadsFramedKey(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("DINGOS")

	buf, err := c.AppendKey(nil)
	require.NoError(t, err)
	buf = append(buf, "payload"...)

	res, rest, err := r.ResolvePrefix(buf)
	require.NoError(t, err)
	assert.Same(t, c, res.Constant)
	assert.Equal(t, []byte("payload"), rest)
}

func TestResolvePrefixUnknownKeyReturnsRaw(t *testing.T) {
	r := newTestRegistry(t)

	buf := []byte("12345678tail")
	res, rest, err := r.ResolvePrefix(buf)
	require.NoError(t, err)
	assert.False(t, res.IsConstant())
	assert.Equal(t, []byte("12345678"), res.Raw)
	assert.Equal(t, []byte("tail"), rest)
}

func TestResolvePrefixShortBuffer(t *testing.T) {
	r := newTestRegistry(t)

	_, _, err := r.ResolvePrefix([]byte("short"))
	require.ErrorIs(t, err, wire.ErrShortBuffer)
}

func TestCBORMarshalKeepsSingleInstance(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("LLAMAS")
	require.False(t, c.IsBound())

	data, err := cbor.Marshal(c)
	require.NoError(t, err)

	assert.True(t, c.IsBound())
	assert.Equal(t, 1, r.Len())

	raw, err := c.Bytes()
	require.NoError(t, err)
	found, ok := r.FindByDefaultHash(raw)
	require.True(t, ok)
	assert.Same(t, c, found)

	res, err := r.DecodeCBOR(data)
	require.NoError(t, err)
	assert.Same(t, c, res.Constant)
}

func TestAppendKeyRejectsExplicitRepresentation(t *testing.T) {
	r := newTestRegistry(t)
	c := r.MustGet("FOURTEEN")
	_, err := c.RepresentAs([]byte("14"))
	require.NoError(t, err)

	_, err = c.AppendKey(nil)
	require.ErrorIs(t, err, ErrCast)
}
