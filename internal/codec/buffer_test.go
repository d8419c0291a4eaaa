package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/codec"
	"github.com/screenworks/matcat/internal/registry"
)

func TestWriterReaderRoundTripAllTypes(t *testing.T) {
	buf := make([]byte, 64)
	w := codec.NewWriter(buf)

	w.WriteU8(200)
	w.WriteBool(true)
	w.WriteU16(40000)
	w.WriteU32(3_000_000_000)
	w.WriteF32(3.14)
	w.WriteHandle(registry.Handle(99))

	h := registry.Handle(123)
	w.WriteOptionalHandle(&h)
	w.WriteOptionalHandle(nil)
	w.WriteString("hello")

	r := codec.NewReader(buf[:w.Pos()])

	u8, err := r.ReadU8()
	require.NoError(t, err)
	assert.EqualValues(t, 200, u8)

	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	u16, err := r.ReadU16()
	require.NoError(t, err)
	assert.EqualValues(t, 40000, u16)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	assert.EqualValues(t, 3_000_000_000, u32)

	f32, err := r.ReadF32()
	require.NoError(t, err)
	assert.InDelta(t, 3.14, f32, 1e-6)

	handle, err := r.ReadHandle()
	require.NoError(t, err)
	assert.EqualValues(t, 99, handle)

	opt1, err := r.ReadOptionalHandle()
	require.NoError(t, err)
	require.NotNil(t, opt1)
	assert.EqualValues(t, 123, *opt1)

	opt2, err := r.ReadOptionalHandle()
	require.NoError(t, err)
	assert.Nil(t, opt2)

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	assert.Zero(t, r.Remaining())
}

func TestReaderTruncatedStringErrors(t *testing.T) {
	buf := []byte{5, 'a', 'b'} // claims 5 bytes, only 2 present
	_, err := codec.NewReader(buf).ReadString()
	assert.Error(t, err)
}

func TestReaderTruncatedFixedFieldErrors(t *testing.T) {
	r := codec.NewReader([]byte{1, 2})
	_, err := r.ReadU32()
	assert.Error(t, err)
}
