package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/codec"
	"github.com/screenworks/matcat/internal/domain"
)

func TestImpactPadRoundTrip(t *testing.T) {
	p := domain.ImpactPad{X: 1, Y: 2, Width: 3, Length: 4, MaterialHandle: 5, ApertureHandle: 6}

	size := codec.ImpactPadSerializedSize(p)
	assert.EqualValues(t, 24, size)

	buf := make([]byte, size)
	w := codec.NewWriter(buf)
	codec.SerializeImpactPad(p, w)
	assert.EqualValues(t, size, w.Pos())

	got, err := codec.DeserializeImpactPad(codec.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestCentreHoleRoundTrip(t *testing.T) {
	c := domain.CentreHole{X: 1, Y: 2, ShapeWidth: 3, ShapeLength: 4, Rounded: true}

	buf := make([]byte, codec.CentreHoleSerializedSize(c))
	w := codec.NewWriter(buf)
	codec.SerializeCentreHole(c, w)

	got, err := codec.DeserializeCentreHole(codec.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestDeflectorRoundTrip(t *testing.T) {
	d := domain.Deflector{X: 1, Y: 2, Size: 3, MaterialHandle: 4}

	buf := make([]byte, codec.DeflectorSerializedSize(d))
	w := codec.NewWriter(buf)
	codec.SerializeDeflector(d, w)

	got, err := codec.DeserializeDeflector(codec.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDivertorRoundTrip(t *testing.T) {
	d := domain.Divertor{Side: domain.SideRight, VerticalPosition: 1, Width: 2, Length: 3, MaterialHandle: 4}

	buf := make([]byte, codec.DivertorSerializedSize(d))
	w := codec.NewWriter(buf)
	codec.SerializeDivertor(d, w)

	got, err := codec.DeserializeDivertor(codec.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDamBarRoundTrip(t *testing.T) {
	d := domain.DamBar{X: 1, Y: 2, Width: 3, Length: 4, MaterialHandle: 5}

	buf := make([]byte, codec.DamBarSerializedSize(d))
	w := codec.NewWriter(buf)
	codec.SerializeDamBar(d, w)

	got, err := codec.DeserializeDamBar(codec.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestBlankSpaceRoundTrip(t *testing.T) {
	b := domain.BlankSpace{X: 1, Y: 2, Width: 3, Length: 4}

	buf := make([]byte, codec.BlankSpaceSerializedSize(b))
	w := codec.NewWriter(buf)
	codec.SerializeBlankSpace(b, w)

	got, err := codec.DeserializeBlankSpace(codec.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestExtraApertureRoundTrip(t *testing.T) {
	e := domain.ExtraAperture{X: 1, Y: 2, Width: 3, Length: 4, ApertureHandle: 5}

	buf := make([]byte, codec.ExtraApertureSerializedSize(e))
	w := codec.NewWriter(buf)
	codec.SerializeExtraAperture(e, w)

	got, err := codec.DeserializeExtraAperture(codec.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestLapRoundTrip(t *testing.T) {
	l := domain.Lap{Width: 42.5, Attachment: domain.AttachmentBonded, MaterialHandle: 7}

	buf := make([]byte, codec.LapSerializedSize(l))
	w := codec.NewWriter(buf)
	codec.SerializeLap(l, w)

	got, err := codec.DeserializeLap(codec.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, l, got)
}

func TestDeserializeTruncatedBufferErrors(t *testing.T) {
	_, err := codec.DeserializeImpactPad(codec.NewReader(make([]byte, 3)))
	assert.Error(t, err)
}
