package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/codec"
	"github.com/screenworks/matcat/internal/domain"
)

func TestDateRoundTrip(t *testing.T) {
	d := domain.Date{Year: 2026, Month: 7, Day: 30}

	buf := make([]byte, codec.DateSize)
	w := codec.NewWriter(buf)
	codec.SerializeDate(d, w)
	assert.EqualValues(t, codec.DateSize, w.Pos())

	got, err := codec.DeserializeDate(codec.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestMachineTemplateRoundTrip(t *testing.T) {
	m := domain.MachineTemplate{MachineHandle: 1, QuantityOnDeck: 4, Position: "3-5", DeckHandle: 2}

	size := codec.MachineTemplateSerializedSize(m)
	buf := make([]byte, size)

	w := codec.NewWriter(buf)
	codec.SerializeMachineTemplate(m, w)
	assert.EqualValues(t, size, w.Pos())

	got, err := codec.DeserializeMachineTemplate(codec.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestMachineTemplateEmptyPosition(t *testing.T) {
	m := domain.MachineTemplate{MachineHandle: 1, QuantityOnDeck: 0, Position: "", DeckHandle: 0}

	buf := make([]byte, codec.MachineTemplateSerializedSize(m))
	w := codec.NewWriter(buf)
	codec.SerializeMachineTemplate(m, w)

	got, err := codec.DeserializeMachineTemplate(codec.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestSideIronInstanceRoundTrip(t *testing.T) {
	s := domain.SideIronInstance{Handle: 9, Inverted: true, CutDown: false}

	buf := make([]byte, codec.SideIronInstanceSize)
	w := codec.NewWriter(buf)
	codec.SerializeSideIronInstance(s, w)

	got, err := codec.DeserializeSideIronInstance(codec.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, s, got)
}
