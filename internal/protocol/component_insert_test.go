package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/protocol"
	"github.com/screenworks/matcat/internal/registry"
)

func TestComponentInsertSimpleVariantRoundTrip(t *testing.T) {
	c := &protocol.ComponentInsert{InsertType: protocol.ComponentMaterial, Name: "Polyester 180T"}

	buf := protocol.Pack(c)
	assert.EqualValues(t, len(buf), c.SerializedSize())

	got, err := protocol.DeserializeComponentInsert(domainReader(t, buf))
	require.NoError(t, err)
	assert.Equal(t, c.InsertType, got.InsertType)
	assert.Equal(t, c.Name, got.Name)
}

func TestComponentInsertPriceVariantRoundTrip(t *testing.T) {
	c := &protocol.ComponentInsert{
		InsertType: protocol.ComponentMaterialPrice,
		PriceMode:  protocol.PriceUpdate,
		TargetID:   registry.ComponentID(11),
		Amount:     42.75,
	}

	buf := protocol.Pack(c)
	assert.EqualValues(t, len(buf), c.SerializedSize())

	got, err := protocol.DeserializeComponentInsert(domainReader(t, buf))
	require.NoError(t, err)
	assert.Equal(t, c.PriceMode, got.PriceMode)
	assert.Equal(t, c.TargetID, got.TargetID)
	assert.InDelta(t, c.Amount, got.Amount, 1e-9)
	assert.Empty(t, got.Name)
}
