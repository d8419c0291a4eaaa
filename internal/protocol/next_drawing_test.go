package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/protocol"
)

func TestNextDrawingNumberRequestOmitsValue(t *testing.T) {
	n := &protocol.NextDrawingNumber{Type: protocol.DrawingNumberAutomatic}

	buf := protocol.Pack(n)
	assert.EqualValues(t, len(buf), n.SerializedSize())

	got, err := protocol.DeserializeNextDrawingNumber(domainReader(t, buf))
	require.NoError(t, err)
	assert.Equal(t, n.Type, got.Type)
	assert.Nil(t, got.Value)
}

func TestNextDrawingNumberResponseSetsValue(t *testing.T) {
	value := "A123"
	n := &protocol.NextDrawingNumber{Type: protocol.DrawingNumberManual, Value: &value}

	buf := protocol.Pack(n)

	got, err := protocol.DeserializeNextDrawingNumber(domainReader(t, buf))
	require.NoError(t, err)
	require.NotNil(t, got.Value)
	assert.Equal(t, value, *got.Value)
}
