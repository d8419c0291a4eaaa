package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/domain"
	"github.com/screenworks/matcat/internal/protocol"
)

func minimalTestDrawing() *domain.Drawing {
	return &domain.Drawing{
		DrawingNumber:     "A01",
		Date:              domain.Date{Year: 2026, Month: 1, Day: 1},
		Width:             1000,
		Length:            2000,
		ProductHandle:     1,
		ApertureHandle:    1,
		BarSpacings:       []float32{500, 500},
		BarWidths:         []float32{25, 50, 25},
		TopMaterialHandle: 1,
	}
}

func TestDrawingRequestRoundTripRequest(t *testing.T) {
	q := &protocol.DrawingRequest{MatID: 42, EchoCode: 7}

	buf := protocol.Pack(q)
	assert.EqualValues(t, len(buf), q.SerializedSize())

	got, err := protocol.DeserializeDrawingRequest(domainReader(t, buf), nil)
	require.NoError(t, err)
	assert.Equal(t, q.MatID, got.MatID)
	assert.Equal(t, q.EchoCode, got.EchoCode)
	assert.Nil(t, got.Drawing)
}

func TestDrawingRequestRoundTripResponse(t *testing.T) {
	q := &protocol.DrawingRequest{MatID: 42, EchoCode: 7, Drawing: minimalTestDrawing()}

	buf := protocol.Pack(q)
	assert.EqualValues(t, len(buf), q.SerializedSize())

	got, err := protocol.DeserializeDrawingRequest(domainReader(t, buf), nil)
	require.NoError(t, err)
	require.NotNil(t, got.Drawing)
	assert.Equal(t, q.Drawing.DrawingNumber, got.Drawing.DrawingNumber)
	assert.Equal(t, q.Drawing.Width, got.Drawing.Width)
}
