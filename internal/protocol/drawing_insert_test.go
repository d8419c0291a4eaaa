package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/protocol"
	"github.com/screenworks/matcat/pkg/merrors"
)

func TestDrawingInsertRequestRoundTrip(t *testing.T) {
	q := &protocol.DrawingInsertRequest{
		ResponseCode: merrors.InsertNone,
		EchoCode:     3,
		Drawing:      minimalTestDrawing(),
	}

	buf := protocol.Pack(q)
	assert.EqualValues(t, len(buf), q.SerializedSize())

	got, err := protocol.DeserializeDrawingInsertBody(domainReader(t, buf), nil)
	require.NoError(t, err)
	assert.Equal(t, q.ResponseCode, got.ResponseCode)
	assert.Equal(t, q.EchoCode, got.EchoCode)
	require.NotNil(t, got.Drawing)
	assert.Equal(t, q.Drawing.DrawingNumber, got.Drawing.DrawingNumber)
}

// Scenario 4 (spec §8): a DRAWING_EXISTS response lets the client retry by
// resending the same Drawing with Force set.
func TestDrawingInsertDrawingExistsRetryWithForce(t *testing.T) {
	first := &protocol.DrawingInsertRequest{EchoCode: 1, Drawing: minimalTestDrawing()}
	buf := protocol.Pack(first)

	got, err := protocol.DeserializeDrawingInsertBody(domainReader(t, buf), nil)
	require.NoError(t, err)
	assert.False(t, got.Force)

	response := &protocol.DrawingInsertRequest{ResponseCode: merrors.InsertDrawingExists, EchoCode: 1}
	respBuf := protocol.Pack(response)

	gotResp, err := protocol.DeserializeDrawingInsertBody(domainReader(t, respBuf), nil)
	require.NoError(t, err)
	assert.Equal(t, merrors.InsertDrawingExists, gotResp.ResponseCode)

	outcome := merrors.InsertOutcomeError{Code: gotResp.ResponseCode}
	assert.True(t, outcome.Advisory())

	retry := &protocol.DrawingInsertRequest{EchoCode: 1, Force: true, Drawing: minimalTestDrawing()}
	retryBuf := protocol.Pack(retry)

	gotRetry, err := protocol.DeserializeDrawingInsertBody(domainReader(t, retryBuf), nil)
	require.NoError(t, err)
	assert.True(t, gotRetry.Force)
}
