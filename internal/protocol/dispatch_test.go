package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/protocol"
	"github.com/screenworks/matcat/internal/registry"
)

func TestDispatchRoutesDrawingDetailsByEchoCode(t *testing.T) {
	reg := registry.NewSet()
	d := protocol.NewDispatcher(reg, nil)

	var got *protocol.DrawingRequest
	d.AwaitDrawing(7, func(r *protocol.DrawingRequest) { got = r })

	resp := &protocol.DrawingRequest{MatID: 42, EchoCode: 7, Drawing: minimalTestDrawing()}
	d.Dispatch(protocol.Pack(resp))

	require.NotNil(t, got)
	assert.Equal(t, uint32(42), uint32(got.MatID))
	require.NotNil(t, got.Drawing)
	assert.Equal(t, "A01", got.Drawing.DrawingNumber)
}

func TestDispatchRoutesDrawingInsertByEchoCode(t *testing.T) {
	reg := registry.NewSet()
	d := protocol.NewDispatcher(reg, nil)

	var got *protocol.DrawingInsertRequest
	d.AwaitInsert(3, func(r *protocol.DrawingInsertRequest) { got = r })

	resp := &protocol.DrawingInsertRequest{EchoCode: 3, ResponseCode: 2}
	d.Dispatch(protocol.Pack(resp))

	require.NotNil(t, got)
	assert.EqualValues(t, 2, got.ResponseCode)
}

func TestDispatchCallbacksAreSingleShot(t *testing.T) {
	reg := registry.NewSet()
	d := protocol.NewDispatcher(reg, nil)

	calls := 0
	d.AwaitDrawing(1, func(r *protocol.DrawingRequest) { calls++ })

	resp := &protocol.DrawingRequest{MatID: 1, EchoCode: 1}
	d.Dispatch(protocol.Pack(resp))
	d.Dispatch(protocol.Pack(resp))

	assert.Equal(t, 1, calls)
}

func TestDispatchSourceTableBulkLoadsRegistryAndFiresCallback(t *testing.T) {
	reg := registry.NewSet()
	d := protocol.NewDispatcher(reg, nil)

	fired := false
	reg.Materials.OnRefresh(func() { fired = true })

	records := map[registry.ComponentID]registry.Material{1: {ID: 1, Name: "Polyester 120T"}}
	d.Dispatch(protocol.Pack(protocol.NewSourceMaterialsTableBody(records)))

	assert.True(t, fired)
	assert.Equal(t, 1, reg.Materials.Len())

	h, ok := reg.Materials.HandleForID(1)
	require.True(t, ok)

	rec, ok := reg.Materials.Record(h)
	require.True(t, ok)
	assert.Equal(t, "Polyester 120T", rec.Name)
}

func TestDispatchUnknownTagIsDroppedNotPanicked(t *testing.T) {
	reg := registry.NewSet()
	d := protocol.NewDispatcher(reg, nil)

	assert.NotPanics(t, func() {
		d.Dispatch([]byte{0xff, 0xff, 0xff, 0xff, 1, 2, 3})
	})
}

func TestDispatchTruncatedBodyIsDroppedNotPanicked(t *testing.T) {
	reg := registry.NewSet()
	d := protocol.NewDispatcher(reg, nil)

	assert.NotPanics(t, func() {
		d.Dispatch([]byte{})
	})
}

func TestDispatchSearchResultsSingleShot(t *testing.T) {
	reg := registry.NewSet()
	d := protocol.NewDispatcher(reg, nil)

	calls := 0
	d.OnSearchResults(func(r *protocol.SearchResults) { calls++ })

	results := &protocol.SearchResults{Maxima: testMaxima()}
	d.Dispatch(protocol.Pack(results))
	d.Dispatch(protocol.Pack(results))

	assert.Equal(t, 1, calls)
}
