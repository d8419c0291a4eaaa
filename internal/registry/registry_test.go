package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceAssignsDenseHandles(t *testing.T) {
	r := New[Material](nil)

	r.Source(map[ComponentID]Material{
		10: {ID: 10, Name: "EPDM"},
		20: {ID: 20, Name: "Neoprene"},
	})

	h10, ok := r.HandleForID(10)
	require.True(t, ok)
	assert.NotEqual(t, InvalidHandle, h10)

	h20, ok := r.HandleForID(20)
	require.True(t, ok)
	assert.NotEqual(t, InvalidHandle, h20)
	assert.NotEqual(t, h10, h20)

	rec, ok := r.Record(h10)
	require.True(t, ok)
	assert.Equal(t, "EPDM", rec.Name)
}

func TestSourcePreservesHandlesForStillPresentIDs(t *testing.T) {
	r := New[Material](nil)

	r.Source(map[ComponentID]Material{
		10: {ID: 10, Name: "EPDM"},
	})

	h1, _ := r.HandleForID(10)

	r.Source(map[ComponentID]Material{
		10: {ID: 10, Name: "EPDM-rev2"},
		20: {ID: 20, Name: "Neoprene"},
	})

	h2, ok := r.HandleForID(10)
	require.True(t, ok)
	assert.Equal(t, h1, h2, "handle for an ID present across refreshes must remain stable")

	rec, ok := r.Record(h2)
	require.True(t, ok)
	assert.Equal(t, "EPDM-rev2", rec.Name, "record behind the stable handle reflects the refreshed data")
}

func TestSourceDropsMissingIDs(t *testing.T) {
	r := New[Material](nil)

	r.Source(map[ComponentID]Material{
		10: {ID: 10, Name: "EPDM"},
	})
	h1, _ := r.HandleForID(10)

	r.Source(map[ComponentID]Material{
		20: {ID: 20, Name: "Neoprene"},
	})

	_, ok := r.HandleForID(10)
	assert.False(t, ok)

	_, ok = r.Record(h1)
	assert.False(t, ok)
}

func TestOnRefreshCallbacksFireAfterSource(t *testing.T) {
	r := New[Material](nil)

	fired := 0
	r.OnRefresh(func() { fired++ })
	r.OnRefresh(func() { fired++ })

	r.Source(map[ComponentID]Material{1: {ID: 1, Name: "X"}})

	assert.Equal(t, 2, fired)
}

func TestInvalidHandleIsZero(t *testing.T) {
	assert.Equal(t, Handle(0), InvalidHandle)
}

func TestIDForHandleRoundTrip(t *testing.T) {
	r := New[Aperture](nil)
	r.Source(map[ComponentID]Aperture{5: {ID: 5, Name: "Square"}})

	h, ok := r.HandleForID(5)
	require.True(t, ok)

	id, ok := r.IDForHandle(h)
	require.True(t, ok)
	assert.Equal(t, ComponentID(5), id)
}
