package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/protocol"
	"github.com/screenworks/matcat/internal/registry"
)

func TestSourceMaterialsTableRoundTrip(t *testing.T) {
	records := map[registry.ComponentID]registry.Material{
		1: {ID: 1, Name: "Polyester 120T"},
		2: {ID: 2, Name: "Polyester 180T"},
	}

	body := protocol.NewSourceMaterialsTableBody(records)
	buf := protocol.Pack(body)
	assert.EqualValues(t, len(buf), body.SerializedSize())

	got, err := protocol.DeserializeSourceMaterialsTable(domainReader(t, buf))
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestSourceSideIronsTableRoundTrip(t *testing.T) {
	records := map[registry.ComponentID]registry.SideIron{
		5: {ID: 5, Name: "Standard", Length: 1250.5},
	}

	body := protocol.NewSourceSideIronsTableBody(records)
	buf := protocol.Pack(body)

	got, err := protocol.DeserializeSourceSideIronsTable(domainReader(t, buf))
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestSourceLabourTimesTableRoundTrip(t *testing.T) {
	records := map[registry.ComponentID]registry.LabourTime{
		9: {ID: 9, Hours: 3.25},
	}

	body := protocol.NewSourceLabourTimesTableBody(records)
	buf := protocol.Pack(body)

	got, err := protocol.DeserializeSourceLabourTimesTable(domainReader(t, buf))
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestSourceAperturesTableEmptyRoundTrip(t *testing.T) {
	body := protocol.NewSourceAperturesTableBody(nil)
	buf := protocol.Pack(body)

	got, err := protocol.DeserializeSourceAperturesTable(domainReader(t, buf))
	require.NoError(t, err)
	assert.Empty(t, got)
}
