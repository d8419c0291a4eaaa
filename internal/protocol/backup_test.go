package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/protocol"
)

func TestDatabaseBackupRoundTrip(t *testing.T) {
	b := &protocol.DatabaseBackup{ResponseCode: 1, Name: "backup-2026-07-30.bak"}

	buf := protocol.Pack(b)
	assert.EqualValues(t, len(buf), b.SerializedSize())

	got, err := protocol.DeserializeDatabaseBackup(domainReader(t, buf))
	require.NoError(t, err)
	assert.Equal(t, b.ResponseCode, got.ResponseCode)
	assert.Equal(t, b.Name, got.Name)
}
