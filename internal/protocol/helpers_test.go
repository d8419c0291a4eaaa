package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/codec"
)

// domainReader wraps buf in a codec.Reader with the leading RequestType tag
// already consumed, matching every Deserialize* function's "tag already
// consumed" contract (spec §4.6 dispatch).
func domainReader(t *testing.T, buf []byte) *codec.Reader {
	t.Helper()

	r := codec.NewReader(buf)
	_, err := r.ReadU32()
	require.NoError(t, err)

	return r
}
