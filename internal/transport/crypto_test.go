package transport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/transport"
)

func TestRSAPublicKeyPEMRoundTrip(t *testing.T) {
	priv, err := transport.GenerateRSAKeyPair()
	require.NoError(t, err)

	pem := transport.EncodeRSAPublicKeyPEM(&priv.PublicKey)

	got, err := transport.DecodeRSAPublicKeyPEM(pem)
	require.NoError(t, err)
	assert.Equal(t, priv.PublicKey.N, got.N)
	assert.Equal(t, priv.PublicKey.E, got.E)
}

func TestDecodeRSAPublicKeyPEMRejectsGarbage(t *testing.T) {
	_, err := transport.DecodeRSAPublicKeyPEM([]byte("not pem"))
	assert.Error(t, err)
}

func TestLoadRSAPrivateKeyMissingFile(t *testing.T) {
	_, err := transport.LoadRSAPrivateKey("/nonexistent/client_key.pri")
	assert.Error(t, err)
}

func TestLoadServerSignatureMissingFile(t *testing.T) {
	_, err := transport.LoadServerSignature("/nonexistent/server.pub")
	assert.Error(t, err)
}
