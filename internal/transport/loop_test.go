package transport_test

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/transport"
)

func TestNewLoopRejectsNonPositiveRate(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	_, err := transport.NewLoop(clientConn, 0, nil, nil)
	assert.Error(t, err)

	_, err = transport.NewLoop(clientConn, -5, nil, nil)
	assert.Error(t, err)
}

func TestLoopDrainsOutboundInOrder(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	loop, err := transport.NewLoop(clientConn, transport.RefreshRate(50), nil, nil)
	require.NoError(t, err)

	loop.Enqueue(transport.Frame{Tag: transport.AESMessage, Payload: []byte("first")})
	loop.Enqueue(transport.Frame{Tag: transport.AESMessage, Payload: []byte("second")})

	go loop.Run()

	f1, err := transport.ReadFrame(serverConn)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), f1.Payload)

	f2, err := transport.ReadFrame(serverConn)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), f2.Payload)

	done := loop.Stop()
	// Drain the final DISCONNECT frame the stop sends.
	_, _ = transport.ReadFrame(serverConn)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoopDeliversInboundMessage(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	received := make(chan []byte, 1)

	loop, err := transport.NewLoop(clientConn, transport.RefreshRate(50), func(payload []byte) {
		received <- payload
	}, nil)
	require.NoError(t, err)

	go loop.Run()

	go func() {
		_ = transport.WriteFrame(serverConn, transport.Frame{Tag: transport.AESMessage, Payload: []byte("inbound")})
	}()

	select {
	case payload := <-received:
		assert.Equal(t, []byte("inbound"), payload)
	case <-time.After(2 * time.Second):
		t.Fatal("inbound message never delivered")
	}

	done := loop.Stop()
	_, _ = transport.ReadFrame(serverConn)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}
