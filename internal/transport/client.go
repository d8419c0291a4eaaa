package transport

import (
	"context"
	"crypto/rsa"
	"encoding/binary"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/screenworks/matcat/internal/protocol"
	"github.com/screenworks/matcat/internal/registry"
	"github.com/screenworks/matcat/pkg/merrors"
	"github.com/screenworks/matcat/pkg/mlog"
)

// Client wires a network connection, the handshake, the response
// dispatcher, and the outbound dispatch loop into the single object a
// caller uses to talk to the server (spec §4.7, §5, §6).
type Client struct {
	conn       net.Conn
	session    *Session
	dispatcher *protocol.Dispatcher
	loop       *Loop
	logger     mlog.Logger
}

// Dial connects to addr, runs the handshake, and starts the background
// dispatch loop at rate Hz. The returned Client owns conn; Close tears
// both down.
func Dial(ctx context.Context, addr string, rate RefreshRate, priv *rsa.PrivateKey, pinnedServerKey *rsa.PublicKey, creds Credentials, jwkProvider *JWKProvider, registries *registry.Set, logger mlog.Logger) (*Client, error) {
	if logger == nil {
		logger = mlog.NoopLogger{}
	}

	logger = logger.WithFields("connectionID", uuid.New().String())

	var d net.Dialer

	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, merrors.NewHandshakeError(merrors.NoConnection, err)
	}

	session, err := Handshake(ctx, conn, priv, pinnedServerKey, creds, jwkProvider, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}

	dispatcher := protocol.NewDispatcher(registries, logger)

	c := &Client{
		conn:       conn,
		session:    session,
		dispatcher: dispatcher,
		logger:     logger,
	}

	loop, err := NewLoop(conn, rate, c.handleInbound, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}

	c.loop = loop

	go loop.Run()

	return c, nil
}

// Dispatcher exposes the registration surface (AwaitDrawing, OnSearchResults,
// etc.) callers use to await specific responses.
func (c *Client) Dispatcher() *protocol.Dispatcher { return c.dispatcher }

// Send prefixes the packed envelope with the u64 session token, encrypts
// the result under the session key, and enqueues it for the next dispatch
// loop iteration. The call returns immediately; delivery happens
// asynchronously on the loop's own goroutine.
func (c *Client) Send(e protocol.Envelope) error {
	body := make([]byte, 8)
	binary.LittleEndian.PutUint64(body, c.session.SessionToken)

	sealed, err := sealAES(c.session.Key, append(body, protocol.Pack(e)...))
	if err != nil {
		return merrors.FrameError{Message: "seal outbound message", Err: err}
	}

	c.loop.Enqueue(Frame{Tag: AESMessage, Payload: sealed})

	return nil
}

func (c *Client) handleInbound(payload []byte) {
	plain, err := openAES(c.session.Key, payload)
	if err != nil {
		c.logger.Warnf("client: failed to open inbound message: %s", err)
		return
	}

	c.dispatcher.Dispatch(plain)
}

// Close stops the dispatch loop (sending a final DISCONNECT frame and
// discarding anything still queued outbound) and closes the underlying
// connection.
func (c *Client) Close() error {
	done := c.loop.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}

	return c.conn.Close()
}
