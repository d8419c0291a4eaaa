// Package transport implements the wire framing, handshake, and client
// dispatch loop of spec §4.7, §5, §6: the protocol_tag|length|payload frame,
// the four-step RSA/AES mutual handshake, and the mutex-protected outbound
// queue a background goroutine drains at a configured refresh rate.
package transport

import (
	"encoding/binary"
	"io"

	"github.com/screenworks/matcat/pkg/merrors"
)

// ProtocolTag is the leading byte of every frame on the wire (spec §6).
type ProtocolTag uint8

const (
	KeyMessage ProtocolTag = iota
	RSAMessage
	AESMessage
	ConnectionResponseMessage
	DisconnectMessage
)

// frameHeaderSize is protocol_tag:u8 | length:u32.
const frameHeaderSize = 5

// maxFramePayload bounds a single frame's payload so a corrupt or hostile
// length field can't force an unbounded allocation (spec §7: a malformed
// frame is dropped and logged, never allowed to exhaust memory).
const maxFramePayload = 64 << 20 // 64 MiB

// Frame is one unit of the wire protocol: a tag and its payload.
type Frame struct {
	Tag     ProtocolTag
	Payload []byte
}

// WriteFrame writes f to w as protocol_tag | length | payload.
func WriteFrame(w io.Writer, f Frame) error {
	header := make([]byte, frameHeaderSize)
	header[0] = byte(f.Tag)
	binary.LittleEndian.PutUint32(header[1:], uint32(len(f.Payload)))

	if _, err := w.Write(header); err != nil {
		return merrors.FrameError{Message: "write frame header", Err: err}
	}

	if len(f.Payload) > 0 {
		if _, err := w.Write(f.Payload); err != nil {
			return merrors.FrameError{Message: "write frame payload", Err: err}
		}
	}

	return nil
}

// ReadFrame reads one frame from r. A truncated header or payload, or a
// payload length past maxFramePayload, surfaces as a FrameError.
func ReadFrame(r io.Reader) (Frame, error) {
	header := make([]byte, frameHeaderSize)

	if _, err := io.ReadFull(r, header); err != nil {
		return Frame{}, merrors.FrameError{Message: "read frame header", Err: err}
	}

	length := binary.LittleEndian.Uint32(header[1:])
	if length > maxFramePayload {
		return Frame{}, merrors.FrameError{Message: "frame payload too large"}
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, merrors.FrameError{Message: "read frame payload", Err: err}
		}
	}

	return Frame{Tag: ProtocolTag(header[0]), Payload: payload}, nil
}
