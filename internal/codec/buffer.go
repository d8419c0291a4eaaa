// Package codec implements the per-entity wire codec (spec §4.2), the
// Drawing serializer (§4.3), and the DrawingSummary compression schema
// (§4.4). Fixed numeric fields use their natural little-endian width;
// strings <=255 bytes are u8-length-prefixed; handles are u32; every
// variable-length array is u8-count-prefixed (spec §4.2).
package codec

import (
	"encoding/binary"
	"math"

	"github.com/screenworks/matcat/internal/registry"
	"github.com/screenworks/matcat/pkg/merrors"
)

// Writer appends fixed-width fields to a byte slice that the caller has
// already sized exactly via the matching SerializedSize function — it never
// grows the underlying array, matching the original's pointer-advancing
// serialise() style.
type Writer struct {
	buf []byte
	pos int
}

// NewWriter wraps buf, which must be exactly as long as the caller's
// SerializedSize computation.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Bytes returns the full backing slice (valid once every expected field has
// been written).
func (w *Writer) Bytes() []byte { return w.buf }

// Pos reports how many bytes have been written so far.
func (w *Writer) Pos() int { return w.pos }

func (w *Writer) WriteU8(v uint8) {
	w.buf[w.pos] = v
	w.pos++
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

func (w *Writer) WriteU16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[w.pos:], v)
	w.pos += 2
}

func (w *Writer) WriteU32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
}

func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

func (w *Writer) WriteHandle(h registry.Handle) {
	w.WriteU32(uint32(h))
}

// WriteOptionalHandle writes a presence byte followed by the handle if
// present; if absent, it writes a zero presence byte plus a reserved
// all-zero u32. Per spec §9's open question, the reserved word is always
// written, present or not, to keep on-wire size stable regardless of
// presence.
func (w *Writer) WriteOptionalHandle(h *registry.Handle) {
	if h != nil {
		w.WriteBool(true)
		w.WriteHandle(*h)
		return
	}

	w.WriteBool(false)
	w.WriteU32(0)
}

// WriteString emits a u8 length prefix followed by the raw bytes of s. s
// must be <=255 bytes; callers validate this before serializing (spec §4.2).
func (w *Writer) WriteString(s string) {
	w.WriteU8(uint8(len(s)))
	n := copy(w.buf[w.pos:], s)
	w.pos += n
}

// Reader consumes fixed-width fields from a byte slice, bounds-checking
// every read so that a truncated buffer surfaces as a DeserializationError
// rather than a panic (spec §4.3 failure semantics).
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos reports the current read offset.
func (r *Reader) Pos() int { return r.pos }

// Remaining reports how many bytes are left to read.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) require(n int, what string) error {
	if r.Remaining() < n {
		return merrors.NewDeserializationError(what, "truncated buffer")
	}

	return nil
}

func (r *Reader) ReadU8() (uint8, error) {
	if err := r.require(1, "u8"); err != nil {
		return 0, err
	}

	v := r.buf[r.pos]
	r.pos++

	return v, nil
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	return v != 0, err
}

func (r *Reader) ReadU16() (uint16, error) {
	if err := r.require(2, "u16"); err != nil {
		return 0, err
	}

	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2

	return v, nil
}

func (r *Reader) ReadU32() (uint32, error) {
	if err := r.require(4, "u32"); err != nil {
		return 0, err
	}

	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4

	return v, nil
}

func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(v), nil
}

func (r *Reader) ReadHandle() (registry.Handle, error) {
	v, err := r.ReadU32()
	return registry.Handle(v), err
}

// ReadOptionalHandle reads a presence byte and, unconditionally, the
// reserved/actual u32 that follows (see WriteOptionalHandle). It returns
// nil when the presence byte is false.
func (r *Reader) ReadOptionalHandle() (*registry.Handle, error) {
	present, err := r.ReadBool()
	if err != nil {
		return nil, err
	}

	h, err := r.ReadHandle()
	if err != nil {
		return nil, err
	}

	if !present {
		return nil, nil
	}

	return &h, nil
}

// Rest returns the unread tail of the buffer without consuming it.
func (r *Reader) Rest() []byte { return r.buf[r.pos:] }

// Advance consumes n bytes without interpreting them, bounds-checked like
// every other read.
func (r *Reader) Advance(n int) error {
	if err := r.require(n, "advance"); err != nil {
		return err
	}

	r.pos += n

	return nil
}

func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU8()
	if err != nil {
		return "", err
	}

	if err := r.require(int(n), "string"); err != nil {
		return "", err
	}

	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)

	return s, nil
}
