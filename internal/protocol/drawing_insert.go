package protocol

import (
	"github.com/screenworks/matcat/internal/codec"
	"github.com/screenworks/matcat/internal/domain"
	"github.com/screenworks/matcat/internal/registry"
	"github.com/screenworks/matcat/pkg/merrors"
)

// DrawingInsertRequest is the DRAWING_INSERT envelope (spec §4.5). A
// request has ResponseCode == InsertNone and Drawing set; a response has
// ResponseCode set to the outcome and, on DRAWING_EXISTS retry, Force may
// be set by the client on a follow-up request.
type DrawingInsertRequest struct {
	ResponseCode merrors.InsertOutcomeCode
	EchoCode     uint32
	Force        bool
	Drawing      *domain.Drawing
}

func (q *DrawingInsertRequest) Tag() RequestType { return DrawingInsert }

func (q *DrawingInsertRequest) SerializedSize() uint32 {
	n := uint32(TagSize + 1 + 4 + 1 + 1)
	if q.Drawing != nil {
		n += codec.DrawingSerializedSize(q.Drawing)
	}

	return n
}

func (q *DrawingInsertRequest) Serialize(buf []byte) {
	w := codec.NewWriter(buf)
	writeTag(w, q.Tag())
	w.WriteU8(uint8(q.ResponseCode))
	w.WriteU32(q.EchoCode)
	w.WriteBool(q.Force)
	w.WriteBool(q.Drawing != nil)

	if q.Drawing != nil {
		codec.SerializeDrawing(q.Drawing, buf[w.Pos():])
	}
}

// DeserializeDrawingInsertBody reads a DrawingInsertRequest body (tag
// already consumed).
func DeserializeDrawingInsertBody(r *codec.Reader, reg *registry.Set) (*DrawingInsertRequest, error) {
	code, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	echo, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	force, err := r.ReadBool()
	if err != nil {
		return nil, err
	}

	hasDrawing, err := r.ReadBool()
	if err != nil {
		return nil, err
	}

	q := &DrawingInsertRequest{ResponseCode: merrors.InsertOutcomeCode(code), EchoCode: echo, Force: force}

	if hasDrawing {
		d, err := codec.DeserializeDrawingFromReader(r, reg)
		if err != nil {
			return nil, err
		}

		q.Drawing = d
	}

	return q, nil
}
