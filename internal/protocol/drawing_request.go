package protocol

import (
	"github.com/screenworks/matcat/internal/codec"
	"github.com/screenworks/matcat/internal/domain"
	"github.com/screenworks/matcat/internal/registry"
)

// DrawingRequest is the DRAWING_DETAILS envelope (spec §4.5). Drawing is
// nil for a request (has_drawing=0) and set for the response.
type DrawingRequest struct {
	MatID    domain.MatID
	EchoCode uint32
	Drawing  *domain.Drawing
}

func (q *DrawingRequest) Tag() RequestType { return DrawingDetails }

func (q *DrawingRequest) SerializedSize() uint32 {
	n := uint32(TagSize + 4 + 4 + 1)
	if q.Drawing != nil {
		n += codec.DrawingSerializedSize(q.Drawing)
	}

	return n
}

func (q *DrawingRequest) Serialize(buf []byte) {
	w := codec.NewWriter(buf)
	writeTag(w, q.Tag())
	w.WriteU32(uint32(q.MatID))
	w.WriteU32(q.EchoCode)
	w.WriteBool(q.Drawing != nil)

	if q.Drawing != nil {
		codec.SerializeDrawing(q.Drawing, buf[w.Pos():])
	}
}

// DeserializeDrawingRequest reads a DrawingRequest body (tag already
// consumed). reg resolves embedded Drawing handles; see
// codec.DeserializeDrawing.
func DeserializeDrawingRequest(r *codec.Reader, reg *registry.Set) (*DrawingRequest, error) {
	matID, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	echo, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	hasDrawing, err := r.ReadBool()
	if err != nil {
		return nil, err
	}

	q := &DrawingRequest{MatID: domain.MatID(matID), EchoCode: echo}

	if hasDrawing {
		d, err := codec.DeserializeDrawingFromReader(r, reg)
		if err != nil {
			return nil, err
		}

		q.Drawing = d
	}

	return q, nil
}
