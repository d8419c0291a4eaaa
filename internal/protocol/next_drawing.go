package protocol

import "github.com/screenworks/matcat/internal/codec"

// DrawingNumberType is the AUTOMATIC/MANUAL discriminant of a
// GET_NEXT_DRAWING_NUMBER request (spec §4.5).
type DrawingNumberType uint8

const (
	DrawingNumberAutomatic DrawingNumberType = iota
	DrawingNumberManual
)

// NextDrawingNumber is the GET_NEXT_DRAWING_NUMBER envelope. A request
// omits Value; the server response sets it.
type NextDrawingNumber struct {
	Type  DrawingNumberType
	Value *string
}

func (n *NextDrawingNumber) Tag() RequestType { return GetNextDrawingNumber }

func (n *NextDrawingNumber) SerializedSize() uint32 {
	size := uint32(TagSize + 1 + 1)
	if n.Value != nil {
		size += 1 + uint32(len(*n.Value))
	}

	return size
}

func (n *NextDrawingNumber) Serialize(buf []byte) {
	w := codec.NewWriter(buf)
	writeTag(w, n.Tag())
	w.WriteU8(uint8(n.Type))
	w.WriteBool(n.Value != nil)

	if n.Value != nil {
		w.WriteString(*n.Value)
	}
}

// DeserializeNextDrawingNumber reads a NextDrawingNumber body (tag already
// consumed).
func DeserializeNextDrawingNumber(r *codec.Reader) (*NextDrawingNumber, error) {
	t, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	hasValue, err := r.ReadBool()
	if err != nil {
		return nil, err
	}

	n := &NextDrawingNumber{Type: DrawingNumberType(t)}

	if hasValue {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}

		n.Value = &s
	}

	return n, nil
}
