package protocol

import (
	"github.com/screenworks/matcat/internal/codec"
	"github.com/screenworks/matcat/internal/domain"
	"github.com/screenworks/matcat/internal/registry"
)

// ValueRange is an inclusive [Lower, Upper] bound pair (spec §4.5).
type ValueRange[T any] struct {
	Lower T
	Upper T
}

// LapPresenceMode is the {NONE, ONE, BOTH} search filter for sidelap/overlap
// presence (spec §4.5).
type LapPresenceMode uint8

const (
	LapModeNone LapPresenceMode = iota
	LapModeOne
	LapModeBoth
)

// The 22 search-query fields in the fixed presence-bitmap order this
// implementation assigns (spec §4.5 lists these fields but does not pin
// their bit order — see DESIGN.md). Bit i corresponds to the i-th field
// below, textual-listing order.
const (
	bitDrawingNumber = iota
	bitWidth
	bitLength
	bitProduct
	bitNumberOfBars
	bitAperture
	bitTopThickness
	bitBottomThickness
	bitDateRange
	bitSideIronType
	bitSideIronLength
	bitSidelapMode
	bitOverlapMode
	bitSidelapWidthRange
	bitOverlapWidthRange
	bitSidelapAttachment
	bitOverlapAttachment
	bitMachine
	bitManufacturer
	bitQuantityOnDeck
	bitPosition
	bitMachineDeck
)

// DatabaseSearchQuery is the DRAWING_SEARCH_QUERY envelope: a tag, a 32-bit
// field-presence bitmap, then each present field in fixed order (spec
// §4.5). A nil pointer means the filter is unset.
type DatabaseSearchQuery struct {
	DrawingNumber     *string
	Width             *ValueRange[float32]
	Length            *ValueRange[float32]
	Product           *registry.ComponentID
	NumberOfBars      *uint8
	Aperture          *registry.ComponentID
	TopThickness      *registry.ComponentID
	BottomThickness   *registry.ComponentID
	DateRange         *ValueRange[domain.Date]
	SideIronType      *registry.ComponentID
	SideIronLength    *float32
	SidelapMode       *LapPresenceMode
	OverlapMode       *LapPresenceMode
	SidelapWidthRange *ValueRange[float32]
	OverlapWidthRange *ValueRange[float32]
	SidelapAttachment *domain.Attachment
	OverlapAttachment *domain.Attachment
	Machine           *registry.ComponentID
	Manufacturer      *string
	QuantityOnDeck    *uint32
	Position          *string
	MachineDeck       *registry.ComponentID
}

func (q *DatabaseSearchQuery) Tag() RequestType { return DrawingSearchQuery }

// bitmap computes the 32-bit field-presence bitmap from which pointers are
// non-nil.
func (q *DatabaseSearchQuery) bitmap() uint32 {
	var m uint32

	set := func(present bool, bit int) {
		if present {
			m |= 1 << uint(bit)
		}
	}

	set(q.DrawingNumber != nil, bitDrawingNumber)
	set(q.Width != nil, bitWidth)
	set(q.Length != nil, bitLength)
	set(q.Product != nil, bitProduct)
	set(q.NumberOfBars != nil, bitNumberOfBars)
	set(q.Aperture != nil, bitAperture)
	set(q.TopThickness != nil, bitTopThickness)
	set(q.BottomThickness != nil, bitBottomThickness)
	set(q.DateRange != nil, bitDateRange)
	set(q.SideIronType != nil, bitSideIronType)
	set(q.SideIronLength != nil, bitSideIronLength)
	set(q.SidelapMode != nil, bitSidelapMode)
	set(q.OverlapMode != nil, bitOverlapMode)
	set(q.SidelapWidthRange != nil, bitSidelapWidthRange)
	set(q.OverlapWidthRange != nil, bitOverlapWidthRange)
	set(q.SidelapAttachment != nil, bitSidelapAttachment)
	set(q.OverlapAttachment != nil, bitOverlapAttachment)
	set(q.Machine != nil, bitMachine)
	set(q.Manufacturer != nil, bitManufacturer)
	set(q.QuantityOnDeck != nil, bitQuantityOnDeck)
	set(q.Position != nil, bitPosition)
	set(q.MachineDeck != nil, bitMachineDeck)

	return m
}

func (q *DatabaseSearchQuery) SerializedSize() uint32 {
	n := uint32(TagSize + 4) // tag + bitmap

	if q.DrawingNumber != nil {
		n += 1 + uint32(len(*q.DrawingNumber))
	}

	if q.Width != nil {
		n += 8
	}

	if q.Length != nil {
		n += 8
	}

	if q.Product != nil {
		n += 4
	}

	if q.NumberOfBars != nil {
		n++
	}

	if q.Aperture != nil {
		n += 4
	}

	if q.TopThickness != nil {
		n += 4
	}

	if q.BottomThickness != nil {
		n += 4
	}

	if q.DateRange != nil {
		n += 8
	}

	if q.SideIronType != nil {
		n += 4
	}

	if q.SideIronLength != nil {
		n += 4
	}

	if q.SidelapMode != nil {
		n++
	}

	if q.OverlapMode != nil {
		n++
	}

	if q.SidelapWidthRange != nil {
		n += 8
	}

	if q.OverlapWidthRange != nil {
		n += 8
	}

	if q.SidelapAttachment != nil {
		n++
	}

	if q.OverlapAttachment != nil {
		n++
	}

	if q.Machine != nil {
		n += 4
	}

	if q.Manufacturer != nil {
		n += 1 + uint32(len(*q.Manufacturer))
	}

	if q.QuantityOnDeck != nil {
		n += 4
	}

	if q.Position != nil {
		n += 1 + uint32(len(*q.Position))
	}

	if q.MachineDeck != nil {
		n += 4
	}

	return n
}

func (q *DatabaseSearchQuery) Serialize(buf []byte) {
	w := codec.NewWriter(buf)
	writeTag(w, q.Tag())
	w.WriteU32(q.bitmap())

	if q.DrawingNumber != nil {
		w.WriteString(*q.DrawingNumber)
	}

	if q.Width != nil {
		w.WriteF32(q.Width.Lower)
		w.WriteF32(q.Width.Upper)
	}

	if q.Length != nil {
		w.WriteF32(q.Length.Lower)
		w.WriteF32(q.Length.Upper)
	}

	if q.Product != nil {
		w.WriteU32(uint32(*q.Product))
	}

	if q.NumberOfBars != nil {
		w.WriteU8(*q.NumberOfBars)
	}

	if q.Aperture != nil {
		w.WriteU32(uint32(*q.Aperture))
	}

	if q.TopThickness != nil {
		w.WriteU32(uint32(*q.TopThickness))
	}

	if q.BottomThickness != nil {
		w.WriteU32(uint32(*q.BottomThickness))
	}

	if q.DateRange != nil {
		codec.SerializeDate(q.DateRange.Lower, w)
		codec.SerializeDate(q.DateRange.Upper, w)
	}

	if q.SideIronType != nil {
		w.WriteU32(uint32(*q.SideIronType))
	}

	if q.SideIronLength != nil {
		w.WriteF32(*q.SideIronLength)
	}

	if q.SidelapMode != nil {
		w.WriteU8(uint8(*q.SidelapMode))
	}

	if q.OverlapMode != nil {
		w.WriteU8(uint8(*q.OverlapMode))
	}

	if q.SidelapWidthRange != nil {
		w.WriteF32(q.SidelapWidthRange.Lower)
		w.WriteF32(q.SidelapWidthRange.Upper)
	}

	if q.OverlapWidthRange != nil {
		w.WriteF32(q.OverlapWidthRange.Lower)
		w.WriteF32(q.OverlapWidthRange.Upper)
	}

	if q.SidelapAttachment != nil {
		w.WriteU8(uint8(*q.SidelapAttachment))
	}

	if q.OverlapAttachment != nil {
		w.WriteU8(uint8(*q.OverlapAttachment))
	}

	if q.Machine != nil {
		w.WriteU32(uint32(*q.Machine))
	}

	if q.Manufacturer != nil {
		w.WriteString(*q.Manufacturer)
	}

	if q.QuantityOnDeck != nil {
		w.WriteU32(*q.QuantityOnDeck)
	}

	if q.Position != nil {
		w.WriteString(*q.Position)
	}

	if q.MachineDeck != nil {
		w.WriteU32(uint32(*q.MachineDeck))
	}
}

// DeserializeDatabaseSearchQuery reads a DatabaseSearchQuery body (the tag
// itself must already have been consumed by the caller per §4.6's dispatch
// contract).
func DeserializeDatabaseSearchQuery(r *codec.Reader) (*DatabaseSearchQuery, error) {
	bitmap, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	q := &DatabaseSearchQuery{}

	has := func(bit int) bool { return bitmap&(1<<uint(bit)) != 0 }

	if has(bitDrawingNumber) {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}

		q.DrawingNumber = &s
	}

	if has(bitWidth) {
		v, err := readFloatRange(r)
		if err != nil {
			return nil, err
		}

		q.Width = &v
	}

	if has(bitLength) {
		v, err := readFloatRange(r)
		if err != nil {
			return nil, err
		}

		q.Length = &v
	}

	if has(bitProduct) {
		v, err := readComponentID(r)
		if err != nil {
			return nil, err
		}

		q.Product = &v
	}

	if has(bitNumberOfBars) {
		v, err := r.ReadU8()
		if err != nil {
			return nil, err
		}

		q.NumberOfBars = &v
	}

	if has(bitAperture) {
		v, err := readComponentID(r)
		if err != nil {
			return nil, err
		}

		q.Aperture = &v
	}

	if has(bitTopThickness) {
		v, err := readComponentID(r)
		if err != nil {
			return nil, err
		}

		q.TopThickness = &v
	}

	if has(bitBottomThickness) {
		v, err := readComponentID(r)
		if err != nil {
			return nil, err
		}

		q.BottomThickness = &v
	}

	if has(bitDateRange) {
		lower, err := codec.DeserializeDate(r)
		if err != nil {
			return nil, err
		}

		upper, err := codec.DeserializeDate(r)
		if err != nil {
			return nil, err
		}

		q.DateRange = &ValueRange[domain.Date]{Lower: lower, Upper: upper}
	}

	if has(bitSideIronType) {
		v, err := readComponentID(r)
		if err != nil {
			return nil, err
		}

		q.SideIronType = &v
	}

	if has(bitSideIronLength) {
		v, err := r.ReadF32()
		if err != nil {
			return nil, err
		}

		q.SideIronLength = &v
	}

	if has(bitSidelapMode) {
		v, err := r.ReadU8()
		if err != nil {
			return nil, err
		}

		mode := LapPresenceMode(v)
		q.SidelapMode = &mode
	}

	if has(bitOverlapMode) {
		v, err := r.ReadU8()
		if err != nil {
			return nil, err
		}

		mode := LapPresenceMode(v)
		q.OverlapMode = &mode
	}

	if has(bitSidelapWidthRange) {
		v, err := readFloatRange(r)
		if err != nil {
			return nil, err
		}

		q.SidelapWidthRange = &v
	}

	if has(bitOverlapWidthRange) {
		v, err := readFloatRange(r)
		if err != nil {
			return nil, err
		}

		q.OverlapWidthRange = &v
	}

	if has(bitSidelapAttachment) {
		v, err := r.ReadU8()
		if err != nil {
			return nil, err
		}

		a := domain.Attachment(v)
		q.SidelapAttachment = &a
	}

	if has(bitOverlapAttachment) {
		v, err := r.ReadU8()
		if err != nil {
			return nil, err
		}

		a := domain.Attachment(v)
		q.OverlapAttachment = &a
	}

	if has(bitMachine) {
		v, err := readComponentID(r)
		if err != nil {
			return nil, err
		}

		q.Machine = &v
	}

	if has(bitManufacturer) {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}

		q.Manufacturer = &s
	}

	if has(bitQuantityOnDeck) {
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}

		q.QuantityOnDeck = &v
	}

	if has(bitPosition) {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}

		q.Position = &s
	}

	if has(bitMachineDeck) {
		v, err := readComponentID(r)
		if err != nil {
			return nil, err
		}

		q.MachineDeck = &v
	}

	return q, nil
}

func readFloatRange(r *codec.Reader) (ValueRange[float32], error) {
	lower, err := r.ReadF32()
	if err != nil {
		return ValueRange[float32]{}, err
	}

	upper, err := r.ReadF32()
	if err != nil {
		return ValueRange[float32]{}, err
	}

	return ValueRange[float32]{Lower: lower, Upper: upper}, nil
}

func readComponentID(r *codec.Reader) (registry.ComponentID, error) {
	v, err := r.ReadU32()
	return registry.ComponentID(v), err
}
