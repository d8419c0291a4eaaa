package protocol

import (
	"math"

	"github.com/screenworks/matcat/internal/codec"
	"github.com/screenworks/matcat/internal/registry"
)

// ComponentInsertType is the insert_type discriminant of the
// ADD_NEW_COMPONENT envelope (spec §4.5).
type ComponentInsertType uint8

const (
	ComponentNone ComponentInsertType = iota
	ComponentAperture
	ComponentMachine
	ComponentSideIron
	ComponentSideIronPrice
	ComponentMaterial
	ComponentMaterialPrice
	ComponentExtraPrice
	ComponentLabourTime
	ComponentPowderCoatingPrice
	ComponentSpecificSideIronPrice
	ComponentBackingStrip
	ComponentStrap
)

// isPriceVariant reports whether t's body is a PriceMode+target+amount
// triple rather than a bare name.
func (t ComponentInsertType) isPriceVariant() bool {
	switch t {
	case ComponentSideIronPrice, ComponentMaterialPrice, ComponentExtraPrice,
		ComponentLabourTime, ComponentPowderCoatingPrice, ComponentSpecificSideIronPrice:
		return true
	default:
		return false
	}
}

// ComponentInsertResponseCode is the response_code of the ADD_NEW_COMPONENT
// envelope (spec §4.5).
type ComponentInsertResponseCode uint8

const (
	ComponentInsertNone ComponentInsertResponseCode = iota
	ComponentInsertSuccess
	ComponentInsertFailed
)

// PriceMode is the {ADD, UPDATE, REMOVE} operation carried by a price
// variant (spec §4.5).
type PriceMode uint8

const (
	PriceAdd PriceMode = iota
	PriceUpdate
	PriceRemove
)

// ComponentInsert is the ADD_NEW_COMPONENT envelope. For a simple
// component variant (aperture, machine, side iron, backing strip, strap,
// material), Name names the new record. For a price variant, PriceMode,
// TargetID, and Amount carry the pricing operation.
type ComponentInsert struct {
	InsertType   ComponentInsertType
	ResponseCode ComponentInsertResponseCode

	Name string

	PriceMode PriceMode
	TargetID  registry.ComponentID
	Amount    float64
}

func (c *ComponentInsert) Tag() RequestType { return AddNewComponent }

func (c *ComponentInsert) SerializedSize() uint32 {
	n := uint32(TagSize + 1 + 1)

	if c.InsertType.isPriceVariant() {
		n += 1 + 4 + 8
	} else {
		n += 1 + uint32(len(c.Name))
	}

	return n
}

func (c *ComponentInsert) Serialize(buf []byte) {
	w := codec.NewWriter(buf)
	writeTag(w, c.Tag())
	w.WriteU8(uint8(c.InsertType))
	w.WriteU8(uint8(c.ResponseCode))

	if c.InsertType.isPriceVariant() {
		w.WriteU8(uint8(c.PriceMode))
		w.WriteU32(uint32(c.TargetID))
		writeF64(w, c.Amount)
	} else {
		w.WriteString(c.Name)
	}
}

// DeserializeComponentInsert reads a ComponentInsert body (tag already
// consumed).
func DeserializeComponentInsert(r *codec.Reader) (*ComponentInsert, error) {
	insertType, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	responseCode, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	c := &ComponentInsert{
		InsertType:   ComponentInsertType(insertType),
		ResponseCode: ComponentInsertResponseCode(responseCode),
	}

	if c.InsertType.isPriceVariant() {
		priceMode, err := r.ReadU8()
		if err != nil {
			return nil, err
		}

		c.PriceMode = PriceMode(priceMode)

		target, err := readComponentID(r)
		if err != nil {
			return nil, err
		}

		c.TargetID = target

		amount, err := readF64(r)
		if err != nil {
			return nil, err
		}

		c.Amount = amount
	} else {
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}

		c.Name = name
	}

	return c, nil
}

func writeF64(w *codec.Writer, v float64) {
	bits := math.Float64bits(v)
	w.WriteU32(uint32(bits))
	w.WriteU32(uint32(bits >> 32))
}

func readF64(r *codec.Reader) (float64, error) {
	lo, err := r.ReadU32()
	if err != nil {
		return 0, err
	}

	hi, err := r.ReadU32()
	if err != nil {
		return 0, err
	}

	bits := uint64(lo) | uint64(hi)<<32

	return math.Float64frombits(bits), nil
}
