package codec

import "github.com/screenworks/matcat/internal/domain"

// Each small entity defines the serializedSize/serialize/deserialize trio
// (spec §4.2). Sizes are compile-time constants here since none of these
// types contain variable-length fields.

const (
	lapSize           = 1 + 4 + 4 // attachment u8 | width f32 | material_handle u32
	impactPadSize     = 4*4 + 4 + 4
	centreHoleSize    = 4*4 + 1
	deflectorSize     = 4*3 + 4
	divertorSize      = 1 + 4*3 + 4
	damBarSize        = 4*4 + 4
	blankSpaceSize    = 4 * 4
	extraApertureSize = 4*4 + 4
)

// --- Lap ---

func LapSerializedSize(domain.Lap) uint32 { return lapSize }

func SerializeLap(l domain.Lap, w *Writer) {
	w.WriteU8(uint8(l.Attachment))
	w.WriteF32(l.Width)
	w.WriteHandle(l.MaterialHandle)
}

func DeserializeLap(r *Reader) (domain.Lap, error) {
	var l domain.Lap

	a, err := r.ReadU8()
	if err != nil {
		return l, err
	}

	l.Attachment = domain.Attachment(a)

	if l.Width, err = r.ReadF32(); err != nil {
		return l, err
	}

	if l.MaterialHandle, err = r.ReadHandle(); err != nil {
		return l, err
	}

	return l, nil
}

// --- ImpactPad ---

func ImpactPadSerializedSize(domain.ImpactPad) uint32 { return impactPadSize }

func SerializeImpactPad(p domain.ImpactPad, w *Writer) {
	w.WriteF32(p.X)
	w.WriteF32(p.Y)
	w.WriteF32(p.Width)
	w.WriteF32(p.Length)
	w.WriteHandle(p.MaterialHandle)
	w.WriteHandle(p.ApertureHandle)
}

func DeserializeImpactPad(r *Reader) (domain.ImpactPad, error) {
	var p domain.ImpactPad

	var err error
	if p.X, err = r.ReadF32(); err != nil {
		return p, err
	}

	if p.Y, err = r.ReadF32(); err != nil {
		return p, err
	}

	if p.Width, err = r.ReadF32(); err != nil {
		return p, err
	}

	if p.Length, err = r.ReadF32(); err != nil {
		return p, err
	}

	if p.MaterialHandle, err = r.ReadHandle(); err != nil {
		return p, err
	}

	if p.ApertureHandle, err = r.ReadHandle(); err != nil {
		return p, err
	}

	return p, nil
}

// --- CentreHole ---

func CentreHoleSerializedSize(domain.CentreHole) uint32 { return centreHoleSize }

func SerializeCentreHole(c domain.CentreHole, w *Writer) {
	w.WriteF32(c.X)
	w.WriteF32(c.Y)
	w.WriteF32(c.ShapeWidth)
	w.WriteF32(c.ShapeLength)
	w.WriteBool(c.Rounded)
}

func DeserializeCentreHole(r *Reader) (domain.CentreHole, error) {
	var c domain.CentreHole

	var err error
	if c.X, err = r.ReadF32(); err != nil {
		return c, err
	}

	if c.Y, err = r.ReadF32(); err != nil {
		return c, err
	}

	if c.ShapeWidth, err = r.ReadF32(); err != nil {
		return c, err
	}

	if c.ShapeLength, err = r.ReadF32(); err != nil {
		return c, err
	}

	if c.Rounded, err = r.ReadBool(); err != nil {
		return c, err
	}

	return c, nil
}

// --- Deflector ---

func DeflectorSerializedSize(domain.Deflector) uint32 { return deflectorSize }

func SerializeDeflector(d domain.Deflector, w *Writer) {
	w.WriteF32(d.X)
	w.WriteF32(d.Y)
	w.WriteF32(d.Size)
	w.WriteHandle(d.MaterialHandle)
}

func DeserializeDeflector(r *Reader) (domain.Deflector, error) {
	var d domain.Deflector

	var err error
	if d.X, err = r.ReadF32(); err != nil {
		return d, err
	}

	if d.Y, err = r.ReadF32(); err != nil {
		return d, err
	}

	if d.Size, err = r.ReadF32(); err != nil {
		return d, err
	}

	if d.MaterialHandle, err = r.ReadHandle(); err != nil {
		return d, err
	}

	return d, nil
}

// --- Divertor ---

func DivertorSerializedSize(domain.Divertor) uint32 { return divertorSize }

func SerializeDivertor(d domain.Divertor, w *Writer) {
	w.WriteU8(uint8(d.Side))
	w.WriteF32(d.VerticalPosition)
	w.WriteF32(d.Width)
	w.WriteF32(d.Length)
	w.WriteHandle(d.MaterialHandle)
}

func DeserializeDivertor(r *Reader) (domain.Divertor, error) {
	var d domain.Divertor

	side, err := r.ReadU8()
	if err != nil {
		return d, err
	}

	d.Side = domain.Side(side)

	if d.VerticalPosition, err = r.ReadF32(); err != nil {
		return d, err
	}

	if d.Width, err = r.ReadF32(); err != nil {
		return d, err
	}

	if d.Length, err = r.ReadF32(); err != nil {
		return d, err
	}

	if d.MaterialHandle, err = r.ReadHandle(); err != nil {
		return d, err
	}

	return d, nil
}

// --- DamBar ---

func DamBarSerializedSize(domain.DamBar) uint32 { return damBarSize }

func SerializeDamBar(d domain.DamBar, w *Writer) {
	w.WriteF32(d.X)
	w.WriteF32(d.Y)
	w.WriteF32(d.Width)
	w.WriteF32(d.Length)
	w.WriteHandle(d.MaterialHandle)
}

func DeserializeDamBar(r *Reader) (domain.DamBar, error) {
	var d domain.DamBar

	var err error
	if d.X, err = r.ReadF32(); err != nil {
		return d, err
	}

	if d.Y, err = r.ReadF32(); err != nil {
		return d, err
	}

	if d.Width, err = r.ReadF32(); err != nil {
		return d, err
	}

	if d.Length, err = r.ReadF32(); err != nil {
		return d, err
	}

	if d.MaterialHandle, err = r.ReadHandle(); err != nil {
		return d, err
	}

	return d, nil
}

// --- BlankSpace ---

func BlankSpaceSerializedSize(domain.BlankSpace) uint32 { return blankSpaceSize }

func SerializeBlankSpace(b domain.BlankSpace, w *Writer) {
	w.WriteF32(b.X)
	w.WriteF32(b.Y)
	w.WriteF32(b.Width)
	w.WriteF32(b.Length)
}

func DeserializeBlankSpace(r *Reader) (domain.BlankSpace, error) {
	var b domain.BlankSpace

	var err error
	if b.X, err = r.ReadF32(); err != nil {
		return b, err
	}

	if b.Y, err = r.ReadF32(); err != nil {
		return b, err
	}

	if b.Width, err = r.ReadF32(); err != nil {
		return b, err
	}

	if b.Length, err = r.ReadF32(); err != nil {
		return b, err
	}

	return b, nil
}

// --- ExtraAperture ---

func ExtraApertureSerializedSize(domain.ExtraAperture) uint32 { return extraApertureSize }

func SerializeExtraAperture(e domain.ExtraAperture, w *Writer) {
	w.WriteF32(e.X)
	w.WriteF32(e.Y)
	w.WriteF32(e.Width)
	w.WriteF32(e.Length)
	w.WriteHandle(e.ApertureHandle)
}

func DeserializeExtraAperture(r *Reader) (domain.ExtraAperture, error) {
	var e domain.ExtraAperture

	var err error
	if e.X, err = r.ReadF32(); err != nil {
		return e, err
	}

	if e.Y, err = r.ReadF32(); err != nil {
		return e, err
	}

	if e.Width, err = r.ReadF32(); err != nil {
		return e, err
	}

	if e.Length, err = r.ReadF32(); err != nil {
		return e, err
	}

	if e.ApertureHandle, err = r.ReadHandle(); err != nil {
		return e, err
	}

	return e, nil
}
