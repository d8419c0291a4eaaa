package codec

import (
	"github.com/screenworks/matcat/internal/domain"
	"github.com/screenworks/matcat/internal/registry"
)

// Drawing flag-byte bits (spec §4.3 step 14).
const (
	flagSidelapL       = 0x01
	flagSidelapR       = 0x02
	flagOverlapL       = 0x04
	flagOverlapR       = 0x08
	flagHasBottomLayer = 0x10
)

func stringFieldSize(s string) uint32 { return 1 + uint32(len(s)) }

// DrawingSerializedSize computes the exact byte length of d's wire form,
// summing every contribution from spec §4.3's 18-step layout.
func DrawingSerializedSize(d *domain.Drawing) uint32 {
	var n uint32

	n += stringFieldSize(d.DrawingNumber) // 1
	n += DateSize                         // 2
	n += 4 + 4                            // 3: width, length
	n += stringFieldSize(d.Hyperlink)     // 4
	n += stringFieldSize(d.Notes)

	n += MachineTemplateSerializedSize(d.MachineTemplate) // 5

	n += 4 + 4 // 6: product_handle, aperture_handle

	n += 1 + 4 // 7: backing_strip presence + reserved/handle

	n += 1 + 1 // 8: tension_type, rebated

	n += 1 // 9: press_drawing_hyperlinks count
	for _, s := range d.PressDrawingHyperlinks {
		n += stringFieldSize(s)
	}

	n += 1 + uint32(len(d.BarSpacings))*4 // 10
	n += 1 + uint32(len(d.BarWidths))*4   // 11

	n += 2 * SideIronInstanceSize // 12

	n += 5*(1+1) + 2*(1+4) // 13: seven presence bytes, five u8 values, two handles (values always written)

	n += 1 // 14: flag byte

	for _, lap := range allLapsInOrder(d) { // 15
		if lap != nil {
			n += 1 + 4 + 4
		}
	}

	n += 4 // 16: top_material_handle
	if d.BottomMaterialHandle != nil {
		n += 4
	}

	n += 1 + uint32(len(d.ImpactPads))*impactPadSize         // 17
	n += 1 + uint32(len(d.DamBars))*damBarSize
	n += 1 + uint32(len(d.BlankSpaces))*blankSpaceSize
	n += 1 + uint32(len(d.ExtraApertures))*extraApertureSize
	n += 1 + uint32(len(d.CentreHoles))*centreHoleSize
	n += 1 + uint32(len(d.Deflectors))*deflectorSize
	n += 1 + uint32(len(d.Divertors))*divertorSize

	n += 4 // 18: load_warnings

	return n
}

// allLapsInOrderHelper returns the four lap slots in the fixed left-sidelap,
// right-sidelap, left-overlap, right-overlap order used by both the flag
// byte and step 15's conditional fields.
func allLapsInOrderHelper(sidelaps, overlaps [2]*domain.Lap) [4]*domain.Lap {
	return [4]*domain.Lap{sidelaps[domain.SideLeft], sidelaps[domain.SideRight], overlaps[domain.SideLeft], overlaps[domain.SideRight]}
}

// SerializeDrawing writes d into buf, which must be exactly
// DrawingSerializedSize(d) bytes. It never fails on a well-formed Drawing
// (spec §4.3 failure semantics).
func SerializeDrawing(d *domain.Drawing, buf []byte) {
	w := NewWriter(buf)

	w.WriteString(d.DrawingNumber)
	SerializeDate(d.Date, w)
	w.WriteF32(d.Width)
	w.WriteF32(d.Length)
	w.WriteString(d.Hyperlink)
	w.WriteString(d.Notes)

	SerializeMachineTemplate(d.MachineTemplate, w)

	w.WriteHandle(d.ProductHandle)
	w.WriteHandle(d.ApertureHandle)

	w.WriteOptionalHandle(d.BackingStripHandle)

	w.WriteU8(uint8(d.TensionType))
	w.WriteBool(d.Rebated)

	w.WriteU8(uint8(len(d.PressDrawingHyperlinks)))
	for _, s := range d.PressDrawingHyperlinks {
		w.WriteString(s)
	}

	w.WriteU8(uint8(len(d.BarSpacings)))
	for _, s := range d.BarSpacings {
		w.WriteF32(s)
	}

	w.WriteU8(uint8(len(d.BarWidths)))
	for _, width := range d.BarWidths {
		w.WriteF32(width)
	}

	SerializeSideIronInstance(d.LeftSideIron, w)
	SerializeSideIronInstance(d.RightSideIron, w)

	writeOptionalU8(w, d.SideIronExtras.FeedEnd)
	writeOptionalU8(w, d.SideIronExtras.LeftEnding)
	writeOptionalU8(w, d.SideIronExtras.RightEnding)
	writeOptionalU8(w, d.SideIronExtras.LeftHookOrientation)
	writeOptionalU8(w, d.SideIronExtras.RightHookOrientation)
	w.WriteOptionalHandle(d.SideIronExtras.LeftStrapHandle)
	w.WriteOptionalHandle(d.SideIronExtras.RightStrapHandle)

	laps := allLapsInOrderHelper(d.Sidelaps, d.Overlaps)

	var flags uint8
	if laps[0] != nil {
		flags |= flagSidelapL
	}

	if laps[1] != nil {
		flags |= flagSidelapR
	}

	if laps[2] != nil {
		flags |= flagOverlapL
	}

	if laps[3] != nil {
		flags |= flagOverlapR
	}

	if d.BottomMaterialHandle != nil {
		flags |= flagHasBottomLayer
	}

	w.WriteU8(flags)

	for _, lap := range laps {
		if lap == nil {
			continue
		}

		w.WriteU8(uint8(lap.Attachment))
		w.WriteF32(lap.Width)
		w.WriteHandle(lap.MaterialHandle)
	}

	w.WriteHandle(d.TopMaterialHandle)

	if d.BottomMaterialHandle != nil {
		w.WriteHandle(*d.BottomMaterialHandle)
	}

	w.WriteU8(uint8(len(d.ImpactPads)))
	for _, p := range d.ImpactPads {
		SerializeImpactPad(p, w)
	}

	w.WriteU8(uint8(len(d.DamBars)))
	for _, b := range d.DamBars {
		SerializeDamBar(b, w)
	}

	w.WriteU8(uint8(len(d.BlankSpaces)))
	for _, b := range d.BlankSpaces {
		SerializeBlankSpace(b, w)
	}

	w.WriteU8(uint8(len(d.ExtraApertures)))
	for _, e := range d.ExtraApertures {
		SerializeExtraAperture(e, w)
	}

	w.WriteU8(uint8(len(d.CentreHoles)))
	for _, c := range d.CentreHoles {
		SerializeCentreHole(c, w)
	}

	w.WriteU8(uint8(len(d.Deflectors)))
	for _, def := range d.Deflectors {
		SerializeDeflector(def, w)
	}

	w.WriteU8(uint8(len(d.Divertors)))
	for _, dv := range d.Divertors {
		SerializeDivertor(dv, w)
	}

	w.WriteU32(uint32(d.LoadWarnings))
}

func writeOptionalU8(w *Writer, v *uint8) {
	if v != nil {
		w.WriteBool(true)
		w.WriteU8(*v)
		return
	}

	w.WriteBool(false)
	w.WriteU8(0)
}

func readOptionalU8(r *Reader) (*uint8, error) {
	present, err := r.ReadBool()
	if err != nil {
		return nil, err
	}

	v, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	if !present {
		return nil, nil
	}

	return &v, nil
}

// resolveOrWarn returns h unchanged if it resolves in reg (or is
// InvalidHandle, meaning "absent by design"), otherwise sets bit in
// warnings and substitutes registry.InvalidHandle as the placeholder
// (spec §4.3 failure semantics: an unresolved handle is a load-warning,
// never a deserialization error).
func resolveOrWarn[T any](reg *registry.Registry[T], h registry.Handle, bit domain.LoadWarning, warnings *domain.LoadWarning) registry.Handle {
	if h == registry.InvalidHandle {
		return h
	}

	if _, ok := reg.Record(h); ok {
		return h
	}

	*warnings |= bit

	return registry.InvalidHandle
}

// DeserializeDrawing reads a Drawing from buf. reg may be nil, in which
// case handle resolution is skipped (no load-warnings are ever set); this
// is used by callers that only need the raw wire values, e.g. tests.
func DeserializeDrawing(buf []byte, reg *registry.Set) (*domain.Drawing, error) {
	return DeserializeDrawingFromReader(NewReader(buf), reg)
}

// DeserializeDrawingFromReader is DeserializeDrawing for callers that
// already hold a Reader positioned at the start of a Drawing body — e.g.
// an enclosing request envelope that embeds a Drawing after its own
// header fields.
func DeserializeDrawingFromReader(r *Reader, reg *registry.Set) (*domain.Drawing, error) {
	d := &domain.Drawing{}

	var err error

	if d.DrawingNumber, err = r.ReadString(); err != nil {
		return nil, err
	}

	if d.Date, err = DeserializeDate(r); err != nil {
		return nil, err
	}

	if d.Width, err = r.ReadF32(); err != nil {
		return nil, err
	}

	if d.Length, err = r.ReadF32(); err != nil {
		return nil, err
	}

	if d.Hyperlink, err = r.ReadString(); err != nil {
		return nil, err
	}

	if d.Notes, err = r.ReadString(); err != nil {
		return nil, err
	}

	if d.MachineTemplate, err = DeserializeMachineTemplate(r); err != nil {
		return nil, err
	}

	if d.ProductHandle, err = r.ReadHandle(); err != nil {
		return nil, err
	}

	if d.ApertureHandle, err = r.ReadHandle(); err != nil {
		return nil, err
	}

	if d.BackingStripHandle, err = r.ReadOptionalHandle(); err != nil {
		return nil, err
	}

	tension, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	d.TensionType = domain.TensionType(tension)

	if d.Rebated, err = r.ReadBool(); err != nil {
		return nil, err
	}

	hyperlinkCount, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	d.PressDrawingHyperlinks = make([]string, hyperlinkCount)
	for i := range d.PressDrawingHyperlinks {
		if d.PressDrawingHyperlinks[i], err = r.ReadString(); err != nil {
			return nil, err
		}
	}

	spacingCount, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	d.BarSpacings = make([]float32, spacingCount)
	for i := range d.BarSpacings {
		if d.BarSpacings[i], err = r.ReadF32(); err != nil {
			return nil, err
		}
	}

	widthCount, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	d.BarWidths = make([]float32, widthCount)
	for i := range d.BarWidths {
		if d.BarWidths[i], err = r.ReadF32(); err != nil {
			return nil, err
		}
	}

	if d.LeftSideIron, err = DeserializeSideIronInstance(r); err != nil {
		return nil, err
	}

	if d.RightSideIron, err = DeserializeSideIronInstance(r); err != nil {
		return nil, err
	}

	if d.SideIronExtras.FeedEnd, err = readOptionalU8(r); err != nil {
		return nil, err
	}

	if d.SideIronExtras.LeftEnding, err = readOptionalU8(r); err != nil {
		return nil, err
	}

	if d.SideIronExtras.RightEnding, err = readOptionalU8(r); err != nil {
		return nil, err
	}

	if d.SideIronExtras.LeftHookOrientation, err = readOptionalU8(r); err != nil {
		return nil, err
	}

	if d.SideIronExtras.RightHookOrientation, err = readOptionalU8(r); err != nil {
		return nil, err
	}

	if d.SideIronExtras.LeftStrapHandle, err = r.ReadOptionalHandle(); err != nil {
		return nil, err
	}

	if d.SideIronExtras.RightStrapHandle, err = r.ReadOptionalHandle(); err != nil {
		return nil, err
	}

	flags, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	lapPresence := [4]bool{
		flags&flagSidelapL != 0,
		flags&flagSidelapR != 0,
		flags&flagOverlapL != 0,
		flags&flagOverlapR != 0,
	}

	hasBottomLayer := flags&flagHasBottomLayer != 0

	var laps [4]*domain.Lap

	for i, present := range lapPresence {
		if !present {
			continue
		}

		lap, err := DeserializeLap(r)
		if err != nil {
			return nil, err
		}

		laps[i] = &lap
	}

	d.Sidelaps = [2]*domain.Lap{laps[0], laps[1]}
	d.Overlaps = [2]*domain.Lap{laps[2], laps[3]}

	if d.TopMaterialHandle, err = r.ReadHandle(); err != nil {
		return nil, err
	}

	if hasBottomLayer {
		h, err := r.ReadHandle()
		if err != nil {
			return nil, err
		}

		d.BottomMaterialHandle = &h
	}

	if d.ImpactPads, err = readAddonList(r, DeserializeImpactPad); err != nil {
		return nil, err
	}

	if d.DamBars, err = readAddonList(r, DeserializeDamBar); err != nil {
		return nil, err
	}

	if d.BlankSpaces, err = readAddonList(r, DeserializeBlankSpace); err != nil {
		return nil, err
	}

	if d.ExtraApertures, err = readAddonList(r, DeserializeExtraAperture); err != nil {
		return nil, err
	}

	if d.CentreHoles, err = readAddonList(r, DeserializeCentreHole); err != nil {
		return nil, err
	}

	if d.Deflectors, err = readAddonList(r, DeserializeDeflector); err != nil {
		return nil, err
	}

	if d.Divertors, err = readAddonList(r, DeserializeDivertor); err != nil {
		return nil, err
	}

	warnings, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	d.LoadWarnings = domain.LoadWarning(warnings)

	if reg != nil {
		resolveHandles(d, reg)
	}

	return d, nil
}

func resolveHandles(d *domain.Drawing, reg *registry.Set) {
	d.ProductHandle = resolveOrWarn(reg.Products, d.ProductHandle, domain.MissingProductDetected, &d.LoadWarnings)
	d.ApertureHandle = resolveOrWarn(reg.Apertures, d.ApertureHandle, domain.MissingApertureDetected, &d.LoadWarnings)
	d.TopMaterialHandle = resolveOrWarn(reg.Materials, d.TopMaterialHandle, domain.MissingMaterialDetected, &d.LoadWarnings)

	if d.BottomMaterialHandle != nil {
		h := resolveOrWarn(reg.Materials, *d.BottomMaterialHandle, domain.MissingMaterialDetected, &d.LoadWarnings)
		d.BottomMaterialHandle = &h
	}

	if d.BackingStripHandle != nil {
		h := resolveOrWarn(reg.BackingStrips, *d.BackingStripHandle, domain.MissingBackingStripDetected, &d.LoadWarnings)
		d.BackingStripHandle = &h
	}

	d.MachineTemplate.MachineHandle = resolveOrWarn(reg.Machines, d.MachineTemplate.MachineHandle, domain.MissingMachineDetected, &d.LoadWarnings)
	d.MachineTemplate.DeckHandle = resolveOrWarn(reg.MachineDecks, d.MachineTemplate.DeckHandle, domain.MissingDeckDetected, &d.LoadWarnings)

	d.LeftSideIron.Handle = resolveOrWarn(reg.SideIrons, d.LeftSideIron.Handle, domain.MissingSideIronDetected, &d.LoadWarnings)
	d.RightSideIron.Handle = resolveOrWarn(reg.SideIrons, d.RightSideIron.Handle, domain.MissingSideIronDetected, &d.LoadWarnings)

	if d.SideIronExtras.LeftStrapHandle != nil {
		h := resolveOrWarn(reg.Straps, *d.SideIronExtras.LeftStrapHandle, domain.MissingStrapDetected, &d.LoadWarnings)
		d.SideIronExtras.LeftStrapHandle = &h
	}

	if d.SideIronExtras.RightStrapHandle != nil {
		h := resolveOrWarn(reg.Straps, *d.SideIronExtras.RightStrapHandle, domain.MissingStrapDetected, &d.LoadWarnings)
		d.SideIronExtras.RightStrapHandle = &h
	}

	for _, lap := range allLapsInOrderHelper(d.Sidelaps, d.Overlaps) {
		if lap != nil {
			lap.MaterialHandle = resolveOrWarn(reg.Materials, lap.MaterialHandle, domain.MissingMaterialDetected, &d.LoadWarnings)
		}
	}

	for i := range d.ImpactPads {
		d.ImpactPads[i].MaterialHandle = resolveOrWarn(reg.Materials, d.ImpactPads[i].MaterialHandle, domain.MissingMaterialDetected, &d.LoadWarnings)
		d.ImpactPads[i].ApertureHandle = resolveOrWarn(reg.Apertures, d.ImpactPads[i].ApertureHandle, domain.MissingApertureDetected, &d.LoadWarnings)
	}

	for i := range d.DamBars {
		d.DamBars[i].MaterialHandle = resolveOrWarn(reg.Materials, d.DamBars[i].MaterialHandle, domain.MissingMaterialDetected, &d.LoadWarnings)
	}

	for i := range d.ExtraApertures {
		d.ExtraApertures[i].ApertureHandle = resolveOrWarn(reg.Apertures, d.ExtraApertures[i].ApertureHandle, domain.MissingApertureDetected, &d.LoadWarnings)
	}

	for i := range d.Deflectors {
		d.Deflectors[i].MaterialHandle = resolveOrWarn(reg.Materials, d.Deflectors[i].MaterialHandle, domain.MissingMaterialDetected, &d.LoadWarnings)
	}

	for i := range d.Divertors {
		d.Divertors[i].MaterialHandle = resolveOrWarn(reg.Materials, d.Divertors[i].MaterialHandle, domain.MissingMaterialDetected, &d.LoadWarnings)
	}
}

func readAddonList[T any](r *Reader, deserialize func(*Reader) (T, error)) ([]T, error) {
	count, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	out := make([]T, count)
	for i := range out {
		if out[i], err = deserialize(r); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// allLapsInOrder is a free-function form of allLapsInOrderHelper for callers that
// already have a *domain.Drawing.
func allLapsInOrder(d *domain.Drawing) [4]*domain.Lap {
	return allLapsInOrderHelper(d.Sidelaps, d.Overlaps)
}
