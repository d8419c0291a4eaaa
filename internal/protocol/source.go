package protocol

import (
	"github.com/screenworks/matcat/internal/codec"
	"github.com/screenworks/matcat/internal/registry"
)

// SourceTableBody is the generic SOURCE_*_TABLE envelope shape: a tag, a u32
// record count, then that many (id: u32, record) pairs (spec §4.5, §4.6 —
// "routes to the matching component registry's bulk-load entry point").
// Record order on the wire is unspecified; decoding rebuilds the id->record
// map the registry's Source call expects.
type SourceTableBody[T any] struct {
	TagValue RequestType
	Records  map[registry.ComponentID]T
	encode   func(T, *codec.Writer)
	size     func(T) uint32
}

func (b *SourceTableBody[T]) Tag() RequestType { return b.TagValue }

func (b *SourceTableBody[T]) SerializedSize() uint32 {
	n := uint32(TagSize + 4)

	for _, rec := range b.Records {
		n += 4 + b.size(rec)
	}

	return n
}

func (b *SourceTableBody[T]) Serialize(buf []byte) {
	w := codec.NewWriter(buf)
	writeTag(w, b.Tag())
	w.WriteU32(uint32(len(b.Records)))

	for id, rec := range b.Records {
		w.WriteU32(uint32(id))
		b.encode(rec, w)
	}
}

// deserializeSourceTable reads the count-prefixed (id, record) stream common
// to every SOURCE_*_TABLE body (tag already consumed).
func deserializeSourceTable[T any](r *codec.Reader, decode func(*codec.Reader, registry.ComponentID) (T, error)) (map[registry.ComponentID]T, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	out := make(map[registry.ComponentID]T, count)

	for i := uint32(0); i < count; i++ {
		id, err := r.ReadU32()
		if err != nil {
			return nil, err
		}

		rec, err := decode(r, registry.ComponentID(id))
		if err != nil {
			return nil, err
		}

		out[registry.ComponentID(id)] = rec
	}

	return out, nil
}

// NewSourceMaterialsTableBody builds the SOURCE_MATERIALS_TABLE envelope for
// records.
func NewSourceMaterialsTableBody(records map[registry.ComponentID]registry.Material) *SourceTableBody[registry.Material] {
	return &SourceTableBody[registry.Material]{TagValue: SourceMaterialsTable, Records: records, encode: encodeMaterial, size: sizeMaterial}
}

// DeserializeSourceMaterialsTable reads a SOURCE_MATERIALS_TABLE body (tag
// already consumed).
func DeserializeSourceMaterialsTable(r *codec.Reader) (map[registry.ComponentID]registry.Material, error) {
	return deserializeSourceTable(r, decodeMaterial)
}

func encodeMaterial(m registry.Material, w *codec.Writer) { w.WriteString(m.Name) }
func sizeMaterial(m registry.Material) uint32              { return stringFieldSize(m.Name) }

func decodeMaterial(r *codec.Reader, id registry.ComponentID) (registry.Material, error) {
	name, err := r.ReadString()
	return registry.Material{ID: id, Name: name}, err
}

func NewSourceAperturesTableBody(records map[registry.ComponentID]registry.Aperture) *SourceTableBody[registry.Aperture] {
	return &SourceTableBody[registry.Aperture]{TagValue: SourceAperturesTable, Records: records, encode: encodeAperture, size: sizeAperture}
}

func DeserializeSourceAperturesTable(r *codec.Reader) (map[registry.ComponentID]registry.Aperture, error) {
	return deserializeSourceTable(r, decodeAperture)
}

func encodeAperture(a registry.Aperture, w *codec.Writer) {
	w.WriteString(a.Name)
	w.WriteU32(uint32(a.ShapeID))
}
func sizeAperture(a registry.Aperture) uint32 { return stringFieldSize(a.Name) + 4 }

func decodeAperture(r *codec.Reader, id registry.ComponentID) (registry.Aperture, error) {
	name, err := r.ReadString()
	if err != nil {
		return registry.Aperture{}, err
	}

	shapeID, err := r.ReadU32()

	return registry.Aperture{ID: id, Name: name, ShapeID: registry.ComponentID(shapeID)}, err
}

func NewSourceProductsTableBody(records map[registry.ComponentID]registry.Product) *SourceTableBody[registry.Product] {
	return &SourceTableBody[registry.Product]{TagValue: SourceProductsTable, Records: records, encode: encodeProduct, size: sizeProduct}
}

func DeserializeSourceProductsTable(r *codec.Reader) (map[registry.ComponentID]registry.Product, error) {
	return deserializeSourceTable(r, decodeProduct)
}

func encodeProduct(p registry.Product, w *codec.Writer) { w.WriteString(p.Name) }
func sizeProduct(p registry.Product) uint32              { return stringFieldSize(p.Name) }

func decodeProduct(r *codec.Reader, id registry.ComponentID) (registry.Product, error) {
	name, err := r.ReadString()
	return registry.Product{ID: id, Name: name}, err
}

func NewSourceSideIronsTableBody(records map[registry.ComponentID]registry.SideIron) *SourceTableBody[registry.SideIron] {
	return &SourceTableBody[registry.SideIron]{TagValue: SourceSideIronsTable, Records: records, encode: encodeSideIron, size: sizeSideIron}
}

func DeserializeSourceSideIronsTable(r *codec.Reader) (map[registry.ComponentID]registry.SideIron, error) {
	return deserializeSourceTable(r, decodeSideIron)
}

func encodeSideIron(s registry.SideIron, w *codec.Writer) {
	w.WriteString(s.Name)
	w.WriteF32(s.Length)
}
func sizeSideIron(s registry.SideIron) uint32 { return stringFieldSize(s.Name) + 4 }

func decodeSideIron(r *codec.Reader, id registry.ComponentID) (registry.SideIron, error) {
	name, err := r.ReadString()
	if err != nil {
		return registry.SideIron{}, err
	}

	length, err := r.ReadF32()

	return registry.SideIron{ID: id, Name: name, Length: length}, err
}

func NewSourceMachinesTableBody(records map[registry.ComponentID]registry.Machine) *SourceTableBody[registry.Machine] {
	return &SourceTableBody[registry.Machine]{TagValue: SourceMachinesTable, Records: records, encode: encodeMachine, size: sizeMachine}
}

func DeserializeSourceMachinesTable(r *codec.Reader) (map[registry.ComponentID]registry.Machine, error) {
	return deserializeSourceTable(r, decodeMachine)
}

func encodeMachine(m registry.Machine, w *codec.Writer) { w.WriteString(m.Name) }
func sizeMachine(m registry.Machine) uint32              { return stringFieldSize(m.Name) }

func decodeMachine(r *codec.Reader, id registry.ComponentID) (registry.Machine, error) {
	name, err := r.ReadString()
	return registry.Machine{ID: id, Name: name}, err
}

func NewSourceMachineDecksTableBody(records map[registry.ComponentID]registry.MachineDeck) *SourceTableBody[registry.MachineDeck] {
	return &SourceTableBody[registry.MachineDeck]{TagValue: SourceMachineDecksTable, Records: records, encode: encodeMachineDeck, size: sizeMachineDeck}
}

func DeserializeSourceMachineDecksTable(r *codec.Reader) (map[registry.ComponentID]registry.MachineDeck, error) {
	return deserializeSourceTable(r, decodeMachineDeck)
}

func encodeMachineDeck(m registry.MachineDeck, w *codec.Writer) { w.WriteString(m.Name) }
func sizeMachineDeck(m registry.MachineDeck) uint32              { return stringFieldSize(m.Name) }

func decodeMachineDeck(r *codec.Reader, id registry.ComponentID) (registry.MachineDeck, error) {
	name, err := r.ReadString()
	return registry.MachineDeck{ID: id, Name: name}, err
}

func NewSourceApertureShapesTableBody(records map[registry.ComponentID]registry.ApertureShape) *SourceTableBody[registry.ApertureShape] {
	return &SourceTableBody[registry.ApertureShape]{TagValue: SourceApertureShapesTable, Records: records, encode: encodeApertureShape, size: sizeApertureShape}
}

func DeserializeSourceApertureShapesTable(r *codec.Reader) (map[registry.ComponentID]registry.ApertureShape, error) {
	return deserializeSourceTable(r, decodeApertureShape)
}

func encodeApertureShape(a registry.ApertureShape, w *codec.Writer) { w.WriteString(a.Name) }
func sizeApertureShape(a registry.ApertureShape) uint32              { return stringFieldSize(a.Name) }

func decodeApertureShape(r *codec.Reader, id registry.ComponentID) (registry.ApertureShape, error) {
	name, err := r.ReadString()
	return registry.ApertureShape{ID: id, Name: name}, err
}

func NewSourceBackingStripsTableBody(records map[registry.ComponentID]registry.BackingStrip) *SourceTableBody[registry.BackingStrip] {
	return &SourceTableBody[registry.BackingStrip]{TagValue: SourceBackingStripsTable, Records: records, encode: encodeBackingStrip, size: sizeBackingStrip}
}

func DeserializeSourceBackingStripsTable(r *codec.Reader) (map[registry.ComponentID]registry.BackingStrip, error) {
	return deserializeSourceTable(r, decodeBackingStrip)
}

func encodeBackingStrip(b registry.BackingStrip, w *codec.Writer) { w.WriteString(b.Name) }
func sizeBackingStrip(b registry.BackingStrip) uint32              { return stringFieldSize(b.Name) }

func decodeBackingStrip(r *codec.Reader, id registry.ComponentID) (registry.BackingStrip, error) {
	name, err := r.ReadString()
	return registry.BackingStrip{ID: id, Name: name}, err
}

func NewSourceStrapsTableBody(records map[registry.ComponentID]registry.Strap) *SourceTableBody[registry.Strap] {
	return &SourceTableBody[registry.Strap]{TagValue: SourceStrapsTable, Records: records, encode: encodeStrap, size: sizeStrap}
}

func DeserializeSourceStrapsTable(r *codec.Reader) (map[registry.ComponentID]registry.Strap, error) {
	return deserializeSourceTable(r, decodeStrap)
}

func encodeStrap(s registry.Strap, w *codec.Writer) { w.WriteString(s.Name) }
func sizeStrap(s registry.Strap) uint32              { return stringFieldSize(s.Name) }

func decodeStrap(r *codec.Reader, id registry.ComponentID) (registry.Strap, error) {
	name, err := r.ReadString()
	return registry.Strap{ID: id, Name: name}, err
}

func NewSourceSideIronPricesTableBody(records map[registry.ComponentID]registry.SideIronPrice) *SourceTableBody[registry.SideIronPrice] {
	return &SourceTableBody[registry.SideIronPrice]{TagValue: SourceSideIronPricesTable, Records: records, encode: encodeSideIronPrice, size: sizeSideIronPrice}
}

func DeserializeSourceSideIronPricesTable(r *codec.Reader) (map[registry.ComponentID]registry.SideIronPrice, error) {
	return deserializeSourceTable(r, decodeSideIronPrice)
}

func encodeSideIronPrice(p registry.SideIronPrice, w *codec.Writer) { writeF64(w, p.Price) }
func sizeSideIronPrice(p registry.SideIronPrice) uint32              { return 8 }

func decodeSideIronPrice(r *codec.Reader, id registry.ComponentID) (registry.SideIronPrice, error) {
	price, err := readF64(r)
	return registry.SideIronPrice{ID: id, Price: price}, err
}

func NewSourceExtraPricesTableBody(records map[registry.ComponentID]registry.ExtraPrice) *SourceTableBody[registry.ExtraPrice] {
	return &SourceTableBody[registry.ExtraPrice]{TagValue: SourceExtraPricesTable, Records: records, encode: encodeExtraPrice, size: sizeExtraPrice}
}

func DeserializeSourceExtraPricesTable(r *codec.Reader) (map[registry.ComponentID]registry.ExtraPrice, error) {
	return deserializeSourceTable(r, decodeExtraPrice)
}

func encodeExtraPrice(p registry.ExtraPrice, w *codec.Writer) { writeF64(w, p.Price) }
func sizeExtraPrice(p registry.ExtraPrice) uint32              { return 8 }

func decodeExtraPrice(r *codec.Reader, id registry.ComponentID) (registry.ExtraPrice, error) {
	price, err := readF64(r)
	return registry.ExtraPrice{ID: id, Price: price}, err
}

func NewSourcePowderCoatingPricesTableBody(records map[registry.ComponentID]registry.PowderCoatingPrice) *SourceTableBody[registry.PowderCoatingPrice] {
	return &SourceTableBody[registry.PowderCoatingPrice]{TagValue: SourcePowderCoatingPricesTable, Records: records, encode: encodePowderCoatingPrice, size: sizePowderCoatingPrice}
}

func DeserializeSourcePowderCoatingPricesTable(r *codec.Reader) (map[registry.ComponentID]registry.PowderCoatingPrice, error) {
	return deserializeSourceTable(r, decodePowderCoatingPrice)
}

func encodePowderCoatingPrice(p registry.PowderCoatingPrice, w *codec.Writer) { writeF64(w, p.Price) }
func sizePowderCoatingPrice(p registry.PowderCoatingPrice) uint32              { return 8 }

func decodePowderCoatingPrice(r *codec.Reader, id registry.ComponentID) (registry.PowderCoatingPrice, error) {
	price, err := readF64(r)
	return registry.PowderCoatingPrice{ID: id, Price: price}, err
}

func NewSourceLabourTimesTableBody(records map[registry.ComponentID]registry.LabourTime) *SourceTableBody[registry.LabourTime] {
	return &SourceTableBody[registry.LabourTime]{TagValue: SourceLabourTimesTable, Records: records, encode: encodeLabourTime, size: sizeLabourTime}
}

func DeserializeSourceLabourTimesTable(r *codec.Reader) (map[registry.ComponentID]registry.LabourTime, error) {
	return deserializeSourceTable(r, decodeLabourTime)
}

func encodeLabourTime(l registry.LabourTime, w *codec.Writer) { writeF64(w, l.Hours) }
func sizeLabourTime(l registry.LabourTime) uint32              { return 8 }

func decodeLabourTime(r *codec.Reader, id registry.ComponentID) (registry.LabourTime, error) {
	hours, err := readF64(r)
	return registry.LabourTime{ID: id, Hours: hours}, err
}
