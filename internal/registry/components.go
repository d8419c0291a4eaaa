package registry

// Component record types resolved by handle, sourced once by the client at
// startup and refreshed thereafter (spec §3.1). Fields beyond an identifying
// label are deliberately minimal: the wire codec never serializes these
// records themselves, only the handles that reference them — their full
// shape (pricing, geometry) belongs to the UI/PDF layers this core excludes.

type Material struct {
	ID   ComponentID
	Name string
}

type Aperture struct {
	ID     ComponentID
	Name   string
	ShapeID ComponentID
}

type Product struct {
	ID   ComponentID
	Name string
}

type SideIron struct {
	ID     ComponentID
	Name   string
	Length float32
}

type Machine struct {
	ID   ComponentID
	Name string
}

type MachineDeck struct {
	ID   ComponentID
	Name string
}

type ApertureShape struct {
	ID   ComponentID
	Name string
}

type BackingStrip struct {
	ID   ComponentID
	Name string
}

type Strap struct {
	ID   ComponentID
	Name string
}

type SideIronPrice struct {
	ID    ComponentID
	Price float64
}

type ExtraPrice struct {
	ID    ComponentID
	Price float64
}

type PowderCoatingPrice struct {
	ID    ComponentID
	Price float64
}

type LabourTime struct {
	ID       ComponentID
	Hours    float64
}

// Set bundles one Registry per component type. It is the single handle to
// all sourced component data that the codec and UI layers depend on.
type Set struct {
	Materials           *Registry[Material]
	Apertures           *Registry[Aperture]
	Products            *Registry[Product]
	SideIrons           *Registry[SideIron]
	Machines            *Registry[Machine]
	MachineDecks        *Registry[MachineDeck]
	ApertureShapes      *Registry[ApertureShape]
	BackingStrips       *Registry[BackingStrip]
	Straps              *Registry[Strap]
	SideIronPrices      *Registry[SideIronPrice]
	ExtraPrices         *Registry[ExtraPrice]
	PowderCoatingPrices *Registry[PowderCoatingPrice]
	LabourTimes         *Registry[LabourTime]
}

// NewSet constructs a Set with every component registry initialized empty.
func NewSet() *Set {
	return &Set{
		Materials:           New[Material](nil),
		Apertures:           New[Aperture](nil),
		Products:            New[Product](nil),
		SideIrons:           New[SideIron](nil),
		Machines:            New[Machine](nil),
		MachineDecks:        New[MachineDeck](nil),
		ApertureShapes:      New[ApertureShape](nil),
		BackingStrips:       New[BackingStrip](nil),
		Straps:              New[Strap](nil),
		SideIronPrices:      New[SideIronPrice](nil),
		ExtraPrices:         New[ExtraPrice](nil),
		PowderCoatingPrices: New[PowderCoatingPrice](nil),
		LabourTimes:         New[LabourTime](nil),
	}
}
