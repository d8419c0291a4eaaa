// Package domain holds the Drawing aggregate, its sub-entities, and the
// DrawingSummary search-result projection (spec §3.2, §3.3). These types
// carry no serialization logic themselves — that lives in internal/codec —
// keeping the wire layout separable from the data model, the way the
// original source kept Drawing's fields separate from its
// serialise()/deserialise() member functions.
package domain

import "github.com/screenworks/matcat/internal/registry"

// TensionType is whether the mat is held under tension along its side
// edges or its end edges; it determines the mapping of laps to the four
// summary slots (GLOSSARY).
type TensionType uint8

const (
	TensionSide TensionType = iota
	TensionEnd
)

// LoadWarning flags are set on deserialization when a referenced handle
// could not be resolved in the component registry (spec §3.2). They are
// not errors: the Drawing is still returned, with a placeholder record
// substituted, per spec §4.3's failure semantics.
type LoadWarning uint32

const (
	MissingMaterialDetected LoadWarning = 1 << iota
	MissingApertureDetected
	MissingProductDetected
	MissingMachineDetected
	MissingDeckDetected
	MissingSideIronDetected
	MissingBackingStripDetected
	MissingStrapDetected
)

// Has reports whether w is set within warnings.
func (warnings LoadWarning) Has(w LoadWarning) bool {
	return warnings&w != 0
}

// Drawing aggregates a manufactured screen-cloth mat: dimensions,
// materials, apertures, side-irons, bars, laps, overlays, machine
// placement (spec §3.2). Serialization is a pure snapshot: it mutates
// nothing on the Drawing.
type Drawing struct {
	DrawingNumber string `validate:"required,drawingnumber"`
	Date          Date

	Width  float32 `validate:"gt=0"`
	Length float32 `validate:"gt=0"`

	Hyperlink string
	Notes     string

	MachineTemplate MachineTemplate

	ProductHandle  registry.Handle
	ApertureHandle registry.Handle

	BackingStripHandle *registry.Handle // optional

	TensionType     TensionType
	Rebated         bool
	HasBackingStrips bool

	PressDrawingHyperlinks []string // < 256 entries

	BarSpacings []float32 // len == numBars+1, sums to Width
	BarWidths   []float32 // len == numBars+2 (margins + numBars widths), all > 0

	LeftSideIron  SideIronInstance
	RightSideIron SideIronInstance
	SideIronExtras SideIronExtras

	// Laps, indexed by Side (0=left, 1=right). A nil entry means no lap.
	Sidelaps [2]*Lap
	Overlaps [2]*Lap

	TopMaterialHandle    registry.Handle
	BottomMaterialHandle *registry.Handle // optional

	ImpactPads     []ImpactPad
	DamBars        []DamBar
	BlankSpaces    []BlankSpace
	ExtraApertures []ExtraAperture
	CentreHoles    []CentreHole
	Deflectors     []Deflector
	Divertors      []Divertor

	LoadWarnings LoadWarning
}

// NumBars returns the bar count implied by BarSpacings (len-1). Callers
// constructing a Drawing must keep BarWidths at NumBars()+2 per the §3.2
// invariant; this is enforced by internal/codec.ValidateDrawing, not by the
// type itself.
func (d *Drawing) NumBars() int {
	if len(d.BarSpacings) == 0 {
		return 0
	}

	return len(d.BarSpacings) - 1
}

// SumBarSpacings adds up BarSpacings; a well-formed Drawing has this equal
// to Width (spec §3.2 invariant, enforced at insert time — see
// internal/codec.ValidateDrawing).
func (d *Drawing) SumBarSpacings() float32 {
	var sum float32
	for _, s := range d.BarSpacings {
		sum += s
	}

	return sum
}
