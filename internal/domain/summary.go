package domain

import "github.com/screenworks/matcat/internal/registry"

// MatID is the database row id of a Drawing (distinct from a component ID:
// it identifies the Drawing itself, not a referenced component).
type MatID uint32

// DrawingSummary is the search-result projection of a Drawing (spec §3.3).
// Widths, lengths, lap sizes, and bar spacings are stored as the true
// millimetre value times 2 (uint32) to carry half-millimetre precision
// without floats. internal/codec's unexported halfMM converts a millimetre
// float to this form; there is no helper for the reverse direction.
type DrawingSummary struct {
	MatID         MatID
	DrawingNumber string

	WidthHalfMM  uint32
	LengthHalfMM uint32

	ApertureHandle registry.Handle

	// ThicknessHandles[1] == 0 means single-layer.
	ThicknessHandles [2]registry.Handle

	// LapSizeHalfMM, indexed per LapSlotIndex; 0 means no lap in that slot.
	LapSizeHalfMM [4]uint32

	// BarSpacingsHalfMM holds all but the implicit trailing spacing, which
	// is width - sum(stored) (spec §3.3).
	BarSpacingsHalfMM []uint32

	ExtraApertureHandles []registry.Handle
}

// LapSlotIndex implements the four-slot assignment rule from spec §3.3:
// index = (side == Right) + 2*(kind mismatches tension type).
//
// A lap kind "matches" the tension type when a sidelap is reported under
// SIDE tension or an overlap is reported under END tension — i.e. when the
// lap runs parallel to the tensioned edge. Any other combination is a
// mismatch and lands in the upper two slots.
func LapSlotIndex(side Side, tension TensionType, kind LapKind) int {
	matches := (kind == LapKindSidelap && tension == TensionSide) ||
		(kind == LapKindOverlap && tension == TensionEnd)

	idx := 0
	if side == SideRight {
		idx += 1
	}

	if !matches {
		idx += 2
	}

	return idx
}
