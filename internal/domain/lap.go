package domain

import "github.com/screenworks/matcat/internal/registry"

// Attachment is how a Lap is joined to the base mat.
type Attachment uint8

const (
	AttachmentIntegral Attachment = iota
	AttachmentBonded
)

// Side names a left/right position on a Drawing.
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

// LapKind distinguishes a sidelap from an overlap for the purposes of the
// DrawingSummary slot-assignment rule (spec §3.3).
type LapKind uint8

const (
	LapKindSidelap LapKind = iota
	LapKindOverlap
)

// Lap is an overlap or sidelap: a strip of material extending beyond the
// base dimensions on one side of the mat (GLOSSARY). A Drawing's
// sidelaps/overlaps fields are each a [left, right] pair of *Lap — a nil
// entry means no lap on that side.
type Lap struct {
	Width          float32
	Attachment     Attachment
	MaterialHandle registry.Handle
}
