package domain

import "github.com/screenworks/matcat/internal/registry"

// SideIronInstance is one side (left or right) of a Drawing's pair of side
// irons: the metal edge component attached along the tension direction of
// the mat (GLOSSARY).
type SideIronInstance struct {
	Handle   registry.Handle
	Inverted bool
	CutDown  bool
}

// SideIronExtras holds the Drawing-wide optional side-iron fields from
// spec §4.3 step 13, each independently present/absent on the wire via its
// own presence byte. A nil pointer means absent.
type SideIronExtras struct {
	FeedEnd              *uint8
	LeftEnding           *uint8
	RightEnding          *uint8
	LeftHookOrientation  *uint8
	RightHookOrientation *uint8
	LeftStrapHandle      *registry.Handle
	RightStrapHandle     *registry.Handle
}
