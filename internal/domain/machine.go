package domain

import "github.com/screenworks/matcat/internal/registry"

// MachineTemplate places a Drawing on a machine deck (spec §3.2).
// Position matches `(^$)|(^[0-9]+(-[0-9]+)?$)|(^AL{2}$)`, enforced via
// pkg/validate's "machineposition" tag wherever a MachineTemplate is
// constructed from user input.
type MachineTemplate struct {
	MachineHandle   registry.Handle
	QuantityOnDeck  uint32
	Position        string `validate:"machineposition"`
	DeckHandle      registry.Handle
}
