package domain

import "github.com/screenworks/matcat/internal/registry"

// Addon sub-entities attached to a Drawing's plan (GLOSSARY). Each defines
// its own codec in internal/codec; layouts are fixed by spec §4.2.

// ImpactPad: x,y,w,l:f32 | material_handle:u32 | aperture_handle:u32 (24B).
type ImpactPad struct {
	X, Y, Width, Length float32
	MaterialHandle      registry.Handle
	ApertureHandle      registry.Handle
}

// CentreHole: x,y,shape_w,shape_l:f32 | rounded:u8.
type CentreHole struct {
	X, Y, ShapeWidth, ShapeLength float32
	Rounded                       bool
}

// Deflector: x,y,size:f32 | material_handle:u32.
type Deflector struct {
	X, Y, Size     float32
	MaterialHandle registry.Handle
}

// Divertor: side:u8 | vertical_position,width,length:f32 | material_handle:u32.
type Divertor struct {
	Side             Side
	VerticalPosition float32
	Width            float32
	Length           float32
	MaterialHandle   registry.Handle
}

// DamBar: geometry-first, followed by the material it's cut from.
type DamBar struct {
	X, Y, Width, Length float32
	MaterialHandle      registry.Handle
}

// BlankSpace: pure geometry, no associated component.
type BlankSpace struct {
	X, Y, Width, Length float32
}

// ExtraAperture: geometry plus the aperture shape it punches.
type ExtraAperture struct {
	X, Y, Width, Length float32
	ApertureHandle      registry.Handle
}
