// Package protocol implements the request/response envelope codec (spec
// §4.5, §4.6): the RequestType-tagged body schema for each request kind,
// and the response dispatch that routes a decoded body to the caller's
// echo-code-keyed callback.
package protocol

import "github.com/screenworks/matcat/internal/codec"

// RequestType is the stable u32 tag every request/response body begins
// with (spec §3.4, §6).
type RequestType uint32

const (
	DrawingSearchQuery RequestType = iota + 1
	DrawingDetails
	DrawingInsert
	AddNewComponent
	CreateDatabaseBackup
	GetNextDrawingNumber
	RepeatTokenRequest
	UserEmailRequest

	SourceMaterialsTable
	SourceAperturesTable
	SourceProductsTable
	SourceSideIronsTable
	SourceMachinesTable
	SourceMachineDecksTable
	SourceApertureShapesTable
	SourceBackingStripsTable
	SourceStrapsTable
	SourceSideIronPricesTable
	SourceExtraPricesTable
	SourcePowderCoatingPricesTable
	SourceLabourTimesTable
)

const TagSize = 4 // RequestType serializes as a raw u32

// Envelope is implemented by every request/response body (spec §4.5's
// "abstract base offering serialized_size, serialize, and an alloc-and-pack
// helper").
type Envelope interface {
	Tag() RequestType
	SerializedSize() uint32
	Serialize(buf []byte)
}

// Pack is the "alloc and pack" helper: it allocates a buffer sized exactly
// to e.SerializedSize() and serializes e into it.
func Pack(e Envelope) []byte {
	buf := make([]byte, e.SerializedSize())
	e.Serialize(buf)

	return buf
}

func writeTag(w *codec.Writer, tag RequestType) {
	w.WriteU32(uint32(tag))
}

func readTag(r *codec.Reader) (RequestType, error) {
	v, err := r.ReadU32()
	return RequestType(v), err
}
