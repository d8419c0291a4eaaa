package codec

import (
	"math"

	"github.com/screenworks/matcat/internal/bitio"
	"github.com/screenworks/matcat/internal/domain"
	"github.com/screenworks/matcat/internal/registry"
	"github.com/screenworks/matcat/pkg/merrors"
)

// SummaryMaxima is the construction input for a SummarySchema: the maximum
// value each DrawingSummary field can take, from which per-field bit
// widths are derived (spec §4.4). Millimetre fields are given as their true
// float value; the schema scales them ×2 internally to match the half-mm
// integer encoding DrawingSummary itself uses.
type SummaryMaxima struct {
	MaxMatID               uint32
	MaxWidthMM             float32
	MaxLengthMM            float32
	MaxThicknessHandle     uint32
	MaxLapSizeMM           float32
	MaxApertureHandle      uint32
	MaxBarSpacingCount     uint32
	MaxBarSpacingMM        float32
	MaxDrawingNumberLength uint32
	MaxExtraApertureCount  uint32
}

func halfMM(v float32) uint64 {
	return uint64(math.Round(float64(v) * 2))
}

// SummarySchema derives bit widths from a SummaryMaxima and packs/unpacks
// DrawingSummary records against those widths (spec §4.4).
type SummarySchema struct {
	maxima SummaryMaxima

	matIDBits              int
	widthBits              int
	lengthBits             int
	apertureHandleBits     int
	thicknessHandleBits    int
	lapSizeBits            int
	barSpacingCountBits    int
	barSpacingBits         int
	extraApertureCountBits int
}

// NewSummarySchema computes bits_needed = ceil(log2(M+1)) for every field of m.
func NewSummarySchema(m SummaryMaxima) *SummarySchema {
	return &SummarySchema{
		maxima:                 m,
		matIDBits:              bitio.BitsNeeded(uint64(m.MaxMatID)),
		widthBits:              bitio.BitsNeeded(halfMM(m.MaxWidthMM)),
		lengthBits:             bitio.BitsNeeded(halfMM(m.MaxLengthMM)),
		apertureHandleBits:     bitio.BitsNeeded(uint64(m.MaxApertureHandle)),
		thicknessHandleBits:    bitio.BitsNeeded(uint64(m.MaxThicknessHandle)),
		lapSizeBits:            bitio.BitsNeeded(halfMM(m.MaxLapSizeMM)),
		barSpacingCountBits:    bitio.BitsNeeded(uint64(m.MaxBarSpacingCount)),
		barSpacingBits:         bitio.BitsNeeded(halfMM(m.MaxBarSpacingMM)),
		extraApertureCountBits: bitio.BitsNeeded(uint64(m.MaxExtraApertureCount)),
	}
}

// SummaryMaximaSize is the fixed wire size of a SummaryMaxima header: ten
// u32/f32 words (spec §4.4 — "the server transmits the schema followed by a
// count then N packed records").
const SummaryMaximaSize = 40

// SerializeSummaryMaxima writes m as the ten fixed-width header fields that
// precede a stream of compressed summaries.
func SerializeSummaryMaxima(m SummaryMaxima, w *Writer) {
	w.WriteU32(m.MaxMatID)
	w.WriteF32(m.MaxWidthMM)
	w.WriteF32(m.MaxLengthMM)
	w.WriteU32(m.MaxThicknessHandle)
	w.WriteF32(m.MaxLapSizeMM)
	w.WriteU32(m.MaxApertureHandle)
	w.WriteU32(m.MaxBarSpacingCount)
	w.WriteF32(m.MaxBarSpacingMM)
	w.WriteU32(m.MaxDrawingNumberLength)
	w.WriteU32(m.MaxExtraApertureCount)
}

// DeserializeSummaryMaxima reads the header SerializeSummaryMaxima writes.
func DeserializeSummaryMaxima(r *Reader) (SummaryMaxima, error) {
	var m SummaryMaxima

	var err error

	if m.MaxMatID, err = r.ReadU32(); err != nil {
		return m, err
	}

	if m.MaxWidthMM, err = r.ReadF32(); err != nil {
		return m, err
	}

	if m.MaxLengthMM, err = r.ReadF32(); err != nil {
		return m, err
	}

	if m.MaxThicknessHandle, err = r.ReadU32(); err != nil {
		return m, err
	}

	if m.MaxLapSizeMM, err = r.ReadF32(); err != nil {
		return m, err
	}

	if m.MaxApertureHandle, err = r.ReadU32(); err != nil {
		return m, err
	}

	if m.MaxBarSpacingCount, err = r.ReadU32(); err != nil {
		return m, err
	}

	if m.MaxBarSpacingMM, err = r.ReadF32(); err != nil {
		return m, err
	}

	if m.MaxDrawingNumberLength, err = r.ReadU32(); err != nil {
		return m, err
	}

	if m.MaxExtraApertureCount, err = r.ReadU32(); err != nil {
		return m, err
	}

	return m, nil
}

// numLapSlots returns the index of the last nonzero lap slot + 1 — trailing
// zero slots are dropped per spec §4.4's lap-slot contract.
func numLapSlots(lapSizes [4]uint32) int {
	n := 0
	for i, v := range lapSizes {
		if v != 0 {
			n = i + 1
		}
	}

	return n
}

// totalBits computes the exact bit-packed payload length for s (everything
// after the unpacked drawing_number preamble), per spec §4.4 steps 2-14.
func (schema *SummarySchema) totalBits(s *domain.DrawingSummary) int {
	n := schema.matIDBits + schema.widthBits + schema.lengthBits + schema.apertureHandleBits

	n += schema.thicknessHandleBits // thickness_handle[0]
	n++                             // has_two_layers

	hasTwoLayers := s.ThicknessHandles[1] != registry.InvalidHandle
	if hasTwoLayers {
		n += schema.thicknessHandleBits
	}

	n += 3 // num_laps (0..4 fits in 3 bits)
	n += numLapSlots(s.LapSizeHalfMM) * schema.lapSizeBits

	n += schema.barSpacingCountBits
	n += len(s.BarSpacingsHalfMM) * schema.barSpacingBits

	n += schema.extraApertureCountBits
	n += len(s.ExtraApertureHandles) * schema.apertureHandleBits

	return n
}

// CompressedSize returns the exact byte length compress(s) would produce.
func (schema *SummarySchema) CompressedSize(s *domain.DrawingSummary) uint32 {
	return stringFieldSize(s.DrawingNumber) + uint32(bitio.BytesForBits(schema.totalBits(s)))
}

// MaxCompressedSize returns the largest byte length any summary built
// against this schema's maxima could compress to.
func (schema *SummarySchema) MaxCompressedSize() uint32 {
	m := schema.maxima

	bits := schema.matIDBits + schema.widthBits + schema.lengthBits + schema.apertureHandleBits
	bits += schema.thicknessHandleBits + 1 + schema.thicknessHandleBits
	bits += 3 + 4*schema.lapSizeBits
	bits += schema.barSpacingCountBits + int(m.MaxBarSpacingCount)*schema.barSpacingBits
	bits += schema.extraApertureCountBits + int(m.MaxExtraApertureCount)*schema.apertureHandleBits

	return 1 + m.MaxDrawingNumberLength + uint32(bitio.BytesForBits(bits))
}

// bitWriter packs fixed-bit-width fields sequentially into a byte buffer
// sized with one guard byte beyond the payload, since bitio.WriteAtBitOffset
// OR-merges a full value-sized byte even for a field narrower than 8 bits —
// safe mid-stream (the next field's write corrects the spilled zero bits),
// but the very last field needs the guard byte to exist at all.
type bitWriter struct {
	buf    []byte
	bitPos int
}

func newBitWriter(totalBits int) *bitWriter {
	return &bitWriter{buf: make([]byte, bitio.BytesForBits(totalBits)+1)}
}

func (w *bitWriter) writeBits(value uint64, bits int) {
	if bits == 0 {
		return
	}

	n := bitio.BytesForBits(bits)
	vb := make([]byte, n)

	for i := 0; i < n; i++ {
		vb[i] = byte(value >> uint(8*i))
	}

	bitio.WriteAtBitOffset(vb, n, w.buf, w.bitPos)
	w.bitPos += bits
}

// bitReader unpacks fixed-bit-width fields sequentially, bounds-checking
// against the true bit budget before every read (spec §7: a truncated
// buffer must surface as an error, never a panic).
type bitReader struct {
	buf    []byte
	bitPos int
}

func newBitReader(buf []byte) *bitReader {
	return &bitReader{buf: buf}
}

func (r *bitReader) readBits(bits int) (uint64, error) {
	if bits == 0 {
		return 0, nil
	}

	if bits > len(r.buf)*8-r.bitPos {
		return 0, merrors.NewDeserializationError("DrawingSummary", "truncated buffer")
	}

	n := bitio.BytesForBits(bits)
	tmp := make([]byte, n)
	bitio.ReadFromBitOffset(r.buf, r.bitPos, tmp, bits)

	var v uint64
	for i := 0; i < n; i++ {
		v |= uint64(tmp[i]) << uint(8*i)
	}

	r.bitPos += bits

	return v, nil
}

// Compress packs s against schema into its compressed wire form.
func Compress(s *domain.DrawingSummary, schema *SummarySchema) []byte {
	totalBits := schema.totalBits(s)

	preamble := NewWriter(make([]byte, stringFieldSize(s.DrawingNumber)))
	preamble.WriteString(s.DrawingNumber)

	bw := newBitWriter(totalBits)

	bw.writeBits(uint64(s.MatID), schema.matIDBits)
	bw.writeBits(uint64(s.WidthHalfMM), schema.widthBits)
	bw.writeBits(uint64(s.LengthHalfMM), schema.lengthBits)
	bw.writeBits(uint64(s.ApertureHandle), schema.apertureHandleBits)
	bw.writeBits(uint64(s.ThicknessHandles[0]), schema.thicknessHandleBits)

	hasTwoLayers := s.ThicknessHandles[1] != registry.InvalidHandle
	if hasTwoLayers {
		bw.writeBits(1, 1)
		bw.writeBits(uint64(s.ThicknessHandles[1]), schema.thicknessHandleBits)
	} else {
		bw.writeBits(0, 1)
	}

	numLaps := numLapSlots(s.LapSizeHalfMM)
	bw.writeBits(uint64(numLaps), 3)

	for i := 0; i < numLaps; i++ {
		bw.writeBits(uint64(s.LapSizeHalfMM[i]), schema.lapSizeBits)
	}

	bw.writeBits(uint64(len(s.BarSpacingsHalfMM)), schema.barSpacingCountBits)
	for _, v := range s.BarSpacingsHalfMM {
		bw.writeBits(uint64(v), schema.barSpacingBits)
	}

	bw.writeBits(uint64(len(s.ExtraApertureHandles)), schema.extraApertureCountBits)
	for _, h := range s.ExtraApertureHandles {
		bw.writeBits(uint64(h), schema.apertureHandleBits)
	}

	packed := bw.buf[:bitio.BytesForBits(totalBits)]

	out := make([]byte, 0, len(preamble.Bytes())+len(packed))
	out = append(out, preamble.Bytes()...)
	out = append(out, packed...)

	return out
}

// Decompress unpacks a compressed summary from buf, returning the summary
// and the number of bytes consumed.
func Decompress(buf []byte, schema *SummarySchema) (*domain.DrawingSummary, int, error) {
	pr := NewReader(buf)

	drawingNumber, err := pr.ReadString()
	if err != nil {
		return nil, 0, err
	}

	preambleLen := pr.Pos()

	br := newBitReader(buf[preambleLen:])
	s := &domain.DrawingSummary{DrawingNumber: drawingNumber}

	matID, err := br.readBits(schema.matIDBits)
	if err != nil {
		return nil, 0, err
	}

	s.MatID = domain.MatID(matID)

	width, err := br.readBits(schema.widthBits)
	if err != nil {
		return nil, 0, err
	}

	s.WidthHalfMM = uint32(width)

	length, err := br.readBits(schema.lengthBits)
	if err != nil {
		return nil, 0, err
	}

	s.LengthHalfMM = uint32(length)

	aperture, err := br.readBits(schema.apertureHandleBits)
	if err != nil {
		return nil, 0, err
	}

	s.ApertureHandle = registry.Handle(aperture)

	thickness0, err := br.readBits(schema.thicknessHandleBits)
	if err != nil {
		return nil, 0, err
	}

	s.ThicknessHandles[0] = registry.Handle(thickness0)

	hasTwoLayers, err := br.readBits(1)
	if err != nil {
		return nil, 0, err
	}

	if hasTwoLayers != 0 {
		thickness1, err := br.readBits(schema.thicknessHandleBits)
		if err != nil {
			return nil, 0, err
		}

		s.ThicknessHandles[1] = registry.Handle(thickness1)
	}

	numLaps, err := br.readBits(3)
	if err != nil {
		return nil, 0, err
	}

	for i := 0; i < int(numLaps); i++ {
		v, err := br.readBits(schema.lapSizeBits)
		if err != nil {
			return nil, 0, err
		}

		s.LapSizeHalfMM[i] = uint32(v)
	}

	numBarSpacings, err := br.readBits(schema.barSpacingCountBits)
	if err != nil {
		return nil, 0, err
	}

	s.BarSpacingsHalfMM = make([]uint32, numBarSpacings)
	for i := range s.BarSpacingsHalfMM {
		v, err := br.readBits(schema.barSpacingBits)
		if err != nil {
			return nil, 0, err
		}

		s.BarSpacingsHalfMM[i] = uint32(v)
	}

	extraCount, err := br.readBits(schema.extraApertureCountBits)
	if err != nil {
		return nil, 0, err
	}

	s.ExtraApertureHandles = make([]registry.Handle, extraCount)
	for i := range s.ExtraApertureHandles {
		v, err := br.readBits(schema.apertureHandleBits)
		if err != nil {
			return nil, 0, err
		}

		s.ExtraApertureHandles[i] = registry.Handle(v)
	}

	consumed := preambleLen + bitio.BytesForBits(br.bitPos)

	return s, consumed, nil
}
