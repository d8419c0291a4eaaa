package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/codec"
	"github.com/screenworks/matcat/internal/domain"
	"github.com/screenworks/matcat/internal/registry"
)

func testSchema() *codec.SummarySchema {
	return codec.NewSummarySchema(codec.SummaryMaxima{
		MaxMatID:               10000,
		MaxWidthMM:             5000.0,
		MaxLengthMM:            10000.0,
		MaxThicknessHandle:     200,
		MaxLapSizeMM:           500.0,
		MaxApertureHandle:      2000,
		MaxBarSpacingCount:     10,
		MaxBarSpacingMM:        500.0,
		MaxDrawingNumberLength: 8,
		MaxExtraApertureCount:  4,
	})
}

// Scenario 3 (spec §8): compression round-trip under 20 bytes.
func TestSummaryCompressRoundTripScenario3(t *testing.T) {
	schema := testSchema()

	s := &domain.DrawingSummary{
		MatID:             42,
		DrawingNumber:     "A01",
		WidthHalfMM:       2000, // 1000.0mm
		LengthHalfMM:      4000, // 2000.0mm
		ApertureHandle:    5,
		ThicknessHandles:  [2]registry.Handle{17, 0},
		BarSpacingsHalfMM: []uint32{500, 500, 1000},
	}

	compressed := codec.Compress(s, schema)
	assert.Less(t, len(compressed), 20)
	assert.EqualValues(t, schema.CompressedSize(s), len(compressed))

	got, consumed, err := codec.Decompress(compressed, schema)
	require.NoError(t, err)
	assert.Equal(t, len(compressed), consumed)
	assert.Equal(t, s.MatID, got.MatID)
	assert.Equal(t, s.DrawingNumber, got.DrawingNumber)
	assert.Equal(t, s.WidthHalfMM, got.WidthHalfMM)
	assert.Equal(t, s.LengthHalfMM, got.LengthHalfMM)
	assert.Equal(t, s.ApertureHandle, got.ApertureHandle)
	assert.Equal(t, s.ThicknessHandles, got.ThicknessHandles)
	assert.Equal(t, s.BarSpacingsHalfMM, got.BarSpacingsHalfMM)
}

func TestSummaryCompressRoundTripTwoLayersAndLaps(t *testing.T) {
	schema := testSchema()

	s := &domain.DrawingSummary{
		MatID:             1,
		DrawingNumber:     "M100",
		WidthHalfMM:       1000,
		LengthHalfMM:      2000,
		ApertureHandle:    9,
		ThicknessHandles:  [2]registry.Handle{3, 4},
		LapSizeHalfMM:     [4]uint32{100, 0, 50, 0},
		BarSpacingsHalfMM: []uint32{200},
		ExtraApertureHandles: []registry.Handle{11, 12},
	}

	compressed := codec.Compress(s, schema)

	got, consumed, err := codec.Decompress(compressed, schema)
	require.NoError(t, err)
	assert.Equal(t, len(compressed), consumed)
	assert.Equal(t, s.ThicknessHandles, got.ThicknessHandles)
	assert.Equal(t, s.LapSizeHalfMM, got.LapSizeHalfMM)
	assert.Equal(t, s.ExtraApertureHandles, got.ExtraApertureHandles)
}

func TestSummaryCompressDropsTrailingZeroLapSlots(t *testing.T) {
	schema := testSchema()

	// Only slot 0 is nonzero; slots 1-3 must be dropped from the wire, not
	// merely zero-valued, per spec §4.4's trailing-zero-slot rule.
	s := &domain.DrawingSummary{
		DrawingNumber: "A02",
		LapSizeHalfMM: [4]uint32{50, 0, 0, 0},
	}

	compressed := codec.Compress(s, schema)
	got, _, err := codec.Decompress(compressed, schema)
	require.NoError(t, err)
	assert.Equal(t, s.LapSizeHalfMM, got.LapSizeHalfMM)
}

func TestSummaryCompressedSizeNeverExceedsMax(t *testing.T) {
	schema := testSchema()

	s := &domain.DrawingSummary{
		MatID:                10000,
		DrawingNumber:        "MAXLEN01",
		WidthHalfMM:          10000,
		LengthHalfMM:         20000,
		ApertureHandle:       2000,
		ThicknessHandles:     [2]registry.Handle{200, 200},
		LapSizeHalfMM:        [4]uint32{1000, 1000, 1000, 1000},
		BarSpacingsHalfMM:    []uint32{1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000},
		ExtraApertureHandles: []registry.Handle{2000, 2000, 2000, 2000},
	}

	assert.LessOrEqual(t, schema.CompressedSize(s), schema.MaxCompressedSize())
}

func TestSummaryDecompressTruncatedErrors(t *testing.T) {
	schema := testSchema()

	s := &domain.DrawingSummary{DrawingNumber: "A01", MatID: 42}
	compressed := codec.Compress(s, schema)

	_, _, err := codec.Decompress(compressed[:len(compressed)-1], schema)
	assert.Error(t, err)
}
