package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenworks/matcat/internal/codec"
	"github.com/screenworks/matcat/internal/domain"
	"github.com/screenworks/matcat/internal/protocol"
	"github.com/screenworks/matcat/internal/registry"
)

func testMaxima() codec.SummaryMaxima {
	return codec.SummaryMaxima{
		MaxMatID:               10000,
		MaxWidthMM:             5000,
		MaxLengthMM:            10000,
		MaxThicknessHandle:     64,
		MaxLapSizeMM:           200,
		MaxApertureHandle:      64,
		MaxBarSpacingCount:     16,
		MaxBarSpacingMM:        5000,
		MaxDrawingNumberLength: 32,
		MaxExtraApertureCount:  8,
	}
}

func TestSearchResultsRoundTrip(t *testing.T) {
	summaries := []*domain.DrawingSummary{
		{
			MatID:             101,
			DrawingNumber:     "A01",
			WidthHalfMM:       2000,
			LengthHalfMM:      4000,
			ApertureHandle:    registry.Handle(3),
			ThicknessHandles:  [2]registry.Handle{1, 0},
			BarSpacingsHalfMM: []uint32{1000, 1000},
		},
		{
			MatID:             102,
			DrawingNumber:     "A02",
			WidthHalfMM:       1500,
			LengthHalfMM:      3000,
			ApertureHandle:    registry.Handle(4),
			ThicknessHandles:  [2]registry.Handle{2, 5},
			LapSizeHalfMM:     [4]uint32{60, 0, 0, 0},
			BarSpacingsHalfMM: []uint32{1500},
		},
	}

	r := &protocol.SearchResults{Maxima: testMaxima(), Summaries: summaries}
	buf := protocol.Pack(r)
	assert.EqualValues(t, len(buf), r.SerializedSize())

	got, err := protocol.DeserializeSearchResults(domainReader(t, buf))
	require.NoError(t, err)
	require.Len(t, got.Summaries, 2)
	assert.Equal(t, summaries[0].DrawingNumber, got.Summaries[0].DrawingNumber)
	assert.Equal(t, summaries[0].WidthHalfMM, got.Summaries[0].WidthHalfMM)
	assert.Equal(t, summaries[1].ThicknessHandles, got.Summaries[1].ThicknessHandles)
	assert.Equal(t, summaries[1].LapSizeHalfMM[0], got.Summaries[1].LapSizeHalfMM[0])
}

func TestSearchResultsEmpty(t *testing.T) {
	r := &protocol.SearchResults{Maxima: testMaxima()}
	buf := protocol.Pack(r)

	got, err := protocol.DeserializeSearchResults(domainReader(t, buf))
	require.NoError(t, err)
	assert.Empty(t, got.Summaries)
}
