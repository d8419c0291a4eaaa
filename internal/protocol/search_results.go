package protocol

import (
	"github.com/screenworks/matcat/internal/codec"
	"github.com/screenworks/matcat/internal/domain"
)

// SearchResults is the DRAWING_SEARCH_QUERY response body: a SummaryMaxima
// header sizing the compression schema, a u32 record count, then that many
// compressed DrawingSummary records back to back (spec §4.4, §4.6 — "reads a
// compression schema header, then N compressed summaries, reconstructing a
// search-results model").
type SearchResults struct {
	Maxima    codec.SummaryMaxima
	Summaries []*domain.DrawingSummary
}

func (r *SearchResults) Tag() RequestType { return DrawingSearchQuery }

func (r *SearchResults) SerializedSize() uint32 {
	schema := codec.NewSummarySchema(r.Maxima)
	n := uint32(TagSize) + codec.SummaryMaximaSize + 4

	for _, s := range r.Summaries {
		n += schema.CompressedSize(s)
	}

	return n
}

func (r *SearchResults) Serialize(buf []byte) {
	schema := codec.NewSummarySchema(r.Maxima)

	w := codec.NewWriter(buf)
	writeTag(w, r.Tag())
	codec.SerializeSummaryMaxima(r.Maxima, w)
	w.WriteU32(uint32(len(r.Summaries)))

	pos := w.Pos()
	for _, s := range r.Summaries {
		packed := codec.Compress(s, schema)
		pos += copy(buf[pos:], packed)
	}
}

// DeserializeSearchResults reads a SearchResults body (tag already
// consumed).
func DeserializeSearchResults(r *codec.Reader) (*SearchResults, error) {
	maxima, err := codec.DeserializeSummaryMaxima(r)
	if err != nil {
		return nil, err
	}

	schema := codec.NewSummarySchema(maxima)

	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.DrawingSummary, count)

	for i := range summaries {
		s, consumed, err := codec.Decompress(r.Rest(), schema)
		if err != nil {
			return nil, err
		}

		if err := r.Advance(consumed); err != nil {
			return nil, err
		}

		summaries[i] = s
	}

	return &SearchResults{Maxima: maxima, Summaries: summaries}, nil
}
