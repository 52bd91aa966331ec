package recommendation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/paybench/salary-advisor/pkg/errors"
)

func newTestEngine(embedder EmbeddingClient, catalog BenchmarkStore, market MarketDataStore, index LocationIndexStore) *Engine {
	return NewEngine(Config{}, embedder, catalog, market, index, nil)
}

func TestRecommendWithExactLocationRows(t *testing.T) {
	catalog := &stubCatalog{records: []JobRecord{
		jobAtSimilarity("J1", "Engineering", 0.9),
		jobAtSimilarity("J2", "Engineering", 0.8),
	}}
	market := &stubMarket{rows: map[string][]MarketDataRow{
		"J1": {{JobCode: "J1", Location: "Singapore", P25: 8000, P50: 9000, P75: 10500, SampleSize: 40}},
		"J2": {{JobCode: "J2", Location: "Singapore", P25: 8100, P50: 9125, P75: 10400, SampleSize: 25}},
	}}
	index := &stubIndex{entries: map[string]LocationIndexEntry{}}
	engine := newTestEngine(&stubEmbedder{vector: queryVector()}, catalog, market, index)

	rec, err := engine.Recommend(context.Background(), Request{
		JobTitle: "Senior Backend Engineer",
		Location: "Singapore",
	})
	require.NoError(t, err)

	require.InDelta(t, 9058.82, rec.Percentiles.P50, 0.5)
	require.Equal(t, rec.Percentiles.P25, rec.RecommendedRange.Min)
	require.Equal(t, rec.Percentiles.P50, rec.RecommendedRange.Target)
	require.Equal(t, rec.Percentiles.P75, rec.RecommendedRange.Max)

	require.Len(t, rec.MatchedJobs, 2)
	require.Equal(t, "J1", rec.MatchedJobs[0].JobCode)
	require.Equal(t, "J2", rec.MatchedJobs[1].JobCode)

	// Exact rows were used, no adjustment path, full location confidence.
	require.Equal(t, 1.0, rec.Confidence.Factors.LocationConfidence)
}

func TestRecommendAdjustsDefaultRowsByLocationIndex(t *testing.T) {
	catalog := &stubCatalog{records: []JobRecord{jobAtSimilarity("J1", "", 0.9)}}
	market := &stubMarket{rows: map[string][]MarketDataRow{
		"J1": {{JobCode: "J1", P25: 8000, P50: 9500, P75: 11000, SampleSize: 60}},
	}}
	index := &stubIndex{entries: map[string]LocationIndexEntry{
		"penang": {Location: "Penang", IndexMultiplier: 1.05},
	}}
	engine := newTestEngine(&stubEmbedder{vector: queryVector()}, catalog, market, index)

	rec, err := engine.Recommend(context.Background(), Request{JobTitle: "Backend Engineer", Location: "Penang"})
	require.NoError(t, err)
	require.InDelta(t, 8400, rec.Percentiles.P25, 1e-6)
	require.InDelta(t, 9975, rec.Percentiles.P50, 1e-6)
	require.InDelta(t, 11550, rec.Percentiles.P75, 1e-6)
	require.Equal(t, 0.6, rec.Confidence.Factors.LocationConfidence)
}

func TestRecommendUnknownLocationKeepsBaselineNumbers(t *testing.T) {
	catalog := &stubCatalog{records: []JobRecord{jobAtSimilarity("J1", "", 0.9)}}
	market := &stubMarket{rows: map[string][]MarketDataRow{
		"J1": {{JobCode: "J1", P25: 8000, P50: 9500, P75: 11000, SampleSize: 60}},
	}}
	index := &stubIndex{entries: map[string]LocationIndexEntry{}}
	engine := newTestEngine(&stubEmbedder{vector: queryVector()}, catalog, market, index)

	rec, err := engine.Recommend(context.Background(), Request{JobTitle: "Backend Engineer", Location: "Atlantis"})
	require.NoError(t, err)
	require.Equal(t, Percentiles{P25: 8000, P50: 9500, P75: 11000}, rec.Percentiles)
	require.Equal(t, 0.3, rec.Confidence.Factors.LocationConfidence)
}

func TestRecommendNoMatchFound(t *testing.T) {
	catalog := &stubCatalog{records: []JobRecord{jobAtSimilarity("J1", "", 0.2)}}
	engine := newTestEngine(&stubEmbedder{vector: queryVector()}, catalog, &stubMarket{}, &stubIndex{})

	_, err := engine.Recommend(context.Background(), Request{JobTitle: "Chief Unicorn Wrangler"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "no_match_found"))
}

func TestRecommendRejectsMissingTitle(t *testing.T) {
	engine := newTestEngine(&stubEmbedder{vector: queryVector()}, &stubCatalog{}, &stubMarket{}, &stubIndex{})

	_, err := engine.Recommend(context.Background(), Request{JobTitle: "   "})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_query"))
}

func TestRecommendRejectsOverlongTitle(t *testing.T) {
	engine := newTestEngine(&stubEmbedder{vector: queryVector()}, &stubCatalog{}, &stubMarket{}, &stubIndex{})

	long := make([]byte, maxJobTitleLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := engine.Recommend(context.Background(), Request{JobTitle: string(long)})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_query"))
}

func TestRecommendSlowEmbedderTimesOut(t *testing.T) {
	embedder := &stubEmbedder{vector: queryVector(), delay: 500 * time.Millisecond}
	catalog := &stubCatalog{records: []JobRecord{jobAtSimilarity("J1", "", 0.9)}}
	engine := NewEngine(Config{
		MatchTimeout:   20 * time.Millisecond,
		OverallTimeout: 100 * time.Millisecond,
	}, embedder, catalog, &stubMarket{}, &stubIndex{}, nil)

	_, err := engine.Recommend(context.Background(), Request{JobTitle: "Backend Engineer"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "timeout"))
}

func TestRecommendIsDeterministic(t *testing.T) {
	catalog := &stubCatalog{records: []JobRecord{
		jobAtSimilarity("J1", "", 0.9),
		jobAtSimilarity("J2", "", 0.8),
		jobAtSimilarity("J3", "", 0.85),
	}}
	market := &stubMarket{rows: map[string][]MarketDataRow{
		"J1": {{JobCode: "J1", P25: 8000, P50: 9000, P75: 10500, SampleSize: 40}},
		"J2": {{JobCode: "J2", P25: 8100, P50: 9125, P75: 10400, SampleSize: 25}},
		"J3": {{JobCode: "J3", P25: 7800, P50: 8900, P75: 10000, SampleSize: 33}},
	}}
	engine := newTestEngine(&stubEmbedder{vector: queryVector()}, catalog, market, &stubIndex{entries: map[string]LocationIndexEntry{}})

	req := Request{JobTitle: "Backend Engineer", Location: "Singapore"}
	first, err := engine.Recommend(context.Background(), req)
	require.NoError(t, err)
	second, err := engine.Recommend(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRecommendMixedRowsStillAdjusts(t *testing.T) {
	// One match resolves to an exact row, the other to the default row. The
	// adjustment applies because a default row fed the aggregate, and the
	// exact row still earns full location confidence.
	catalog := &stubCatalog{records: []JobRecord{
		jobAtSimilarity("J1", "", 0.9),
		jobAtSimilarity("J2", "", 0.9),
	}}
	market := &stubMarket{rows: map[string][]MarketDataRow{
		"J1": {{JobCode: "J1", Location: "Penang", P25: 8000, P50: 9000, P75: 10000, SampleSize: 40}},
		"J2": {{JobCode: "J2", P25: 8000, P50: 9000, P75: 10000, SampleSize: 20}},
	}}
	index := &stubIndex{entries: map[string]LocationIndexEntry{
		"penang": {Location: "Penang", IndexMultiplier: 1.1},
	}}
	engine := newTestEngine(&stubEmbedder{vector: queryVector()}, catalog, market, index)

	rec, err := engine.Recommend(context.Background(), Request{JobTitle: "Backend Engineer", Location: "Penang"})
	require.NoError(t, err)
	require.InDelta(t, 9900, rec.Percentiles.P50, 1e-6)
	require.Equal(t, 1.0, rec.Confidence.Factors.LocationConfidence)
}
