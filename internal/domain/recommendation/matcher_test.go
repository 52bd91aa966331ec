package recommendation

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/paybench/salary-advisor/pkg/errors"
)

type stubEmbedder struct {
	vector []float32
	err    error
	delay  time.Duration
	calls  int
}

func (s *stubEmbedder) Embed(ctx context.Context, _ string) ([]float32, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.vector, nil
}

type stubCatalog struct {
	records []JobRecord
	err     error
}

func (s *stubCatalog) List(_ context.Context, familyFilter string) ([]JobRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	if familyFilter == "" {
		return s.records, nil
	}
	filtered := make([]JobRecord, 0, len(s.records))
	for _, record := range s.records {
		if strings.EqualFold(record.JobFamily, familyFilter) {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

// jobAtSimilarity returns a catalog job whose cosine similarity against the
// unit query vector {1, 0} is exactly sim.
func jobAtSimilarity(code, family string, sim float64) JobRecord {
	return JobRecord{
		JobCode:   code,
		Title:     "Job " + code,
		JobFamily: family,
		Embedding: []float32{float32(sim), float32(math.Sqrt(1 - sim*sim))},
	}
}

func queryVector() []float32 {
	return []float32{1, 0}
}

func newTestMatcher(embedder EmbeddingClient, catalog BenchmarkStore) *JobMatcher {
	return NewJobMatcher(Config{}, embedder, catalog, nil)
}

func TestFindMatchesOrdersByDescendingSimilarity(t *testing.T) {
	catalog := &stubCatalog{records: []JobRecord{
		jobAtSimilarity("J2", "", 0.80),
		jobAtSimilarity("J1", "", 0.95),
		jobAtSimilarity("J3", "", 0.90),
	}}
	matcher := newTestMatcher(&stubEmbedder{vector: queryVector()}, catalog)

	matches, err := matcher.FindMatches(context.Background(), MatchParams{QueryText: "backend engineer"})
	require.NoError(t, err)
	require.Len(t, matches, 3)
	require.Equal(t, "J1", matches[0].Job.JobCode)
	require.Equal(t, "J3", matches[1].Job.JobCode)
	require.Equal(t, "J2", matches[2].Job.JobCode)
	require.InDelta(t, 0.95, matches[0].SimilarityScore, 1e-3)
}

func TestFindMatchesBreaksTiesByJobCode(t *testing.T) {
	catalog := &stubCatalog{records: []JobRecord{
		jobAtSimilarity("J9", "", 0.9),
		jobAtSimilarity("J1", "", 0.9),
		jobAtSimilarity("J5", "", 0.9),
	}}
	matcher := newTestMatcher(&stubEmbedder{vector: queryVector()}, catalog)

	matches, err := matcher.FindMatches(context.Background(), MatchParams{QueryText: "data analyst"})
	require.NoError(t, err)
	require.Len(t, matches, 3)
	require.Equal(t, "J1", matches[0].Job.JobCode)
	require.Equal(t, "J5", matches[1].Job.JobCode)
	require.Equal(t, "J9", matches[2].Job.JobCode)
}

func TestFindMatchesBelowThresholdIsEmptyNotError(t *testing.T) {
	catalog := &stubCatalog{records: []JobRecord{
		jobAtSimilarity("J1", "", 0.3),
		jobAtSimilarity("J2", "", 0.5),
	}}
	matcher := newTestMatcher(&stubEmbedder{vector: queryVector()}, catalog)

	matches, err := matcher.FindMatches(context.Background(), MatchParams{QueryText: "underwater basket weaver"})
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestFindMatchesTruncatesToTopK(t *testing.T) {
	records := make([]JobRecord, 0, 8)
	for i := 0; i < 8; i++ {
		records = append(records, jobAtSimilarity(string(rune('A'+i)), "", 0.75+float64(i)*0.02))
	}
	matcher := newTestMatcher(&stubEmbedder{vector: queryVector()}, &stubCatalog{records: records})

	matches, err := matcher.FindMatches(context.Background(), MatchParams{QueryText: "engineer", TopK: 3})
	require.NoError(t, err)
	require.Len(t, matches, 3)
	for i := 1; i < len(matches); i++ {
		require.GreaterOrEqual(t, matches[i-1].SimilarityScore, matches[i].SimilarityScore)
	}
}

func TestFindMatchesAppliesFamilyFilter(t *testing.T) {
	catalog := &stubCatalog{records: []JobRecord{
		jobAtSimilarity("ENG1", "Engineering", 0.9),
		jobAtSimilarity("FIN1", "Finance", 0.95),
	}}
	matcher := newTestMatcher(&stubEmbedder{vector: queryVector()}, catalog)

	matches, err := matcher.FindMatches(context.Background(), MatchParams{QueryText: "analyst", JobFamily: "engineering"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "ENG1", matches[0].Job.JobCode)
}

func TestFindMatchesRejectsEmptyQuery(t *testing.T) {
	matcher := newTestMatcher(&stubEmbedder{vector: queryVector()}, &stubCatalog{})

	_, err := matcher.FindMatches(context.Background(), MatchParams{QueryText: "   "})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_query"))
}

func TestFindMatchesMapsEmbedderFailure(t *testing.T) {
	matcher := newTestMatcher(&stubEmbedder{err: errors.New("boom")}, &stubCatalog{})

	_, err := matcher.FindMatches(context.Background(), MatchParams{QueryText: "engineer"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "embedding_unavailable"))
}

func TestFindMatchesMapsEmbedderDeadlineToTimeout(t *testing.T) {
	matcher := newTestMatcher(&stubEmbedder{vector: queryVector(), delay: 200 * time.Millisecond}, &stubCatalog{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := matcher.FindMatches(ctx, MatchParams{QueryText: "engineer"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "timeout"))
}

func TestFindMatchesMapsCatalogFailure(t *testing.T) {
	matcher := newTestMatcher(&stubEmbedder{vector: queryVector()}, &stubCatalog{err: errors.New("db down")})

	_, err := matcher.FindMatches(context.Background(), MatchParams{QueryText: "engineer"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "dependency_failure"))
}

func TestFindMatchesRejectsDimensionMismatch(t *testing.T) {
	catalog := &stubCatalog{records: []JobRecord{{JobCode: "J1", Embedding: []float32{1, 0, 0}}}}
	matcher := newTestMatcher(&stubEmbedder{vector: queryVector()}, catalog)

	_, err := matcher.FindMatches(context.Background(), MatchParams{QueryText: "engineer"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "dependency_failure"))
}

func TestCosineSimilarity(t *testing.T) {
	require.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	require.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	require.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	require.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
