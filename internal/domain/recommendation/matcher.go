package recommendation

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"strings"

	apperrors "github.com/paybench/salary-advisor/pkg/errors"
)

// JobMatcher ranks benchmark jobs against a free-text query using cosine
// similarity over precomputed catalog embeddings.
type JobMatcher struct {
	embedder EmbeddingClient
	catalog  BenchmarkStore
	cfg      Config
	logger   *slog.Logger
}

// NewJobMatcher constructs the matcher.
func NewJobMatcher(cfg Config, embedder EmbeddingClient, catalog BenchmarkStore, logger *slog.Logger) *JobMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobMatcher{
		embedder: embedder,
		catalog:  catalog,
		cfg:      cfg.withDefaults(),
		logger:   logger.With("component", "recommendation.matcher"),
	}
}

// MatchParams narrows a single matching pass.
type MatchParams struct {
	QueryText     string
	JobFamily     string
	TopK          int
	MinSimilarity float64
}

// FindMatches embeds the query and returns catalog jobs scoring at or above
// the similarity threshold, ordered by descending similarity with job code
// ascending as the tie break. An empty result is a normal outcome.
func (m *JobMatcher) FindMatches(ctx context.Context, params MatchParams) ([]MatchCandidate, error) {
	query := strings.TrimSpace(params.QueryText)
	if query == "" {
		return nil, apperrors.Wrap("invalid_query", "query text cannot be empty", nil)
	}
	topK := params.TopK
	if topK <= 0 {
		topK = m.cfg.DefaultTopK
	}
	minSimilarity := params.MinSimilarity
	if minSimilarity <= 0 {
		minSimilarity = m.cfg.MinSimilarity
	}

	embedding, err := m.embedder.Embed(ctx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, apperrors.Wrap("timeout", "embedding call exceeded deadline", err)
		}
		return nil, apperrors.Wrap("embedding_unavailable", "embedding provider failed", err)
	}
	if len(embedding) == 0 {
		return nil, apperrors.Wrap("embedding_unavailable", "embedding provider returned an empty vector", nil)
	}

	records, err := m.catalog.List(ctx, params.JobFamily)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, apperrors.Wrap("timeout", "benchmark catalog read exceeded deadline", err)
		}
		return nil, apperrors.Wrap("dependency_failure", "benchmark catalog read failed", err)
	}

	candidates := make([]MatchCandidate, 0, len(records))
	for _, record := range records {
		if len(record.Embedding) != len(embedding) {
			return nil, apperrors.Wrap("dependency_failure", "catalog embedding dimension does not match query embedding", nil)
		}
		score := cosineSimilarity(embedding, record.Embedding)
		if score >= minSimilarity {
			candidates = append(candidates, MatchCandidate{Job: record, SimilarityScore: score})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].SimilarityScore != candidates[j].SimilarityScore {
			return candidates[i].SimilarityScore > candidates[j].SimilarityScore
		}
		return candidates[i].Job.JobCode < candidates[j].Job.JobCode
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	m.logger.Debug("matching complete", "catalog_size", len(records), "matches", len(candidates), "threshold", minSimilarity)
	return candidates, nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
