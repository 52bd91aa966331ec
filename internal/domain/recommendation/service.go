package recommendation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/paybench/salary-advisor/pkg/errors"
)

// Engine assembles a full salary recommendation: match, aggregate, adjust,
// score. Each call is an independent, stateless computation; the injected
// stores are read-only for the duration of a request.
type Engine struct {
	cfg        Config
	matcher    *JobMatcher
	aggregator *MarketDataAggregator
	adjuster   *LocationAdjuster
	scorer     *ConfidenceScorer
	logger     *slog.Logger
}

// NewEngine wires the pipeline stages over the injected ports.
func NewEngine(cfg Config, embedder EmbeddingClient, catalog BenchmarkStore, market MarketDataStore, index LocationIndexStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:        cfg,
		matcher:    NewJobMatcher(cfg, embedder, catalog, logger),
		aggregator: NewMarketDataAggregator(market, logger),
		adjuster:   NewLocationAdjuster(index, logger),
		scorer:     NewConfidenceScorer(cfg),
		logger:     logger.With("component", "recommendation.engine"),
	}
}

const maxJobTitleLen = 500

// Recommend runs the recommendation pipeline for one request. Errors are
// terminal; no partial result is ever returned.
func (e *Engine) Recommend(ctx context.Context, req Request) (Recommendation, error) {
	title := strings.TrimSpace(req.JobTitle)
	if title == "" {
		return Recommendation{}, apperrors.Wrap("invalid_query", "job title is required", nil)
	}
	if len(title) > maxJobTitleLen {
		return Recommendation{}, apperrors.Wrap("invalid_query", "job title exceeds maximum length", nil)
	}

	topK := req.TopK
	if topK <= 0 {
		topK = e.cfg.DefaultTopK
	}
	if topK > e.cfg.MaxTopK {
		topK = e.cfg.MaxTopK
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = e.cfg.BaselineLocation
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.OverallTimeout)
	defer cancel()
	start := time.Now()

	// Matching. The embedding call gets its own shorter deadline so a slow
	// provider cannot silently eat the whole request budget.
	matchCtx, matchCancel := context.WithTimeout(ctx, e.cfg.MatchTimeout)
	matches, err := e.matcher.FindMatches(matchCtx, MatchParams{
		QueryText:     buildQueryText(title, req.JobDescription),
		JobFamily:     strings.TrimSpace(req.JobFamily),
		TopK:          topK,
		MinSimilarity: e.cfg.MinSimilarity,
	})
	matchCancel()
	if err != nil {
		return Recommendation{}, err
	}
	if len(matches) == 0 {
		return Recommendation{}, apperrors.Wrap("no_match_found", "no benchmark job cleared the similarity threshold", nil)
	}

	// Aggregating.
	aggregate, err := e.aggregator.Aggregate(ctx, matches, location)
	if err != nil {
		return Recommendation{}, err
	}

	// Adjusting, only when a default row stood in for the requested location.
	percentiles := aggregate.Percentiles
	locationKnown := true
	if aggregate.UsedDefaultRow {
		adjustment, err := e.adjuster.Adjust(ctx, percentiles, location)
		if err != nil {
			return Recommendation{}, err
		}
		percentiles = adjustment.Percentiles
		locationKnown = adjustment.LocationKnown
	}

	if err := ctx.Err(); err != nil {
		return Recommendation{}, apperrors.Wrap("timeout", "recommendation exceeded overall deadline", err)
	}

	// Scoring never fails.
	confidence := e.scorer.Score(ConfidenceInput{
		BestSimilarity:  matches[0].SimilarityScore,
		JobsUsed:        aggregate.JobsUsed,
		TopK:            topK,
		TotalSampleSize: aggregate.TotalSampleSize,
		UsedExactRow:    aggregate.UsedExactRow,
		LocationKnown:   locationKnown,
	})

	matchedJobs := make([]MatchedJob, 0, len(matches))
	for _, m := range matches {
		matchedJobs = append(matchedJobs, MatchedJob{
			JobCode:         m.Job.JobCode,
			Title:           m.Job.Title,
			SimilarityScore: m.SimilarityScore,
		})
	}

	e.logger.Info("recommendation complete",
		"matches", len(matches),
		"jobs_used", aggregate.JobsUsed,
		"sample_size", aggregate.TotalSampleSize,
		"confidence", confidence.Level,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return Recommendation{
		Percentiles: percentiles,
		RecommendedRange: RecommendedRange{
			Min:    percentiles.P25,
			Target: percentiles.P50,
			Max:    percentiles.P75,
		},
		Confidence:  confidence,
		MatchedJobs: matchedJobs,
	}, nil
}

func buildQueryText(title, description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return title
	}
	return title + "\n\n" + description
}

var _ Recommender = (*Engine)(nil)
