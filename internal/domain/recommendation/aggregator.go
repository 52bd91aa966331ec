package recommendation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/paybench/salary-advisor/pkg/errors"
)

// MarketDataAggregator folds the salary rows of matched jobs into a single
// weighted percentile triple.
type MarketDataAggregator struct {
	market MarketDataStore
	logger *slog.Logger
}

// NewMarketDataAggregator constructs the aggregator.
func NewMarketDataAggregator(market MarketDataStore, logger *slog.Logger) *MarketDataAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarketDataAggregator{
		market: market,
		logger: logger.With("component", "recommendation.aggregator"),
	}
}

// AggregateResult reports the weighted percentiles plus the audit trail the
// scorer and the adjustment step depend on.
type AggregateResult struct {
	Percentiles     Percentiles
	TotalSampleSize int
	RowsUsed        []MarketDataRow
	JobsUsed        int
	UsedExactRow    bool
	UsedDefaultRow  bool
}

type weightedRow struct {
	row        MarketDataRow
	similarity float64
}

// Aggregate selects one usable row per matched job (exact location preferred,
// default row as fallback, excluded otherwise) and combines the percentiles
// with weights proportional to each job's similarity. Jobs without a usable
// row contribute zero weight; the remaining weights re-normalize to sum to 1.
func (a *MarketDataAggregator) Aggregate(ctx context.Context, matches []MatchCandidate, location string) (AggregateResult, error) {
	usable := make([]weightedRow, 0, len(matches))
	result := AggregateResult{}

	for _, match := range matches {
		rows, err := a.market.RowsFor(ctx, match.Job.JobCode)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return AggregateResult{}, apperrors.Wrap("timeout", "market data read exceeded deadline", err)
			}
			return AggregateResult{}, apperrors.Wrap("dependency_failure", "market data read failed", err)
		}
		row, found := selectRow(rows, location)
		if !found {
			a.logger.Debug("job excluded from aggregation, no usable market row", "job_code", match.Job.JobCode, "location", location)
			continue
		}
		usable = append(usable, weightedRow{row: row, similarity: match.SimilarityScore})
		if row.IsDefault() {
			result.UsedDefaultRow = true
		} else {
			result.UsedExactRow = true
		}
	}

	if len(usable) == 0 {
		return AggregateResult{}, apperrors.Wrap("no_market_data", "no matched job has usable market data", nil)
	}

	var similaritySum float64
	for _, wr := range usable {
		similaritySum += wr.similarity
	}
	if similaritySum <= 0 {
		return AggregateResult{}, apperrors.Wrap("no_market_data", "matched jobs carry no positive similarity weight", nil)
	}

	for _, wr := range usable {
		weight := wr.similarity / similaritySum
		result.Percentiles.P25 += weight * wr.row.P25
		result.Percentiles.P50 += weight * wr.row.P50
		result.Percentiles.P75 += weight * wr.row.P75
		result.TotalSampleSize += wr.row.SampleSize
		result.RowsUsed = append(result.RowsUsed, wr.row)
	}
	result.JobsUsed = len(usable)

	return result, nil
}

// selectRow prefers the exact-location row; if several rows share a location
// the freshest snapshot wins.
func selectRow(rows []MarketDataRow, location string) (MarketDataRow, bool) {
	var (
		exact, fallback       MarketDataRow
		hasExact, hasFallback bool
	)
	for _, row := range rows {
		switch {
		case !row.IsDefault() && strings.EqualFold(strings.TrimSpace(row.Location), strings.TrimSpace(location)):
			if !hasExact || row.AsOfDate.After(exact.AsOfDate) {
				exact = row
				hasExact = true
			}
		case row.IsDefault():
			if !hasFallback || row.AsOfDate.After(fallback.AsOfDate) {
				fallback = row
				hasFallback = true
			}
		}
	}
	if hasExact {
		return exact, true
	}
	if hasFallback {
		return fallback, true
	}
	return MarketDataRow{}, false
}
