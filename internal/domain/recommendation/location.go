package recommendation

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/paybench/salary-advisor/pkg/errors"
)

// LocationAdjuster scales nationwide percentiles by the location's
// cost-of-labor index multiplier.
type LocationAdjuster struct {
	index  LocationIndexStore
	logger *slog.Logger
}

// NewLocationAdjuster constructs the adjuster.
func NewLocationAdjuster(index LocationIndexStore, logger *slog.Logger) *LocationAdjuster {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationAdjuster{
		index:  index,
		logger: logger.With("component", "recommendation.location"),
	}
}

// Adjustment reports the applied multiplier and whether the location was
// known to the index table. An unknown location falls back to 1.0.
type Adjustment struct {
	Percentiles   Percentiles
	Multiplier    float64
	LocationKnown bool
}

// Adjust multiplies every percentile by the location's index multiplier.
// Multiplying the triple by one positive scalar preserves monotonicity.
func (l *LocationAdjuster) Adjust(ctx context.Context, p Percentiles, location string) (Adjustment, error) {
	entry, found, err := l.index.Get(ctx, location)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Adjustment{}, apperrors.Wrap("timeout", "location index read exceeded deadline", err)
		}
		return Adjustment{}, apperrors.Wrap("dependency_failure", "location index read failed", err)
	}
	multiplier := 1.0
	if found && entry.IndexMultiplier > 0 {
		multiplier = entry.IndexMultiplier
	}
	if !found {
		l.logger.Debug("location missing from index, no adjustment applied", "location", location)
	}
	return Adjustment{
		Percentiles: Percentiles{
			P25: p.P25 * multiplier,
			P50: p.P50 * multiplier,
			P75: p.P75 * multiplier,
		},
		Multiplier:    multiplier,
		LocationKnown: found,
	}, nil
}
