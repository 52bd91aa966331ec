package recommendation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/paybench/salary-advisor/pkg/errors"
)

type stubIndex struct {
	entries map[string]LocationIndexEntry
	err     error
}

func (s *stubIndex) Get(_ context.Context, location string) (LocationIndexEntry, bool, error) {
	if s.err != nil {
		return LocationIndexEntry{}, false, s.err
	}
	entry, ok := s.entries[strings.ToLower(location)]
	return entry, ok, nil
}

func TestAdjustAppliesIndexMultiplier(t *testing.T) {
	index := &stubIndex{entries: map[string]LocationIndexEntry{
		"penang": {Location: "Penang", IndexMultiplier: 1.05},
	}}
	adjuster := NewLocationAdjuster(index, nil)

	adjustment, err := adjuster.Adjust(context.Background(), Percentiles{P25: 8000, P50: 9500, P75: 11000}, "Penang")
	require.NoError(t, err)
	require.Equal(t, Percentiles{P25: 8400, P50: 9975, P75: 11550}, adjustment.Percentiles)
	require.Equal(t, 1.05, adjustment.Multiplier)
	require.True(t, adjustment.LocationKnown)
}

func TestAdjustUnknownLocationIsIdentity(t *testing.T) {
	adjuster := NewLocationAdjuster(&stubIndex{entries: map[string]LocationIndexEntry{}}, nil)

	in := Percentiles{P25: 8000, P50: 9500, P75: 11000}
	adjustment, err := adjuster.Adjust(context.Background(), in, "Atlantis")
	require.NoError(t, err)
	require.Equal(t, in, adjustment.Percentiles)
	require.Equal(t, 1.0, adjustment.Multiplier)
	require.False(t, adjustment.LocationKnown)
}

func TestAdjustIgnoresNonPositiveMultiplier(t *testing.T) {
	index := &stubIndex{entries: map[string]LocationIndexEntry{
		"penang": {Location: "Penang", IndexMultiplier: 0},
	}}
	adjuster := NewLocationAdjuster(index, nil)

	in := Percentiles{P25: 8000, P50: 9500, P75: 11000}
	adjustment, err := adjuster.Adjust(context.Background(), in, "Penang")
	require.NoError(t, err)
	require.Equal(t, in, adjustment.Percentiles)
	require.Equal(t, 1.0, adjustment.Multiplier)
}

func TestAdjustPreservesPercentileOrder(t *testing.T) {
	index := &stubIndex{entries: map[string]LocationIndexEntry{
		"jakarta": {Location: "Jakarta", IndexMultiplier: 0.72},
	}}
	adjuster := NewLocationAdjuster(index, nil)

	adjustment, err := adjuster.Adjust(context.Background(), Percentiles{P25: 4000, P50: 5200, P75: 7100}, "Jakarta")
	require.NoError(t, err)
	require.LessOrEqual(t, adjustment.Percentiles.P25, adjustment.Percentiles.P50)
	require.LessOrEqual(t, adjustment.Percentiles.P50, adjustment.Percentiles.P75)
}

func TestAdjustMapsStoreFailure(t *testing.T) {
	adjuster := NewLocationAdjuster(&stubIndex{err: errors.New("db down")}, nil)

	_, err := adjuster.Adjust(context.Background(), Percentiles{}, "Penang")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "dependency_failure"))
}

func TestAdjustMapsDeadlineToTimeout(t *testing.T) {
	adjuster := NewLocationAdjuster(&stubIndex{err: context.DeadlineExceeded}, nil)

	_, err := adjuster.Adjust(context.Background(), Percentiles{}, "Penang")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "timeout"))
}
