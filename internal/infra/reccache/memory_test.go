package reccache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := NewMemoryCache()
	rec := domain.Recommendation{Percentiles: domain.Percentiles{P25: 8000, P50: 9000, P75: 10000}}

	require.NoError(t, cache.Set(context.Background(), "key", rec, time.Hour))

	got, ok, err := cache.Get(context.Background(), "key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, rec, got)

	_, ok, err = cache.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCacheExpiresEntries(t *testing.T) {
	cache := NewMemoryCache()
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	require.NoError(t, cache.Set(context.Background(), "key", domain.Recommendation{}, time.Hour))

	_, ok, err := cache.Get(context.Background(), "key")
	require.NoError(t, err)
	require.True(t, ok)

	current = current.Add(2 * time.Hour)
	_, ok, err = cache.Get(context.Background(), "key")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	cache := NewMemoryCache()
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	require.NoError(t, cache.Set(context.Background(), "key", domain.Recommendation{}, 0))

	current = current.Add(1000 * time.Hour)
	_, ok, err := cache.Get(context.Background(), "key")
	require.NoError(t, err)
	require.True(t, ok)
}
