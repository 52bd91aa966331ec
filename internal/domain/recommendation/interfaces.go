package recommendation

import (
	"context"
	"time"
)

// EmbeddingClient converts free text into a fixed-length vector.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// BenchmarkStore exposes the read-only catalog of reference jobs. An empty
// familyFilter returns the whole catalog.
type BenchmarkStore interface {
	List(ctx context.Context, familyFilter string) ([]JobRecord, error)
}

// MarketDataStore returns every salary row known for a job code; the engine
// picks exact-location vs default rows itself.
type MarketDataStore interface {
	RowsFor(ctx context.Context, jobCode string) ([]MarketDataRow, error)
}

// LocationIndexStore resolves a location to its cost multiplier.
type LocationIndexStore interface {
	Get(ctx context.Context, location string) (LocationIndexEntry, bool, error)
}

// Recommender is implemented by the engine and by its caching decorator.
type Recommender interface {
	Recommend(ctx context.Context, req Request) (Recommendation, error)
}

// ResultCache stores computed recommendations keyed by request fingerprint.
// A miss or a failed read is never an error for the caller; the cache is an
// optimization only.
type ResultCache interface {
	Get(ctx context.Context, key string) (Recommendation, bool, error)
	Set(ctx context.Context, key string, rec Recommendation, ttl time.Duration) error
}
