package recommendation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// CachedEngine is a decorator that serves repeat requests from a TTL-bounded
// result cache. Failures on the cache path degrade to computing the
// recommendation; a cached entry is never treated as authoritative over a
// fresh computation being requested after expiry.
type CachedEngine struct {
	inner  Recommender
	cache  ResultCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedEngine wraps a recommender with a result cache.
func NewCachedEngine(inner Recommender, cache ResultCache, ttl time.Duration, logger *slog.Logger) *CachedEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedEngine{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "recommendation.cache"),
	}
}

// Recommend returns a cached result when present, otherwise delegates and
// stores the successful outcome. Errors are never cached.
func (c *CachedEngine) Recommend(ctx context.Context, req Request) (Recommendation, error) {
	key := Fingerprint(req)

	cached, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("result cache read failed", "error", err)
	} else if ok {
		c.logger.Debug("result cache hit", "key", key)
		return cached, nil
	}

	rec, err := c.inner.Recommend(ctx, req)
	if err != nil {
		return Recommendation{}, err
	}
	if err := c.cache.Set(ctx, key, rec, c.ttl); err != nil {
		c.logger.Warn("result cache write failed", "error", err)
	}
	return rec, nil
}

// Fingerprint derives a deterministic cache key from the normalized request
// fields that influence the result.
func Fingerprint(req Request) string {
	parts := []string{
		normalizeField(req.JobTitle),
		normalizeField(req.JobDescription),
		normalizeField(req.JobFamily),
		normalizeField(req.Location),
		strconv.Itoa(req.TopK),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}

func normalizeField(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}

var _ Recommender = (*CachedEngine)(nil)
