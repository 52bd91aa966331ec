package reccache

import (
	"context"
	"sync"
	"time"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

type memoryEntry struct {
	rec       domain.Recommendation
	expiresAt time.Time
}

// MemoryCache is an in-process ResultCache used for tests and as fallback
// when no Valkey instance is configured. Reads never block writes for other
// keys beyond the map lock.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements recommendation.ResultCache. Expired entries count as misses
// and are evicted lazily.
func (c *MemoryCache) Get(_ context.Context, key string) (domain.Recommendation, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return domain.Recommendation{}, false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return domain.Recommendation{}, false, nil
	}
	return entry.rec, true, nil
}

// Set implements recommendation.ResultCache.
func (c *MemoryCache) Set(_ context.Context, key string, rec domain.Recommendation, ttl time.Duration) error {
	entry := memoryEntry{rec: rec}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

var _ domain.ResultCache = (*MemoryCache)(nil)
