package reccache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

// ValkeyCache stores computed recommendations in a Valkey-compatible
// database with a bounded TTL.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs the cache.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "rec"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements recommendation.ResultCache.
func (c *ValkeyCache) Get(ctx context.Context, key string) (domain.Recommendation, bool, error) {
	cmd := c.client.B().Get().Key(c.entryKey(key)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return domain.Recommendation{}, false, nil
		}
		return domain.Recommendation{}, false, err
	}
	var rec domain.Recommendation
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return domain.Recommendation{}, false, err
	}
	return rec, true, nil
}

// Set implements recommendation.ResultCache.
func (c *ValkeyCache) Set(ctx context.Context, key string, rec domain.Recommendation, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) entryKey(key string) string {
	return c.prefix + ":" + key
}

var _ domain.ResultCache = (*ValkeyCache)(nil)
