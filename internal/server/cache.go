package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gameversehub/gameverse/internal/logging"
	"github.com/gameversehub/gameverse/internal/metrics"
)

// lookupTTL bounds how long the small fixed lookups (genres, platforms,
// trivia categories) are served from redis before hitting the provider
// again.
const lookupTTL = 10 * time.Minute

// lookupCache is an optional redis-backed cache for lookup endpoints.
// A nil client disables it; cache failures always degrade to a direct
// upstream call, never to an error.
type lookupCache struct {
	client *redis.Client
}

func newLookupCache(client *redis.Client) *lookupCache {
	return &lookupCache{client: client}
}

// get unmarshals a cached value into v, reporting whether it was found.
func (c *lookupCache) get(ctx context.Context, key string, v any) bool {
	if c == nil || c.client == nil {
		return false
	}

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logging.Warn("lookup cache read failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal([]byte(data), v); err != nil {
		logging.Warn("lookup cache entry corrupt", "key", key, "error", err)
		return false
	}

	metrics.LookupCacheHits.WithLabelValues(key).Inc()
	return true
}

// set stores a value; failures are logged and ignored.
func (c *lookupCache) set(ctx context.Context, key string, v any) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, lookupTTL).Err(); err != nil {
		logging.Warn("lookup cache write failed", "key", key, "error", err)
	}
}
