package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const modelListKey = "research:models"

// ModelCache holds the filtered provider model list in Redis so that the
// models endpoint does not hit the provider on every page load. Research
// results are never cached.
type ModelCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewModelCache creates and pings a Redis-backed model cache.
func NewModelCache(ctx context.Context, addr, password string, ttl time.Duration) (*ModelCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &ModelCache{rdb: rdb, ttl: ttl}, nil
}

// Get returns the cached model list, or ok=false on a miss or Redis error.
func (c *ModelCache) Get(ctx context.Context) ([]byte, bool) {
	data, err := c.rdb.Get(ctx, modelListKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores the model list with the configured TTL. Failures are ignored;
// the cache is best-effort.
func (c *ModelCache) Set(ctx context.Context, data []byte) {
	c.rdb.Set(ctx, modelListKey, data, c.ttl)
}

// Close releases the underlying Redis connection.
func (c *ModelCache) Close() error {
	return c.rdb.Close()
}
