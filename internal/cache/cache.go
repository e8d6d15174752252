// README: Redis-backed response cache for external lookups.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a best-effort JSON cache over Redis. A nil *Cache (or one built
// with a nil client) is a valid no-op cache, so callers never branch on
// whether caching is configured. Cache failures fall through to the live
// service and are logged at debug level only.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{redis: rdb, ttl: ttl}
}

// Get unmarshals the cached value for key into v and reports a hit.
func (c *Cache) Get(ctx context.Context, key string, v any) bool {
	if c == nil {
		return false
	}
	b, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Debug("cache get failed", "key", key, "err", err)
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		slog.Debug("cache entry unreadable", "key", key, "err", err)
		return false
	}
	return true
}

// Set stores v under key for the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, b, c.ttl).Err(); err != nil {
		slog.Debug("cache set failed", "key", key, "err", err)
	}
}

// Key builds a cache key from namespaced parts. Coordinates should be rounded
// by the caller before keying so nearby lookups share entries.
func Key(parts ...string) string {
	return "fable:" + strings.Join(parts, ":")
}

// CoordKey renders a coordinate pair at ~11m precision for use in cache keys.
func CoordKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}
