package providers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"signalengine/internal/logging"
)

// ResponseCache is a short-TTL read-through cache in front of repeated
// OHLCV/derivs fetches within the same scan, so concurrent coin-task workers
// don't refetch the same (kind, symbol, timeframe) tuple. Grounded in the
// teacher's internal/binance/market_data_cache.go in-process cache,
// generalized to a shared redis/go-redis/v9-backed cache per the DOMAIN STACK
// note in SPEC_FULL.md.
type ResponseCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewResponseCache builds a cache against the given redis client. rdb may be
// nil, in which case the cache degenerates to a no-op (never fatal — Redis
// being unreachable must not take down a scan).
func NewResponseCache(rdb *redis.Client, ttl time.Duration) *ResponseCache {
	return &ResponseCache{rdb: rdb, ttl: ttl}
}

// Get attempts to retrieve and unmarshal a cached value. ok is false on any
// miss or error — callers always fall through to a live fetch.
func Get[V any](ctx context.Context, c *ResponseCache, key string) (V, bool) {
	var zero V
	if c == nil || c.rdb == nil {
		return zero, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return zero, false
	}
	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, false
	}
	return v, true
}

// Set stores a value with the cache's configured TTL, best-effort.
func Set[V any](ctx context.Context, c *ResponseCache, key string, v V) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logging.WithComponent("provider-cache").Debug("cache set failed, continuing without cache", "error", err)
	}
}
