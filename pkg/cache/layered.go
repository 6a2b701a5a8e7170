package cache

import (
	"context"
	"encoding/json"
	"time"
)

// LayeredCache is a two-level cache: L1 in memory, L2 in Redis. Locks and
// counters always go to Redis so they are shared between replicas.
type LayeredCache struct {
	mem   *MemoryCache
	redis *RedisCache
	// l1TTL caps how long a value read back from Redis stays in memory.
	l1TTL time.Duration
}

func NewLayeredCache(redisCache *RedisCache, l1TTL time.Duration, opts ...MemoryOption) *LayeredCache {
	return &LayeredCache{
		mem:   NewMemoryCache(opts...),
		redis: redisCache,
		l1TTL: l1TTL,
	}
}

// Set writes Redis first, then memory.
func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.redis.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.mem.Set(ctx, key, value, expiration)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.mem.Get(ctx, key, dest); err == nil {
		return nil
	}

	var raw json.RawMessage
	if err := lc.redis.Get(ctx, key, &raw); err != nil {
		return err
	}
	_ = lc.mem.Set(ctx, key, raw, lc.l1TTL)
	return json.Unmarshal(raw, dest)
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.mem.Delete(ctx, keys...)
	return lc.redis.Delete(ctx, keys...)
}

func (lc *LayeredCache) Increment(ctx context.Context, key string) (int64, error) {
	return lc.redis.Increment(ctx, key)
}

func (lc *LayeredCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return lc.redis.Expire(ctx, key, expiration)
}

func (lc *LayeredCache) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return lc.redis.TryLock(ctx, key, ttl)
}

func (lc *LayeredCache) Unlock(ctx context.Context, key string) error {
	return lc.redis.Unlock(ctx, key)
}

// Close closes both layers.
func (lc *LayeredCache) Close() error {
	_ = lc.mem.Close()
	return lc.redis.Close()
}
