package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"
)

const defaultExpiration = 7 * 24 * time.Hour

type memoryItem struct {
	value    []byte
	expireAt time.Time
	access   time.Time
}

// MemoryCache implements Service in process with LRU eviction.
type MemoryCache struct {
	mu      sync.Mutex
	data    map[string]*memoryItem
	maxSize int
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryCache creates an in-memory cache and starts its cleanup sweep.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		data:    make(map[string]*memoryItem),
		maxSize: cfg.MaxSize,
		now:     cfg.now,
		stop:    make(chan struct{}),
	}
	if cfg.CleanupInterval > 0 {
		go mc.cleanupLoop(cfg.CleanupInterval)
	}
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.put(key, b, expiration)
	return nil
}

func (mc *MemoryCache) put(key string, b []byte, expiration time.Duration) {
	if _, ok := mc.data[key]; !ok && len(mc.data) >= mc.maxSize {
		mc.evictLRU()
	}
	if expiration <= 0 {
		expiration = defaultExpiration
	}
	now := mc.now()
	mc.data[key] = &memoryItem{value: b, expireAt: now.Add(expiration), access: now}
}

// live returns the item under key, dropping it when expired. Callers hold mu.
func (mc *MemoryCache) live(key string) (*memoryItem, bool) {
	it, ok := mc.data[key]
	if !ok {
		return nil, false
	}
	if mc.now().After(it.expireAt) {
		delete(mc.data, key)
		return nil, false
	}
	return it, true
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.Lock()
	it, ok := mc.live(key)
	var b []byte
	if ok {
		it.access = mc.now()
		b = it.value
	}
	mc.mu.Unlock()
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, key := range keys {
		delete(mc.data, key)
	}
	return nil
}

func (mc *MemoryCache) Increment(_ context.Context, key string) (int64, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	it, ok := mc.live(key)
	if !ok {
		mc.put(key, []byte("1"), 0)
		return 1, nil
	}
	n, err := strconv.ParseInt(string(it.value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cache: %s is not an integer", key)
	}
	n++
	it.value = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (mc *MemoryCache) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	it, ok := mc.live(key)
	if !ok {
		return false, nil
	}
	it.expireAt = mc.now().Add(expiration)
	return true, nil
}

func (mc *MemoryCache) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if _, ok := mc.live(key); ok {
		return false, nil
	}
	mc.put(key, []byte(`"locked"`), ttl)
	return true, nil
}

func (mc *MemoryCache) Unlock(ctx context.Context, key string) error {
	return mc.Delete(ctx, key)
}

func (mc *MemoryCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.data)
}

func (mc *MemoryCache) evictLRU() {
	var oldestKey string
	var oldest time.Time
	for key, it := range mc.data {
		if oldestKey == "" || it.access.Before(oldest) {
			oldestKey, oldest = key, it.access
		}
	}
	if oldestKey != "" {
		delete(mc.data, oldestKey)
	}
}

func (mc *MemoryCache) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-mc.stop:
			return
		case <-ticker.C:
			mc.mu.Lock()
			now := mc.now()
			for key, it := range mc.data {
				if now.After(it.expireAt) {
					delete(mc.data, key)
				}
			}
			mc.mu.Unlock()
		}
	}
}

// Close stops the cleanup sweep.
func (mc *MemoryCache) Close() error {
	mc.once.Do(func() { close(mc.stop) })
	return nil
}
