package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(size int) (*MemoryCache, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewMemoryCache(WithMemoryMaxSize(size), WithMemoryCleanup(0), withClock(c.now)), c
}

type snapshot struct {
	Price float64 `json:"price"`
	Count int     `json:"count"`
}

func TestMemorySetGetRoundTrip(t *testing.T) {
	mc, _ := newTestCache(10)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "s", snapshot{Price: 2015.5, Count: 3}, time.Minute))
	var got snapshot
	require.NoError(t, mc.Get(ctx, "s", &got))
	assert.Equal(t, snapshot{Price: 2015.5, Count: 3}, got)

	assert.ErrorIs(t, mc.Get(ctx, "missing", &got), ErrCacheMiss)
}

func TestMemoryExpiry(t *testing.T) {
	mc, clk := newTestCache(10)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", "v", time.Second))
	clk.t = clk.t.Add(2 * time.Second)
	var s string
	assert.ErrorIs(t, mc.Get(ctx, "k", &s), ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	mc, clk := newTestCache(2)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	clk.t = clk.t.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "b", 2, 0))
	clk.t = clk.t.Add(time.Second)
	var n int
	require.NoError(t, mc.Get(ctx, "a", &n))
	clk.t = clk.t.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	assert.NoError(t, mc.Get(ctx, "a", &n))
	assert.ErrorIs(t, mc.Get(ctx, "b", &n), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "c", &n))
}

func TestMemoryLock(t *testing.T) {
	mc, clk := newTestCache(10)
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "push", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = mc.TryLock(ctx, "push", time.Minute)
	assert.False(t, ok)

	clk.t = clk.t.Add(2 * time.Minute)
	ok, _ = mc.TryLock(ctx, "push", time.Minute)
	assert.True(t, ok, "expired lock is free again")

	require.NoError(t, mc.Unlock(ctx, "push"))
	ok, _ = mc.TryLock(ctx, "push", time.Minute)
	assert.True(t, ok)
}

func TestMemoryIncrementAndExpire(t *testing.T) {
	mc, _ := newTestCache(10)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := mc.Increment(ctx, "hits")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	ok, err := mc.Expire(ctx, "hits", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = mc.Expire(ctx, "nope", time.Minute)
	assert.False(t, ok)

	require.NoError(t, mc.Set(ctx, "word", "abc", 0))
	_, err = mc.Increment(ctx, "word")
	assert.Error(t, err)
}

func TestGetOrLoad(t *testing.T) {
	mc, _ := newTestCache(10)
	ctx := context.Background()
	calls := 0
	load := func(context.Context) (snapshot, error) {
		calls++
		return snapshot{Count: calls}, nil
	}

	v, err := GetOrLoad(ctx, mc, "s", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Count)
	v, err = GetOrLoad(ctx, mc, "s", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Count, "second call is served from cache")

	_, err = GetOrLoad(ctx, Service(nil), "s", time.Minute, func(context.Context) (snapshot, error) {
		return snapshot{}, errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "status:XAUUSD", Key("status", "XAUUSD"))
	assert.Equal(t, "one", Key("one"))
}
