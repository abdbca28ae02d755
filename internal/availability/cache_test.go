package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/tirechange-hub/internal/booking"
	"github.com/wolfman30/tirechange-hub/pkg/logging"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, ttl), mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	want := []booking.Slot{slot("London", "1", "2025-03-15T14:30:00Z")}
	require.NoError(t, cache.Set(ctx, want))
	assert.Equal(t, time.Minute, mr.TTL(mergedCacheKey))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists(mergedCacheKey))
}

func TestRedisCache_ExpiresAfterTTL(t *testing.T) {
	cache, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, []booking.Slot{slot("London", "1", "2025-03-15T14:30:00Z")}))
	mr.FastForward(31 * time.Second)

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_CorruptEntryIsError(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(mergedCacheKey, "{not json"))

	_, ok, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCollect_ServesFromCacheUntilInvalidated(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	fetcher := &stubFetcher{slots: map[string][]booking.Slot{
		"London": {slot("London", "1", "2025-03-15T14:30:00Z")},
	}}
	agg := NewAggregator(threeVendors(), fetcher, logging.Discard(), WithCache(cache))
	ctx := context.Background()

	assert.Equal(t, []string{"1"}, ids(agg.Collect(ctx)))
	assert.Equal(t, 3, fetcher.calls)

	fetcher.slots["London"] = nil
	assert.Equal(t, []string{"1"}, ids(agg.Collect(ctx)))
	assert.Equal(t, 3, fetcher.calls)

	require.NoError(t, agg.Invalidate(ctx))
	assert.Empty(t, agg.Collect(ctx))
	assert.Equal(t, 6, fetcher.calls)
}

func TestCollect_CacheOutageFallsBackToVendors(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	mr.Close()

	fetcher := &stubFetcher{slots: map[string][]booking.Slot{
		"London": {slot("London", "1", "2025-03-15T14:30:00Z")},
	}}
	agg := NewAggregator(threeVendors(), fetcher, logging.Discard(), WithCache(cache))
	assert.Equal(t, []string{"1"}, ids(agg.Collect(context.Background())))
}

func TestCollect_DoesNotCacheVendorFailures(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	outage := errors.New("connection refused")
	fetcher := &stubFetcher{errs: map[string]error{
		"London":     outage,
		"Manchester": outage,
		"Birmingham": outage,
	}}
	agg := NewAggregator(threeVendors(), fetcher, logging.Discard(), WithCache(cache))
	ctx := context.Background()

	assert.Empty(t, agg.Collect(ctx))
	assert.False(t, mr.Exists(mergedCacheKey))

	fetcher.errs = map[string]error{"Manchester": outage}
	fetcher.slots = map[string][]booking.Slot{
		"London": {slot("London", "1", "2025-03-15T14:30:00Z")},
	}
	assert.Equal(t, []string{"1"}, ids(agg.Collect(ctx)))
	assert.Equal(t, 6, fetcher.calls)
	assert.False(t, mr.Exists(mergedCacheKey))

	fetcher.errs = nil
	assert.Equal(t, []string{"1"}, ids(agg.Collect(ctx)))
	assert.True(t, mr.Exists(mergedCacheKey))
}

func TestCollect_PanickingVendorIsNotCached(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	fetcher := &stubFetcher{panics: map[string]bool{"Birmingham": true}}
	agg := NewAggregator(threeVendors(), fetcher, logging.Discard(), WithCache(cache))

	assert.Empty(t, agg.Collect(context.Background()))
	assert.False(t, mr.Exists(mergedCacheKey))
}
