package redis

import (
	"context"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/pkg/circuitbreaker"
)

func testBreakerConfig() circuitbreaker.Config {
	cfg := circuitbreaker.DefaultConfig("top-rated-cache-test")
	cfg.MinRequests = 3
	cfg.Timeout = time.Minute
	return cfg
}

func TestGuardedCache_PassThrough(t *testing.T) {
	ctx := context.Background()
	inner, _ := newTestCache(t)
	cache := NewGuardedCache(inner, testBreakerConfig())

	summaries := []rating.Summary{{BookID: "a", Title: "A", AverageRating: 4.5, ReviewCount: 2}}
	setCurrent(t, cache, 1, summaries)

	got, ok, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, summaries, got)

	require.NoError(t, cache.Invalidate(ctx))
	_, ok, err = cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, gobreaker.StateClosed, cache.State())

	// 代数检查透传到内层
	stored, err := cache.Set(ctx, 1, 0, summaries)
	require.NoError(t, err)
	assert.False(t, stored)
}

func TestGuardedCache_OpensOnRedisFailure(t *testing.T) {
	ctx := context.Background()
	inner, mr := newTestCache(t)
	cache := NewGuardedCache(inner, testBreakerConfig())
	mr.Close()

	for i := 0; i < 3; i++ {
		_, _, err := cache.Get(ctx, 5)
		require.Error(t, err)
		assert.False(t, circuitbreaker.IsOpen(err))
	}
	assert.Equal(t, gobreaker.StateOpen, cache.State())

	// 打开后不再访问Redis
	_, _, err := cache.Get(ctx, 5)
	assert.True(t, circuitbreaker.IsOpen(err))
	assert.True(t, circuitbreaker.IsOpen(cache.Invalidate(ctx)))
}
