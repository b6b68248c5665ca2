package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_DisabledIsNoop(t *testing.T) {
	ctx := context.Background()
	caches := map[string]*CacheService{
		"nil":         nil,
		"no url":      NewCacheService("", zerolog.Nop()),
		"invalid url": NewCacheService("not-a-redis-url", zerolog.Nop()),
	}

	for name, c := range caches {
		t.Run(name, func(t *testing.T) {
			var hits, misses int
			c.SetObserver(func() { hits++ }, func() { misses++ })

			assert.Nil(t, c.Client())
			rec, ok := c.GetRecommendation(ctx, 1)
			assert.False(t, ok)
			assert.Nil(t, rec)
			require.NoError(t, c.SetRecommendation(ctx, sampleRecommendation(1, 0)))
			require.NoError(t, c.MarkRemoved(ctx, 1))
			require.NoError(t, c.InvalidateAll(ctx))
			require.NoError(t, c.Close())
			assert.Zero(t, hits+misses, "disabled cache must not count lookups")
		})
	}
}

func TestRecommendationKey(t *testing.T) {
	assert.Equal(t, "recommendation:42", recommendationKey(42))
}

func TestCacheService_BreakerOpensOnRedisFailures(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := newCacheService(rdb, zerolog.Nop())
	t.Cleanup(func() { _ = c.Close() })

	var misses int
	c.SetObserver(nil, func() { misses++ })

	ctx := context.Background()
	for range cacheBreakerTrips {
		_, ok := c.GetRecommendation(ctx, 1)
		require.False(t, ok)
	}
	assert.Equal(t, gobreaker.StateOpen, c.breaker.State())

	_, ok := c.GetRecommendation(ctx, 1)
	assert.False(t, ok)
	assert.Equal(t, cacheBreakerTrips+1, misses)

	err := c.MarkRemoved(ctx, 1)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}
