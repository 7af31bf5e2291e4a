package storage_test

import (
	"context"
	"testing"
	"time"

	"restoflow/internal/domain"
	"restoflow/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*storage.RatingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return storage.NewRatingCache(client, 5*time.Minute), mr
}

func TestRatingCache_Keys(t *testing.T) {
	cache, _ := newTestCache(t)

	assert.Equal(t, "rating:dish:12", cache.DishKey(12))
	assert.Equal(t, "rating:restaurant", cache.RestaurantKey())
}

func TestRatingCache_SetAndGet(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	avg := 4.25

	require.NoError(t, cache.Set(ctx, cache.DishKey(1), domain.Rating{AvgRating: &avg, ReviewCount: 4}))

	got, err := cache.Get(ctx, cache.DishKey(1))
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.AvgRating)
	assert.Equal(t, 4.25, *got.AvgRating)
	assert.Equal(t, 4, got.ReviewCount)
	assert.Equal(t, 5*time.Minute, mr.TTL(cache.DishKey(1)))
	assert.NotEmpty(t, mr.HGet(cache.DishKey(1), "last_updated"))
}

func TestRatingCache_NoReviews(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, cache.RestaurantKey(), domain.Rating{}))

	got, err := cache.Get(ctx, cache.RestaurantKey())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.AvgRating)
	assert.Zero(t, got.ReviewCount)
}

func TestRatingCache_MissAndInvalidate(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	got, err := cache.Get(ctx, cache.DishKey(9))
	require.NoError(t, err)
	assert.Nil(t, got)

	avg := 5.0
	require.NoError(t, cache.Set(ctx, cache.DishKey(9), domain.Rating{AvgRating: &avg, ReviewCount: 1}))
	require.NoError(t, cache.Invalidate(ctx, cache.DishKey(9)))
	assert.False(t, mr.Exists(cache.DishKey(9)))

	got, err = cache.Get(ctx, cache.DishKey(9))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRatingCache_MalformedHash(t *testing.T) {
	cache, mr := newTestCache(t)

	mr.HSet(cache.DishKey(3), "review_count", "many")

	_, err := cache.Get(context.Background(), cache.DishKey(3))
	assert.Error(t, err)
}
