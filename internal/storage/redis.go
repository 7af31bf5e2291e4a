package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"restoflow/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RatingCache keeps computed ratings in one hash per target.
type RatingCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRatingCache(client *redis.Client, ttl time.Duration) *RatingCache {
	return &RatingCache{Client: client, TTL: ttl}
}

func (c *RatingCache) DishKey(dishID int64) string {
	return "rating:dish:" + strconv.FormatInt(dishID, 10)
}

func (c *RatingCache) RestaurantKey() string {
	return "rating:restaurant"
}

// Get returns nil on a cache miss.
func (c *RatingCache) Get(ctx context.Context, key string) (*domain.Rating, error) {
	fields, err := c.Client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	count, err := strconv.Atoi(fields["review_count"])
	if err != nil {
		return nil, errors.New("malformed review_count in " + key)
	}
	rating := &domain.Rating{ReviewCount: count}
	if raw := fields["avg_rating"]; raw != "" {
		avg, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("malformed avg_rating in " + key)
		}
		rating.AvgRating = &avg
	}
	return rating, nil
}

func (c *RatingCache) Set(ctx context.Context, key string, rating domain.Rating) error {
	avg := ""
	if rating.AvgRating != nil {
		avg = strconv.FormatFloat(*rating.AvgRating, 'f', -1, 64)
	}

	_, err := c.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"avg_rating":   avg,
			"review_count": rating.ReviewCount,
			"last_updated": time.Now().Unix(),
		})
		pipe.Expire(ctx, key, c.TTL)
		return nil
	})
	return err
}

func (c *RatingCache) Invalidate(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}
