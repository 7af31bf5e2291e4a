package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
	"restoflow/internal/metrics"

	"go.uber.org/zap"
)

type ReviewService struct {
	store     eav.Store
	cache     RatingCache
	publisher EventPublisher
	logger    *zap.SugaredLogger
}

// NewReviewService accepts a nil cache and a nil publisher.
func NewReviewService(store eav.Store, cache RatingCache, publisher EventPublisher, logger *zap.SugaredLogger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ReviewService{store: store, cache: cache, publisher: publisher, logger: logger}
}

func (s *ReviewService) Create(ctx context.Context, in domain.ReviewInput) (int64, error) {
	if err := requirePositive("user_id", in.UserID); err != nil {
		return 0, err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return 0, validationf("rating must be between 1 and 5")
	}
	if (in.DishID != nil) == in.IsRestaurant {
		return 0, validationf("exactly one of dish_id or is_restaurant must be set")
	}
	if in.DishID != nil {
		if err := requirePositive("dish_id", *in.DishID); err != nil {
			return 0, err
		}
	}

	fields := []eav.Field{
		{Name: "user_id", Value: eav.FormatInt(in.UserID)},
		{Name: "rating", Value: eav.FormatInt(int64(in.Rating))},
		{Name: "comment", Value: strings.TrimSpace(in.Comment)},
		{Name: "created_at", Value: eav.FormatTime(time.Now())},
	}
	if in.DishID != nil {
		fields = append(fields, eav.Field{Name: "dish_id", Value: eav.FormatInt(*in.DishID)})
	} else {
		fields = append(fields, eav.Field{Name: "restaurant", Value: eav.FormatBool(true)})
	}

	var id int64
	err := s.store.InTx(ctx, func(q eav.Querier) error {
		if in.DishID != nil {
			if _, err := eav.MustRead(ctx, q, domain.EntityDish, *in.DishID); err != nil {
				return err
			}
		}
		var err error
		id, err = eav.Create(ctx, q, domain.EntityReview, fields)
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.RecordEntityCreated(domain.EntityReview)

	event := domain.Event{
		Type:      domain.EventNewReview,
		ReviewID:  id,
		UserID:    in.UserID,
		Rating:    in.Rating,
		Timestamp: time.Now(),
	}
	key := ""
	if in.DishID != nil {
		event.DishID = *in.DishID
		key = s.dishKey(*in.DishID)
	} else {
		event.Restaurant = true
		key = s.restaurantKey()
	}
	s.invalidate(ctx, key)
	publishEvent(ctx, s.publisher, s.logger, event)
	return id, nil
}

func (s *ReviewService) ListForDish(ctx context.Context, dishID int64) ([]domain.Review, error) {
	ids, err := s.store.FindInstanceIDs(ctx, domain.EntityReview, "dish_id", eav.FormatInt(dishID))
	if err != nil {
		return nil, err
	}
	return s.read(ctx, ids)
}

func (s *ReviewService) ListForRestaurant(ctx context.Context) ([]domain.Review, error) {
	ids, err := s.restaurantReviewIDs(ctx)
	if err != nil {
		return nil, err
	}
	return s.read(ctx, ids)
}

func (s *ReviewService) DishRating(ctx context.Context, dishID int64) (domain.Rating, error) {
	if r, ok := s.cached(ctx, s.dishKey(dishID)); ok {
		r.DishID = dishID
		return r, nil
	}
	return s.RefreshDishRating(ctx, dishID)
}

func (s *ReviewService) RestaurantRating(ctx context.Context) (domain.Rating, error) {
	if r, ok := s.cached(ctx, s.restaurantKey()); ok {
		return r, nil
	}
	return s.RefreshRestaurantRating(ctx)
}

// RefreshDishRating recomputes the rating from the store and caches it.
func (s *ReviewService) RefreshDishRating(ctx context.Context, dishID int64) (domain.Rating, error) {
	ids, err := s.store.FindInstanceIDs(ctx, domain.EntityReview, "dish_id", eav.FormatInt(dishID))
	if err != nil {
		return domain.Rating{}, err
	}
	rating, err := s.average(ctx, ids)
	if err != nil {
		return domain.Rating{}, err
	}
	rating.DishID = dishID
	s.remember(ctx, s.dishKey(dishID), rating)
	return rating, nil
}

func (s *ReviewService) RefreshRestaurantRating(ctx context.Context) (domain.Rating, error) {
	ids, err := s.restaurantReviewIDs(ctx)
	if err != nil {
		return domain.Rating{}, err
	}
	rating, err := s.average(ctx, ids)
	if err != nil {
		return domain.Rating{}, err
	}
	s.remember(ctx, s.restaurantKey(), rating)
	return rating, nil
}

func (s *ReviewService) restaurantReviewIDs(ctx context.Context) ([]int64, error) {
	return s.store.FindInstanceIDs(ctx, domain.EntityReview, "restaurant", eav.FormatBool(true))
}

// read returns reviews newest first.
func (s *ReviewService) read(ctx context.Context, ids []int64) ([]domain.Review, error) {
	entities, err := s.store.ReadEntities(ctx, domain.EntityReview, ids)
	if err != nil {
		return nil, err
	}
	reviews := make([]domain.Review, 0, len(entities))
	for _, e := range entities {
		r, err := toReview(e)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		if reviews[i].CreatedAt != reviews[j].CreatedAt {
			return reviews[i].CreatedAt > reviews[j].CreatedAt
		}
		return reviews[i].ReviewID > reviews[j].ReviewID
	})
	return reviews, nil
}

func (s *ReviewService) average(ctx context.Context, ids []int64) (domain.Rating, error) {
	entities, err := s.store.ReadEntities(ctx, domain.EntityReview, ids)
	if err != nil {
		return domain.Rating{}, err
	}
	var (
		sum   float64
		count int
	)
	for _, e := range entities {
		if !e.Attrs.Has("rating") {
			continue
		}
		v, err := e.Attrs.Float("rating")
		if err != nil {
			return domain.Rating{}, err
		}
		sum += v
		count++
	}
	rating := domain.Rating{ReviewCount: count}
	if count > 0 {
		avg := sum / float64(count)
		rating.AvgRating = &avg
	}
	return rating, nil
}

func (s *ReviewService) dishKey(dishID int64) string {
	if s.cache == nil {
		return ""
	}
	return s.cache.DishKey(dishID)
}

func (s *ReviewService) restaurantKey() string {
	if s.cache == nil {
		return ""
	}
	return s.cache.RestaurantKey()
}

// cached treats every cache error as a miss.
func (s *ReviewService) cached(ctx context.Context, key string) (domain.Rating, bool) {
	if s.cache == nil {
		return domain.Rating{}, false
	}
	r, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warnw("rating cache read failed", "key", key, "error", err)
		return domain.Rating{}, false
	}
	if r == nil {
		return domain.Rating{}, false
	}
	return *r, true
}

func (s *ReviewService) remember(ctx context.Context, key string, rating domain.Rating) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, rating); err != nil {
		s.logger.Warnw("rating cache write failed", "key", key, "error", err)
	}
}

func (s *ReviewService) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.logger.Warnw("rating cache invalidation failed", "key", key, "error", err)
	}
}

func toReview(e eav.Entity) (domain.Review, error) {
	userID, err := e.Attrs.Int("user_id")
	if err != nil {
		return domain.Review{}, err
	}
	rating, err := e.Attrs.Int("rating")
	if err != nil {
		return domain.Review{}, err
	}
	dishID, err := e.Attrs.Int("dish_id")
	if err != nil {
		return domain.Review{}, err
	}
	restaurant, err := e.Attrs.Bool("restaurant")
	if err != nil {
		return domain.Review{}, err
	}
	return domain.Review{
		ReviewID:   e.ID,
		UserID:     userID,
		Rating:     int(rating),
		Comment:    e.Attrs.String("comment"),
		DishID:     dishID,
		Restaurant: restaurant,
		CreatedAt:  e.Attrs.String("created_at"),
	}, nil
}
