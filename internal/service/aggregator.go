package service

import (
	"context"
	"encoding/json"
	"time"

	"restoflow/internal/domain"
	"restoflow/internal/metrics"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafka.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	defaultRetryDelay    = 500 * time.Millisecond
	defaultMaxRetryDelay = 30 * time.Second
)

// Aggregator applies the side effects of domain events: loyalty accrual for
// placed orders and rating cache refresh for new reviews.
type Aggregator struct {
	Reader  MessageReader
	Loyalty LoyaltyAccruer
	Ratings RatingRefresher

	// RetryDelay is the first pause after a failed fetch or handle; it doubles
	// up to MaxRetryDelay.
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration

	logger *zap.SugaredLogger
}

func NewAggregator(reader MessageReader, loyalty LoyaltyAccruer, ratings RatingRefresher, logger *zap.SugaredLogger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Aggregator{
		Reader:        reader,
		Loyalty:       loyalty,
		Ratings:       ratings,
		RetryDelay:    defaultRetryDelay,
		MaxRetryDelay: defaultMaxRetryDelay,
		logger:        logger,
	}
}

// Start consumes until ctx is cancelled. A message is committed only once
// handled; a failing message is retried in place so the group offset never
// moves past it. A message that cannot be decoded is committed and dropped.
func (a *Aggregator) Start(ctx context.Context) error {
	a.logger.Infow("starting event aggregator")
	fetchDelay := a.newBackoff()
	for {
		msg, err := a.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			wait := fetchDelay.next()
			a.logger.Errorw("failed to fetch message", "retry_in", wait, "error", err)
			if !sleepCtx(ctx, wait) {
				return nil
			}
			continue
		}
		fetchDelay.reset()

		var event domain.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			a.logger.Errorw("failed to decode event", "offset", msg.Offset, "error", err)
			a.commit(ctx, msg)
			continue
		}

		if !a.handleUntilDone(ctx, msg, event) {
			return nil
		}
		a.commit(ctx, msg)
	}
}

// handleUntilDone retries Handle with backoff. It reports false when ctx ends
// first, leaving the message uncommitted for the next consumer.
func (a *Aggregator) handleUntilDone(ctx context.Context, msg kafka.Message, event domain.Event) bool {
	delay := a.newBackoff()
	for attempt := 1; ; attempt++ {
		err := a.Handle(ctx, event)
		if err == nil {
			return true
		}
		wait := delay.next()
		a.logger.Errorw("failed to handle event",
			"type", event.Type,
			"offset", msg.Offset,
			"attempt", attempt,
			"retry_in", wait,
			"error", err,
		)
		if !sleepCtx(ctx, wait) {
			return false
		}
	}
}

func (a *Aggregator) Handle(ctx context.Context, event domain.Event) error {
	var err error
	switch event.Type {
	case domain.EventOrderPlaced:
		err = a.Loyalty.AccrueLoyalty(ctx, event.UserID, event.OrderID, event.Total)
	case domain.EventNewReview:
		if event.Restaurant {
			_, err = a.Ratings.RefreshRestaurantRating(ctx)
		} else {
			_, err = a.Ratings.RefreshDishRating(ctx, event.DishID)
		}
	default:
		a.logger.Debugw("ignoring event", "type", event.Type)
		return nil
	}
	metrics.RecordEventConsumed(event.Type, err == nil)
	return err
}

func (a *Aggregator) commit(ctx context.Context, msg kafka.Message) {
	if err := a.Reader.CommitMessages(ctx, msg); err != nil {
		a.logger.Errorw("failed to commit message", "offset", msg.Offset, "error", err)
	}
}

func (a *Aggregator) newBackoff() *backoff {
	return &backoff{base: a.RetryDelay, max: a.MaxRetryDelay}
}

type backoff struct {
	base, max, cur time.Duration
}

func (b *backoff) next() time.Duration {
	switch {
	case b.cur == 0:
		b.cur = b.base
	case b.cur < b.max:
		b.cur *= 2
	}
	if b.cur > b.max {
		b.cur = b.max
	}
	return b.cur
}

func (b *backoff) reset() {
	b.cur = 0
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
