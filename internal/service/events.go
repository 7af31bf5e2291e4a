package service

import (
	"context"

	"restoflow/internal/domain"
	"restoflow/internal/metrics"

	"go.uber.org/zap"
)

// EventHandler consumes domain events in process.
type EventHandler interface {
	Handle(ctx context.Context, event domain.Event) error
}

// DirectPublisher hands events straight to a handler when no broker is configured.
type DirectPublisher struct {
	Handler EventHandler
}

func NewDirectPublisher(handler EventHandler) *DirectPublisher {
	return &DirectPublisher{Handler: handler}
}

func (p *DirectPublisher) Publish(ctx context.Context, event domain.Event) error {
	return p.Handler.Handle(ctx, event)
}

// publishEvent runs after commit; a failure is logged and never fails the caller.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.SugaredLogger, event domain.Event) {
	if publisher == nil {
		return
	}
	err := publisher.Publish(ctx, event)
	metrics.RecordEventPublished(event.Type, err == nil)
	if err != nil {
		logger.Warnw("failed to publish event",
			"type", event.Type,
			"order_id", event.OrderID,
			"review_id", event.ReviewID,
			"error", err,
		)
	}
}
