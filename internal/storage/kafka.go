package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"restoflow/internal/domain"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

// Publish keys order events by order id and review events by their target,
// so events for one aggregate stay on one partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventKey(event)),
		Value: payload,
	})
}

func eventKey(event domain.Event) string {
	switch {
	case event.Type == domain.EventOrderPlaced:
		return "order:" + strconv.FormatInt(event.OrderID, 10)
	case event.Restaurant:
		return "restaurant"
	default:
		return "dish:" + strconv.FormatInt(event.DishID, 10)
	}
}
