package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"restoflow/internal/domain"
	"restoflow/internal/storage"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		event       domain.Event
		expectedKey string
	}{
		{
			name:        "order_placed",
			event:       domain.Event{Type: domain.EventOrderPlaced, OrderID: 5, UserID: 2, Total: 900, Timestamp: ts},
			expectedKey: "order:5",
		},
		{
			name:        "dish_review",
			event:       domain.Event{Type: domain.EventNewReview, ReviewID: 1, DishID: 3, Rating: 4, Timestamp: ts},
			expectedKey: "dish:3",
		},
		{
			name:        "restaurant_review",
			event:       domain.Event{Type: domain.EventNewReview, ReviewID: 2, Restaurant: true, Rating: 5, Timestamp: ts},
			expectedKey: "restaurant",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			writer := &recordingWriter{}
			publisher := storage.NewKafkaPublisher(writer)

			require.NoError(t, publisher.Publish(context.Background(), testCase.event))
			require.Len(t, writer.messages, 1)
			assert.Equal(t, testCase.expectedKey, string(writer.messages[0].Key))

			var decoded domain.Event
			require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
			assert.Equal(t, testCase.event, decoded)
		})
	}
}

func TestKafkaPublisher_WriterError(t *testing.T) {
	publisher := storage.NewKafkaPublisher(&recordingWriter{err: errors.New("broker down")})

	err := publisher.Publish(context.Background(), domain.Event{Type: domain.EventOrderPlaced, OrderID: 1})
	assert.EqualError(t, err, "broker down")
}
