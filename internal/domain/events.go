package domain

import "time"

const (
	EventOrderPlaced = "order_placed"
	EventNewReview   = "new_review"
)

type Event struct {
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id,omitempty"`
	UserID     int64     `json:"user_id,omitempty"`
	ReviewID   int64     `json:"review_id,omitempty"`
	DishID     int64     `json:"dish_id,omitempty"`
	Restaurant bool      `json:"restaurant,omitempty"`
	Rating     int       `json:"rating,omitempty"`
	Total      float64   `json:"total,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
