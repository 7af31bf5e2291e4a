package httpapi

import (
	"net/http"

	"restoflow/internal/domain"
)

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	var in domain.ReviewInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := h.Reviews.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "created", "review_id": id})
}

func (h *Handler) dishReviews(w http.ResponseWriter, r *http.Request) {
	dishID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	reviews, err := h.Reviews.ListForDish(r.Context(), dishID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) restaurantReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.ListForRestaurant(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) dishRating(w http.ResponseWriter, r *http.Request) {
	dishID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rating, err := h.Reviews.DishRating(r.Context(), dishID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

func (h *Handler) restaurantRating(w http.ResponseWriter, r *http.Request) {
	rating, err := h.Reviews.RestaurantRating(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}
