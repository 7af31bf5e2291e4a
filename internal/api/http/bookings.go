package httpapi

import (
	"net/http"
	"strconv"

	"restoflow/internal/domain"
)

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	var in domain.BookingInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := h.Bookings.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "created", "booking_id": id})
}

func (h *Handler) listBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Bookings.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}

func (h *Handler) userBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	bookings, err := h.Bookings.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Tables.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *Handler) tableAvailability(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Tables.Availability(r.Context(), r.URL.Query().Get("datetime"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *Handler) freeTables(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := domain.FreeTablesQuery{
		Datetime: q.Get("datetime"),
		Location: q.Get("location"),
	}
	if raw := q.Get("duration_minutes"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			h.writeError(w, r, validationError("duration_minutes must be a positive integer"))
			return
		}
		query.DurationMinutes = v
	}
	if raw := q.Get("min_seats"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeError(w, r, validationError("min_seats must be an integer"))
			return
		}
		query.MinSeats = v
	}
	tables, err := h.Tables.Free(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}
