package httpapi

import (
	"context"
	"net/http"
)

// analyticsHandler adapts a read-only aggregation to a GET handler.
func analyticsHandler[T any](h *Handler, query func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := query(r.Context())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func (h *Handler) dailyOrders(w http.ResponseWriter, r *http.Request) {
	analyticsHandler(h, h.Analytics.DailyOrders)(w, r)
}

func (h *Handler) popularDishes(w http.ResponseWriter, r *http.Request) {
	analyticsHandler(h, h.Analytics.PopularDishes)(w, r)
}

func (h *Handler) revenueByDay(w http.ResponseWriter, r *http.Request) {
	analyticsHandler(h, h.Analytics.RevenueByDay)(w, r)
}

func (h *Handler) bookingHeatmap(w http.ResponseWriter, r *http.Request) {
	analyticsHandler(h, h.Analytics.BookingHeatmap)(w, r)
}

func (h *Handler) userLoyalty(w http.ResponseWriter, r *http.Request) {
	analyticsHandler(h, h.Analytics.UserLoyalty)(w, r)
}

func (h *Handler) staffShifts(w http.ResponseWriter, r *http.Request) {
	analyticsHandler(h, h.Analytics.StaffShifts)(w, r)
}

func (h *Handler) staffRevenue(w http.ResponseWriter, r *http.Request) {
	analyticsHandler(h, h.Analytics.StaffRevenue)(w, r)
}
