package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"restoflow/internal/domain"
	"restoflow/internal/metrics"
	"restoflow/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Services groups the service layer the handlers depend on.
type Services struct {
	Menu      service.MenuServiceInterface
	Admin     service.AdminServiceInterface
	Cart      service.CartServiceInterface
	Orders    service.OrderServiceInterface
	Bookings  service.BookingServiceInterface
	Tables    service.TableServiceInterface
	Reviews   service.ReviewServiceInterface
	Users     service.UserServiceInterface
	News      service.NewsServiceInterface
	Contact   service.ContactServiceInterface
	Analytics service.AnalyticsServiceInterface
}

type Handler struct {
	Menu      service.MenuServiceInterface
	Admin     service.AdminServiceInterface
	Cart      service.CartServiceInterface
	Orders    service.OrderServiceInterface
	Bookings  service.BookingServiceInterface
	Tables    service.TableServiceInterface
	Reviews   service.ReviewServiceInterface
	Users     service.UserServiceInterface
	News      service.NewsServiceInterface
	Contact   service.ContactServiceInterface
	Analytics service.AnalyticsServiceInterface

	Version string
	logger  *zap.SugaredLogger
}

func NewHandler(svc Services, version string, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		Menu:      svc.Menu,
		Admin:     svc.Admin,
		Cart:      svc.Cart,
		Orders:    svc.Orders,
		Bookings:  svc.Bookings,
		Tables:    svc.Tables,
		Reviews:   svc.Reviews,
		Users:     svc.Users,
		News:      svc.News,
		Contact:   svc.Contact,
		Analytics: svc.Analytics,
		Version:   version,
		logger:    logger,
	}
}

// RegisterRoutes wires every endpoint. Fixed admin paths are registered
// before the generic /admin/{entity_type} routes so they take precedence.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ping", h.ping).Methods("GET")
	r.HandleFunc("/version", h.version).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	r.HandleFunc("/menu", h.getMenu).Methods("GET")

	r.HandleFunc("/admin/dish", h.createDish).Methods("POST")
	r.HandleFunc("/admin/dish/{id:[0-9]+}", h.updateDish).Methods("PUT")
	r.HandleFunc("/admin/dish/{id:[0-9]+}", h.deleteDish).Methods("DELETE")
	r.HandleFunc("/admin/category", h.createCategory).Methods("POST")
	r.HandleFunc("/admin/category/{name}", h.deleteCategory).Methods("DELETE")
	r.HandleFunc("/admin/_ent", h.listEntityTypes).Methods("GET")
	r.HandleFunc("/admin/_ent", h.registerEntityType).Methods("POST")
	r.HandleFunc("/admin/_ent/{name}", h.deleteEntityType).Methods("DELETE")
	r.HandleFunc("/admin/{entity_type}", h.listEntities).Methods("GET")
	r.HandleFunc("/admin/{entity_type}/{id:[0-9]+}", h.getEntity).Methods("GET")
	r.HandleFunc("/admin/{entity_type}/{id:[0-9]+}", h.updateEntity).Methods("PUT")
	r.HandleFunc("/admin/{entity_type}/{id:[0-9]+}", h.deleteEntity).Methods("DELETE")

	r.HandleFunc("/analytics/daily-orders", h.dailyOrders).Methods("GET")
	r.HandleFunc("/analytics/popular-dishes", h.popularDishes).Methods("GET")
	r.HandleFunc("/analytics/revenue-by-day", h.revenueByDay).Methods("GET")
	r.HandleFunc("/analytics/booking-heatmap", h.bookingHeatmap).Methods("GET")
	r.HandleFunc("/analytics/user-loyalty", h.userLoyalty).Methods("GET")
	r.HandleFunc("/analytics/staff/shifts", h.staffShifts).Methods("GET")
	r.HandleFunc("/analytics/staff/revenue", h.staffRevenue).Methods("GET")

	r.HandleFunc("/booking", h.createBooking).Methods("POST")
	r.HandleFunc("/booking", h.listBookings).Methods("GET")
	r.HandleFunc("/booking/{user_id:[0-9]+}", h.userBookings).Methods("GET")

	r.HandleFunc("/cart/add", h.addToCart).Methods("POST")
	r.HandleFunc("/cart/{user_id:[0-9]+}", h.getCart).Methods("GET")
	r.HandleFunc("/cart/{user_id:[0-9]+}/{dish_id:[0-9]+}", h.removeFromCart).Methods("DELETE")

	r.HandleFunc("/contact_info", h.contactInfo).Methods("GET")
	r.HandleFunc("/contact_message", h.contactMessage).Methods("POST")

	r.HandleFunc("/news", h.createNews).Methods("POST")
	r.HandleFunc("/news", h.listNews).Methods("GET")
	r.HandleFunc("/news/{id:[0-9]+}", h.getNews).Methods("GET")

	r.HandleFunc("/order", h.placeOrder).Methods("POST")
	r.HandleFunc("/order/{id:[0-9]+}/qrcode", h.orderQRCode).Methods("GET")
	r.HandleFunc("/orders", h.listOrders).Methods("GET")
	r.HandleFunc("/orders/{user_id:[0-9]+}", h.userOrders).Methods("GET")

	r.HandleFunc("/review", h.createReview).Methods("POST")
	r.HandleFunc("/reviews/dish/{id:[0-9]+}", h.dishReviews).Methods("GET")
	r.HandleFunc("/reviews/restaurant", h.restaurantReviews).Methods("GET")
	r.HandleFunc("/rating/dish/{id:[0-9]+}", h.dishRating).Methods("GET")
	r.HandleFunc("/rating/restaurant", h.restaurantRating).Methods("GET")

	r.HandleFunc("/tables", h.listTables).Methods("GET")
	r.HandleFunc("/tables/availability", h.tableAvailability).Methods("GET")
	r.HandleFunc("/tables/free", h.freeTables).Methods("GET")

	r.HandleFunc("/register", h.register).Methods("POST")
	r.HandleFunc("/login", h.login).Methods("POST")
	r.HandleFunc("/user/{id:[0-9]+}", h.getUser).Methods("GET")
	r.HandleFunc("/users", h.listUsers).Methods("GET")
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": h.Version})
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps the error class onto a status code. Storage failures are
// logged and their detail is not exposed.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	class := domain.ErrorClass(err)
	status := http.StatusInternalServerError
	detail := "internal error"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, detail = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrValidation):
		status, detail = http.StatusBadRequest, err.Error()
	default:
		h.logger.Errorw("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, errorResponse{Error: class, Detail: detail})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, name)
	}
	return id, nil
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}
