package httpapi

import (
	"net/http"

	"restoflow/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	// RPS of zero disables rate limiting.
	RPS    float64
	Burst  int
	Logger *zap.SugaredLogger
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	r := mux.NewRouter()
	r.Use(requestLogger(logger))
	if cfg.RPS > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)))
	}
	r.Use(metrics.InstrumentHandler)
	h.RegisterRoutes(r)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
