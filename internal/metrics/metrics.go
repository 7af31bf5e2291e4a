package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "restoflow",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restoflow",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "restoflow",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	entitiesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restoflow",
			Subsystem: "store",
			Name:      "entities_created_total",
			Help:      "Entities created through the domain services.",
		},
		[]string{"entity"},
	)

	orderRevenue = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "restoflow",
			Subsystem: "orders",
			Name:      "revenue_total",
			Help:      "Sum of placed order totals.",
		},
	)

	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restoflow",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Domain events handed to the publisher.",
		},
		[]string{"type", "success"},
	)

	eventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restoflow",
			Subsystem: "events",
			Name:      "consumed_total",
			Help:      "Domain events processed by the aggregator.",
		},
		[]string{"type", "success"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		entitiesCreated,
		orderRevenue,
		eventsPublished,
		eventsConsumed,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler records request counts and latency per route template.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		path := routePath(r)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

func RecordEntityCreated(entity string) {
	entitiesCreated.WithLabelValues(entity).Inc()
}

func RecordOrderRevenue(total float64) {
	if total > 0 {
		orderRevenue.Add(total)
	}
}

func RecordEventPublished(eventType string, success bool) {
	eventsPublished.WithLabelValues(eventType, strconv.FormatBool(success)).Inc()
}

func RecordEventConsumed(eventType string, success bool) {
	if eventType == "" {
		eventType = "unknown"
	}
	eventsConsumed.WithLabelValues(eventType, strconv.FormatBool(success)).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// routePath prefers the matched mux template so ids do not explode label cardinality.
func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	trimmed := strings.Trim(r.URL.Path, "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + strings.SplitN(trimmed, "/", 2)[0]
}
