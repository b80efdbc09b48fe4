package httpadapter

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"clicktrack/internal/core/port"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	eventsTracked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clicktrack_events_tracked_total",
			Help: "Tracking events accepted and stored",
		},
	)

	eventsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clicktrack_events_rejected_total",
			Help: "Tracking events rejected before storage",
		},
		[]string{"reason"},
	)
)

// metricsMiddleware records request counts and latencies. Labels use the
// matched chi route pattern to keep cardinality low.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(ww.Status()),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, port.ErrRateLimited):
		return "rate_limit"
	case errors.Is(err, port.ErrInvalidFingerprint),
		errors.Is(err, port.ErrInvalidCampaignID),
		errors.Is(err, port.ErrInvalidTargetURL):
		return "validation"
	default:
		return "storage"
	}
}
