package httpadapter

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clicktrack/internal/core/domain"
	"clicktrack/internal/core/port"
)

// Handler is the inbound HTTP adapter. It holds the tracking usecase, a
// structured logger and a request validator, and registers all routes on
// a chi.Router.
type Handler struct {
	svc      port.TrackingUseCase
	logger   *slog.Logger
	router   chi.Router
	validate *validator.Validate

	// trackTimeout bounds the detached tracking work spawned by the
	// redirect endpoint; the redirect itself never waits on it.
	trackTimeout time.Duration
}

// NewHandler creates a handler with all routes configured. trackTimeout
// caps how long a fire-and-forget tracking attempt may run.
func NewHandler(svc port.TrackingUseCase, logger *slog.Logger, trackTimeout time.Duration) *Handler {
	h := &Handler{svc: svc, logger: logger, trackTimeout: trackTimeout}
	h.validate = newTrackingValidator()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metricsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/track", h.handleTrack)
		r.Get("/analytics", h.handleAnalytics)
		r.Get("/analytics/export", h.handleAnalyticsExport)
	})
	r.Get("/t/{campaignID}", h.handleRedirect)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.respondError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// newTrackingValidator wires the domain validation rules into struct tags
// so request DTOs carry their own constraints.
func newTrackingValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("fingerprint", func(fl validator.FieldLevel) bool {
		return domain.IsValidFingerprint(fl.Field().String())
	})
	_ = v.RegisterValidation("campaign_id", func(fl validator.FieldLevel) bool {
		return domain.IsValidCampaignID(fl.Field().String())
	})
	_ = v.RegisterValidation("target_url", func(fl validator.FieldLevel) bool {
		return domain.IsValidTargetURL(fl.Field().String())
	})
	return v
}
