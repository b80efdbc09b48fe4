package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clicktrack/internal/core/domain"
	"clicktrack/internal/device"
)

// handleRedirect serves a tracking link: it captures the server-side
// signal, combines it with the client-side signal (the optional ch query
// parameter, falling back to a degraded deterministic hash), then fires
// the pipeline on a detached goroutine with its own deadline and redirects
// immediately. Tracking is best-effort; nothing on this path may delay or
// fail the redirect once the inputs validate.
func (h *Handler) handleRedirect(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignID")
	target := r.URL.Query().Get("url")

	if !domain.IsValidCampaignID(campaignID) {
		h.respondError(w, http.StatusBadRequest, "Invalid campaign ID")
		return
	}
	if !domain.IsValidTargetURL(target) {
		h.respondError(w, http.StatusBadRequest, "Invalid target URL")
		return
	}

	userAgent := r.UserAgent()
	ip := clientIP(r)
	language := primaryLanguage(r.Header.Get("Accept-Language"))

	serverHash := domain.ServerHash(userAgent, ip, language)
	clientHash := r.URL.Query().Get("ch")
	if clientHash == "" {
		clientHash = domain.FallbackClientHash(userAgent, language, 0, 0, 0, 0, 0, 0)
	}

	ev := domain.TrackingEvent{
		Fingerprint: domain.Combine(serverHash, clientHash),
		CampaignID:  campaignID,
		TargetURL:   target,
		ServerHash:  serverHash,
		ClientHash:  clientHash,
		Device:      device.Parse(userAgent),
		Referrer:    optional(r.Referer()),
		IP:          optional(ip),
		Language:    language,
	}

	// visit token ties the redirect log line to the async tracking outcome
	visit := uuid.NewString()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.trackTimeout)
		defer cancel()
		if res, err := h.svc.Track(ctx, ev); err != nil {
			eventsRejected.WithLabelValues(rejectReason(err)).Inc()
			h.logger.Warn("tracking failed",
				slog.String("visit", visit),
				slog.String("campaign_id", campaignID),
				slog.Any("error", err))
		} else {
			eventsTracked.Inc()
			h.logger.Debug("click tracked",
				slog.String("visit", visit),
				slog.String("campaign_id", campaignID),
				slog.Int("remaining", res.Remaining))
		}
	}()

	h.logger.Info("redirect",
		slog.String("visit", visit),
		slog.String("campaign_id", campaignID),
		slog.String("target", target))
	http.Redirect(w, r, target, http.StatusFound)
}

// clientIP returns the requester's address without the port. The RealIP
// middleware has already resolved X-Forwarded-For / X-Real-IP into
// RemoteAddr by the time this runs.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// primaryLanguage extracts the first tag of an Accept-Language header.
func primaryLanguage(header string) string {
	lang, _, _ := strings.Cut(header, ",")
	lang, _, _ = strings.Cut(lang, ";")
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "unknown"
	}
	return lang
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
