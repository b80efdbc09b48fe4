package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"clicktrack/internal/core/domain"
	"clicktrack/internal/core/port"
)

// trackRequest is the inbound tracking event payload. The custom tags are
// registered in newTrackingValidator and delegate to the domain rules.
type trackRequest struct {
	Fingerprint string            `json:"fingerprint" validate:"required,fingerprint"`
	CampaignID  string            `json:"campaign_id" validate:"required,campaign_id"`
	TargetURL   string            `json:"target_url" validate:"required,target_url"`
	ServerHash  string            `json:"server_hash"`
	ClientHash  string            `json:"client_hash"`
	Device      domain.DeviceInfo `json:"device" validate:"required"`
	Referrer    *string           `json:"referrer"`
	IP          *string           `json:"ip"`
	Language    string            `json:"language"`
}

// handleTrack ingests one tracking event. Malformed input produces 400
// before any side effect, rate-limited identifiers get 429, storage
// failures get 500 with a warning that the event may be lost; the caller
// is expected to proceed with its redirect in every case. Successful
// responses carry the remaining quota in X-RateLimit-Remaining.
func (h *Handler) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		eventsRejected.WithLabelValues("validation").Inc()
		h.respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	res, err := h.svc.Track(r.Context(), domain.TrackingEvent{
		Fingerprint: req.Fingerprint,
		CampaignID:  req.CampaignID,
		TargetURL:   req.TargetURL,
		ServerHash:  req.ServerHash,
		ClientHash:  req.ClientHash,
		Device:      req.Device,
		Referrer:    req.Referrer,
		IP:          req.IP,
		Language:    req.Language,
	})
	if err != nil {
		h.writeTrackError(w, err)
		return
	}

	eventsTracked.Inc()
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.respondOK(w, http.StatusOK, res)
}

func (h *Handler) writeTrackError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, port.ErrRateLimited):
		eventsRejected.WithLabelValues("rate_limit").Inc()
		h.respondError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
	case errors.Is(err, port.ErrInvalidFingerprint):
		eventsRejected.WithLabelValues("validation").Inc()
		h.respondError(w, http.StatusBadRequest, "Invalid fingerprint format")
	case errors.Is(err, port.ErrInvalidCampaignID):
		eventsRejected.WithLabelValues("validation").Inc()
		h.respondError(w, http.StatusBadRequest, "Invalid campaign ID")
	case errors.Is(err, port.ErrInvalidTargetURL):
		eventsRejected.WithLabelValues("validation").Inc()
		h.respondError(w, http.StatusBadRequest, "Invalid target URL")
	default:
		eventsRejected.WithLabelValues("storage").Inc()
		h.logger.Error("tracking store error", slog.Any("error", err))
		h.respondErrorWithWarning(w, http.StatusInternalServerError,
			"Internal server error", "Tracking data may not have been recorded")
	}
}

// validationMessage maps the first failed rule onto the public message for
// that field, so callers see which gate rejected them without leaking
// validator internals.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	switch verrs[0].Tag() {
	case "required":
		return "Missing required fields"
	case "fingerprint":
		return "Invalid fingerprint format"
	case "campaign_id":
		return "Invalid campaign ID"
	case "target_url":
		return "Invalid target URL"
	default:
		return "invalid request"
	}
}
