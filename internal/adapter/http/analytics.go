package httpadapter

import (
	"log/slog"
	"net/http"

	"clicktrack/internal/core/domain"
	"clicktrack/internal/core/port"
)

// overviewResponse is the payload for the all-campaigns view.
type overviewResponse struct {
	Campaigns []port.CampaignSummary `json:"campaigns"`
	Total     *port.TotalStats       `json:"total"`
}

// handleAnalytics serves the read API. Without campaign_id it returns the
// overview (all campaign summaries plus global totals). With campaign_id,
// the optional type selector picks the view: devices, browsers, os, or
// the full per-device detail by default.
func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	campaignID := q.Get("campaign_id")

	if campaignID == "" {
		campaigns, err := h.svc.ListCampaigns(r.Context())
		if err != nil {
			h.analyticsError(w, err)
			return
		}
		totals, err := h.svc.Totals(r.Context())
		if err != nil {
			h.analyticsError(w, err)
			return
		}
		h.respondOK(w, http.StatusOK, overviewResponse{Campaigns: campaigns, Total: totals})
		return
	}

	if !domain.IsValidCampaignID(campaignID) {
		h.respondError(w, http.StatusBadRequest, "Invalid campaign ID")
		return
	}

	var (
		data any
		err  error
	)
	switch q.Get("type") {
	case "devices":
		data, err = h.svc.DeviceBreakdown(r.Context(), campaignID)
	case "browsers":
		data, err = h.svc.BrowserBreakdown(r.Context(), campaignID)
	case "os":
		data, err = h.svc.OSBreakdown(r.Context(), campaignID)
	default:
		data, err = h.svc.CampaignDetail(r.Context(), campaignID)
	}
	if err != nil {
		h.analyticsError(w, err)
		return
	}
	h.respondOK(w, http.StatusOK, data)
}

func (h *Handler) analyticsError(w http.ResponseWriter, err error) {
	h.logger.Error("analytics query error", slog.Any("error", err))
	h.respondError(w, http.StatusInternalServerError, "Failed to fetch analytics data")
}
