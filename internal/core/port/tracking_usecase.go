package port

import (
	"context"
	"errors"
	"time"

	"clicktrack/internal/core/domain"
)

// Rejection reasons surfaced by the tracking pipeline. Validation errors
// mean the event never reached the store; ErrRateLimited means the
// identifier exhausted its window and may retry later. Anything else
// returned by Track is a storage failure.
var (
	ErrInvalidFingerprint = errors.New("invalid fingerprint format")
	ErrInvalidCampaignID  = errors.New("invalid campaign id")
	ErrInvalidTargetURL   = errors.New("invalid target url")
	ErrRateLimited        = errors.New("rate limit exceeded")
)

// TrackingUseCase is the primary port into the attribution pipeline and
// its analytics views.
type TrackingUseCase interface {
	// Track validates the event, admits it through the rate limiter and
	// upserts the click record. It returns the remaining per-identifier
	// quota on success.
	Track(ctx context.Context, ev domain.TrackingEvent) (*TrackResult, error)

	// ListCampaigns returns one summary per distinct campaign, sorted by
	// most recent click first; campaigns without a click sort last.
	ListCampaigns(ctx context.Context) ([]CampaignSummary, error)

	// CampaignDetail returns per-device records plus totals for one campaign.
	CampaignDetail(ctx context.Context, campaignID string) (*CampaignAnalytics, error)

	// DeviceBreakdown counts a campaign's records per device type.
	DeviceBreakdown(ctx context.Context, campaignID string) (*DeviceBreakdown, error)

	// BrowserBreakdown counts a campaign's records per browser name.
	BrowserBreakdown(ctx context.Context, campaignID string) (map[string]int64, error)

	// OSBreakdown counts a campaign's records per operating system.
	OSBreakdown(ctx context.Context, campaignID string) (map[string]int64, error)

	// Totals sums campaign count, unique devices and clicks across the store.
	Totals(ctx context.Context) (*TotalStats, error)

	// Cleanup removes records not clicked within the retention horizon and
	// returns how many were removed.
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}

// TrackResult acknowledges an accepted event. Remaining is the rate-limit
// quota left for the identifier inside the current window; it travels in a
// response header rather than the body.
type TrackResult struct {
	Fingerprint string `json:"fingerprint"`
	CampaignID  string `json:"campaign_id"`
	Remaining   int    `json:"-"`
}

// CampaignSummary aggregates one campaign: how many distinct devices
// clicked it, the sum of their counters and the most recent click.
type CampaignSummary struct {
	CampaignID    string     `json:"campaign_id"`
	UniqueDevices int64      `json:"unique_devices"`
	TotalClicks   int64      `json:"total_clicks"`
	LastClick     *time.Time `json:"last_click"`
}

// DeviceAnalytics is the per-device row inside a campaign detail view.
type DeviceAnalytics struct {
	Fingerprint string            `json:"fingerprint"`
	Device      domain.DeviceInfo `json:"device"`
	FirstClick  time.Time         `json:"first_click"`
	LastClick   time.Time         `json:"last_click"`
	ClickCount  int64             `json:"click_count"`
	Referrer    *string           `json:"referrer"`
}

// CampaignAnalytics is the full detail view for one campaign.
type CampaignAnalytics struct {
	CampaignID    string            `json:"campaign_id"`
	UniqueDevices int64             `json:"unique_devices"`
	TotalClicks   int64             `json:"total_clicks"`
	Devices       []DeviceAnalytics `json:"devices"`
}

// DeviceBreakdown counts records per device class.
type DeviceBreakdown struct {
	Mobile  int64 `json:"mobile"`
	Tablet  int64 `json:"tablet"`
	Desktop int64 `json:"desktop"`
	Unknown int64 `json:"unknown"`
}

// TotalStats sums the analytics across every campaign.
type TotalStats struct {
	TotalCampaigns     int64 `json:"total_campaigns"`
	TotalUniqueDevices int64 `json:"total_unique_devices"`
	TotalClicks        int64 `json:"total_clicks"`
}
