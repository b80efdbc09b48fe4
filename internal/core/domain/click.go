package domain

import "time"

// DeviceType classifies the physical device behind a click.
type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
	DeviceUnknown DeviceType = "unknown"
)

// DeviceInfo is a snapshot of the requesting device, parsed from the
// User-Agent of the request that created the record.
type DeviceInfo struct {
	Type           DeviceType `json:"type"`
	Browser        string     `json:"browser"`
	BrowserVersion string     `json:"browser_version"`
	OS             string     `json:"os"`
	OSVersion      string     `json:"os_version"`
	UserAgent      string     `json:"user_agent"`
}

// TrackingEvent carries everything a single accepted click contributes to
// storage. Referrer and IP are best-effort and may be absent.
type TrackingEvent struct {
	Fingerprint string
	CampaignID  string
	TargetURL   string
	ServerHash  string
	ClientHash  string
	Device      DeviceInfo
	Referrer    *string
	IP          *string
	Language    string
}

// ClickRecord is the persisted aggregate of all accepted events for one
// dedup key. It is created once and mutated in place: click_count grows by
// one per event, last_click and target_url are refreshed, everything else
// keeps its creation value (the device snapshot is deliberately frozen).
type ClickRecord struct {
	DedupKey    string     `json:"-"`
	Fingerprint string     `json:"fingerprint"`
	CampaignID  string     `json:"campaign_id"`
	TargetURL   string     `json:"target_url"`
	FirstClick  time.Time  `json:"first_click"`
	LastClick   time.Time  `json:"last_click"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ClickCount  int64      `json:"click_count"`
	Device      DeviceInfo `json:"device"`
	Referrer    *string    `json:"referrer"`
	IP          *string    `json:"ip"`
	Language    string     `json:"language"`
	ServerHash  string     `json:"-"`
	ClientHash  string     `json:"-"`
}
