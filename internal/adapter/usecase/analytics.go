package usecase

import (
	"context"
	"sort"

	"clicktrack/internal/core/domain"
	"clicktrack/internal/core/port"
)

// Analytics views. Everything here is a pure read computed by scanning the
// store at query time, so results always reflect the latest writes. Read
// volume is low relative to writes; no rollups are materialised.

// ListCampaigns groups every record by campaign and reduces each group to
// a summary, sorted by most recent click first. A campaign whose records
// somehow carry no click timestamp sorts last.
func (u *TrackingUseCase) ListCampaigns(ctx context.Context) ([]port.CampaignSummary, error) {
	records, err := u.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byCampaign := make(map[string]*port.CampaignSummary)
	for _, rec := range records {
		summary, ok := byCampaign[rec.CampaignID]
		if !ok {
			summary = &port.CampaignSummary{CampaignID: rec.CampaignID}
			byCampaign[rec.CampaignID] = summary
		}
		summary.UniqueDevices++
		summary.TotalClicks += rec.ClickCount
		if !rec.LastClick.IsZero() && (summary.LastClick == nil || rec.LastClick.After(*summary.LastClick)) {
			last := rec.LastClick
			summary.LastClick = &last
		}
	}

	summaries := make([]port.CampaignSummary, 0, len(byCampaign))
	for _, s := range byCampaign {
		summaries = append(summaries, *s)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].LastClick, summaries[j].LastClick
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return summaries, nil
}

// CampaignDetail returns the per-device list and totals for one campaign.
func (u *TrackingUseCase) CampaignDetail(ctx context.Context, campaignID string) (*port.CampaignAnalytics, error) {
	records, err := u.repo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	devices := make([]port.DeviceAnalytics, 0, len(records))
	var totalClicks int64
	for _, rec := range records {
		devices = append(devices, port.DeviceAnalytics{
			Fingerprint: rec.Fingerprint,
			Device:      rec.Device,
			FirstClick:  rec.FirstClick,
			LastClick:   rec.LastClick,
			ClickCount:  rec.ClickCount,
			Referrer:    rec.Referrer,
		})
		totalClicks += rec.ClickCount
	}

	return &port.CampaignAnalytics{
		CampaignID:    campaignID,
		UniqueDevices: int64(len(devices)),
		TotalClicks:   totalClicks,
		Devices:       devices,
	}, nil
}

// DeviceBreakdown counts a campaign's records per device class.
func (u *TrackingUseCase) DeviceBreakdown(ctx context.Context, campaignID string) (*port.DeviceBreakdown, error) {
	records, err := u.repo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	var breakdown port.DeviceBreakdown
	for _, rec := range records {
		switch rec.Device.Type {
		case domain.DeviceMobile:
			breakdown.Mobile++
		case domain.DeviceTablet:
			breakdown.Tablet++
		case domain.DeviceDesktop:
			breakdown.Desktop++
		default:
			breakdown.Unknown++
		}
	}
	return &breakdown, nil
}

// BrowserBreakdown counts a campaign's records per browser name. The map
// is unordered; presentation applies its own sorting.
func (u *TrackingUseCase) BrowserBreakdown(ctx context.Context, campaignID string) (map[string]int64, error) {
	return u.countBy(ctx, campaignID, func(rec domain.ClickRecord) string { return rec.Device.Browser })
}

// OSBreakdown counts a campaign's records per operating system.
func (u *TrackingUseCase) OSBreakdown(ctx context.Context, campaignID string) (map[string]int64, error) {
	return u.countBy(ctx, campaignID, func(rec domain.ClickRecord) string { return rec.Device.OS })
}

func (u *TrackingUseCase) countBy(ctx context.Context, campaignID string, key func(domain.ClickRecord) string) (map[string]int64, error) {
	records, err := u.repo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(records))
	for _, rec := range records {
		counts[key(rec)]++
	}
	return counts, nil
}

// Totals sums the campaign summaries into the global view.
func (u *TrackingUseCase) Totals(ctx context.Context) (*port.TotalStats, error) {
	summaries, err := u.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	totals := &port.TotalStats{TotalCampaigns: int64(len(summaries))}
	for _, s := range summaries {
		totals.TotalUniqueDevices += s.UniqueDevices
		totals.TotalClicks += s.TotalClicks
	}
	return totals, nil
}
