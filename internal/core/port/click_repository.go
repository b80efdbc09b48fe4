package port

import (
	"context"
	"time"

	"clicktrack/internal/core/domain"
)

// ClickRepository is the outbound port for click persistence. The store
// must expose get-by-key, an atomic create-or-increment upsert, equality
// scans on campaign_id and bulk deletion for retention sweeps.
// Implementations must be safe for concurrent use.
type ClickRepository interface {
	// Upsert inserts rec when its dedup key is unseen, otherwise
	// atomically increments click_count by one and refreshes last_click,
	// target_url and updated_at. The increment must happen at the store
	// level, never as application-side read-modify-write. The device
	// snapshot and remaining metadata keep their creation values.
	Upsert(ctx context.Context, rec *domain.ClickRecord) error

	// GetByKey returns the record for a dedup key, or nil when absent.
	GetByKey(ctx context.Context, key string) (*domain.ClickRecord, error)

	// ListAll returns every stored record.
	ListAll(ctx context.Context) ([]domain.ClickRecord, error)

	// ListByCampaign returns every record for one campaign.
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.ClickRecord, error)

	// DeleteOlderThan removes records whose last_click predates cutoff and
	// returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
