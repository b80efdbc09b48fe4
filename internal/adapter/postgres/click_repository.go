package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clicktrack/internal/core/domain"
)

// ClickRepository implements port.ClickRepository using pgxpool.
type ClickRepository struct {
	pool *pgxpool.Pool
}

// NewClickRepository returns a new repository instance.
func NewClickRepository(pool *pgxpool.Pool) *ClickRepository {
	return &ClickRepository{pool: pool}
}

const clickColumns = `dedup_key, fingerprint, campaign_id, target_url,
	first_click, last_click, created_at, updated_at, click_count,
	device_type, browser, browser_version, os, os_version, user_agent,
	referrer, ip, language, server_hash, client_hash`

// Upsert inserts a fresh record or bumps an existing one in a single
// statement, so two events for the same key arriving concurrently can
// never lose an increment or create a duplicate row. On conflict only the
// counter, last_click, target_url and updated_at change; the device
// snapshot stays as captured by the creating event.
func (r *ClickRepository) Upsert(ctx context.Context, rec *domain.ClickRecord) error {
	query := `
		INSERT INTO clicks (` + clickColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		ON CONFLICT (dedup_key) DO UPDATE SET
			click_count = clicks.click_count + 1,
			last_click  = EXCLUDED.last_click,
			target_url  = EXCLUDED.target_url,
			updated_at  = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		rec.DedupKey,
		rec.Fingerprint,
		rec.CampaignID,
		rec.TargetURL,
		rec.FirstClick,
		rec.LastClick,
		rec.CreatedAt,
		rec.UpdatedAt,
		rec.ClickCount,
		string(rec.Device.Type),
		rec.Device.Browser,
		rec.Device.BrowserVersion,
		rec.Device.OS,
		rec.Device.OSVersion,
		rec.Device.UserAgent,
		rec.Referrer,
		rec.IP,
		rec.Language,
		rec.ServerHash,
		rec.ClientHash,
	)
	if err != nil {
		return fmt.Errorf("upsert click: %w", err)
	}
	return nil
}

// GetByKey returns the record for a dedup key, or nil when absent.
func (r *ClickRepository) GetByKey(ctx context.Context, key string) (*domain.ClickRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+clickColumns+` FROM clicks WHERE dedup_key = $1`, key)
	rec, err := scanClick(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListAll returns every stored record.
func (r *ClickRepository) ListAll(ctx context.Context) ([]domain.ClickRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clickColumns+` FROM clicks`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, collectClick)
}

// ListByCampaign returns every record for one campaign.
func (r *ClickRepository) ListByCampaign(ctx context.Context, campaignID string) ([]domain.ClickRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clickColumns+` FROM clicks WHERE campaign_id = $1`, campaignID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, collectClick)
}

// DeleteOlderThan removes records whose last click predates cutoff.
func (r *ClickRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clicks WHERE last_click < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old clicks: %w", err)
	}
	return tag.RowsAffected(), nil
}

func collectClick(row pgx.CollectableRow) (domain.ClickRecord, error) {
	return scanClick(row)
}

func scanClick(row pgx.Row) (domain.ClickRecord, error) {
	var (
		rec        domain.ClickRecord
		deviceType string
	)
	err := row.Scan(
		&rec.DedupKey,
		&rec.Fingerprint,
		&rec.CampaignID,
		&rec.TargetURL,
		&rec.FirstClick,
		&rec.LastClick,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.ClickCount,
		&deviceType,
		&rec.Device.Browser,
		&rec.Device.BrowserVersion,
		&rec.Device.OS,
		&rec.Device.OSVersion,
		&rec.Device.UserAgent,
		&rec.Referrer,
		&rec.IP,
		&rec.Language,
		&rec.ServerHash,
		&rec.ClientHash,
	)
	rec.Device.Type = domain.DeviceType(deviceType)
	return rec, err
}
