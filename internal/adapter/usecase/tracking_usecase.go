package usecase

import (
	"context"
	"fmt"
	"time"

	"clicktrack/internal/core/domain"
	"clicktrack/internal/core/port"
	"clicktrack/internal/ratelimit"
)

// RateLimiter admits or rejects one event for an identifier. Satisfied by
// *ratelimit.Limiter; injected so tests can force either outcome.
type RateLimiter interface {
	Allow(identifier string, limit int) ratelimit.Result
}

// TrackingUseCase runs the attribution pipeline and serves the analytics
// views. It orchestrates validation, rate limiting, dedup key derivation
// and the click store; it owns no state of its own beyond configuration.
type TrackingUseCase struct {
	repo    port.ClickRepository
	limiter RateLimiter

	// limit is the number of accepted events per identifier per window.
	limit int

	// now is swapped out in tests for a deterministic clock.
	now func() time.Time
}

// NewTrackingUseCase creates the pipeline with the provided store and
// limiter. rateLimit is the per-fingerprint admission budget per window.
func NewTrackingUseCase(repo port.ClickRepository, limiter RateLimiter, rateLimit int) *TrackingUseCase {
	return &TrackingUseCase{repo: repo, limiter: limiter, limit: rateLimit, now: time.Now}
}

// Track validates and persists one click event. Validation failures and
// rate-limit rejections return sentinel errors and leave the store
// untouched; any other error is a storage failure. The caller is expected
// to complete its own primary action (the user-facing redirect) no matter
// what Track returns.
func (u *TrackingUseCase) Track(ctx context.Context, ev domain.TrackingEvent) (*port.TrackResult, error) {
	if !domain.IsValidFingerprint(ev.Fingerprint) {
		return nil, port.ErrInvalidFingerprint
	}
	if !domain.IsValidCampaignID(ev.CampaignID) {
		return nil, port.ErrInvalidCampaignID
	}
	if !domain.IsValidTargetURL(ev.TargetURL) {
		return nil, port.ErrInvalidTargetURL
	}

	res := u.limiter.Allow(ev.Fingerprint, u.limit)
	if !res.Allowed {
		return nil, port.ErrRateLimited
	}

	now := u.now().UTC()
	language := ev.Language
	if language == "" {
		language = "unknown"
	}

	rec := &domain.ClickRecord{
		DedupKey:    domain.BuildDedupKey(ev.Fingerprint, ev.CampaignID, ev.TargetURL),
		Fingerprint: ev.Fingerprint,
		CampaignID:  ev.CampaignID,
		TargetURL:   ev.TargetURL,
		FirstClick:  now,
		LastClick:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
		ClickCount:  1,
		Device:      ev.Device,
		Referrer:    ev.Referrer,
		IP:          ev.IP,
		Language:    language,
		ServerHash:  ev.ServerHash,
		ClientHash:  ev.ClientHash,
	}
	if err := u.repo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("store click: %w", err)
	}

	return &port.TrackResult{
		Fingerprint: ev.Fingerprint,
		CampaignID:  ev.CampaignID,
		Remaining:   res.Remaining,
	}, nil
}

// Cleanup removes records whose last click predates the retention horizon.
func (u *TrackingUseCase) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := u.now().UTC().Add(-olderThan)
	return u.repo.DeleteOlderThan(ctx, cutoff)
}
