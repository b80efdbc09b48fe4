package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clicktrack/internal/core/domain"
	"clicktrack/internal/core/port"
	"clicktrack/internal/ratelimit"
)

// memRepo is an in-memory ClickRepository with the same upsert semantics
// as the real store: create on first sight, otherwise increment the
// counter, refresh last_click and target_url, keep everything else.
type memRepo struct {
	mu      sync.Mutex
	records map[string]*domain.ClickRecord
	failErr error
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[string]*domain.ClickRecord)}
}

func (m *memRepo) Upsert(_ context.Context, rec *domain.ClickRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	existing, ok := m.records[rec.DedupKey]
	if !ok {
		cp := *rec
		m.records[rec.DedupKey] = &cp
		return nil
	}
	existing.ClickCount++
	existing.LastClick = rec.LastClick
	existing.TargetURL = rec.TargetURL
	existing.UpdatedAt = rec.UpdatedAt
	return nil
}

func (m *memRepo) GetByKey(_ context.Context, key string) (*domain.ClickRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *memRepo) ListAll(_ context.Context) ([]domain.ClickRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ClickRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, *rec)
	}
	return out, nil
}

func (m *memRepo) ListByCampaign(_ context.Context, campaignID string) ([]domain.ClickRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ClickRecord
	for _, rec := range m.records {
		if rec.CampaignID == campaignID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *memRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for key, rec := range m.records {
		if rec.LastClick.Before(cutoff) {
			delete(m.records, key)
			removed++
		}
	}
	return removed, nil
}

// stubLimiter returns a fixed admission decision.
type stubLimiter struct {
	res ratelimit.Result
}

func (s stubLimiter) Allow(string, int) ratelimit.Result { return s.res }

func allowAll() RateLimiter {
	return stubLimiter{res: ratelimit.Result{Allowed: true, Remaining: 9}}
}

func validFingerprint(seed string) string {
	return domain.Combine(seed, seed)
}

func validEvent(seed string) domain.TrackingEvent {
	return domain.TrackingEvent{
		Fingerprint: validFingerprint(seed),
		CampaignID:  "instagram-bio",
		TargetURL:   "https://example.com/path",
		ServerHash:  validFingerprint("server-" + seed),
		ClientHash:  "client-" + seed,
		Device: domain.DeviceInfo{
			Type:      domain.DeviceMobile,
			Browser:   "Safari",
			OS:        "iOS",
			UserAgent: "test-agent",
		},
		Language: "en-US",
	}
}

func TestTrackCreatesRecord(t *testing.T) {
	repo := newMemRepo()
	svc := NewTrackingUseCase(repo, allowAll(), 10)

	res, err := svc.Track(context.Background(), validEvent("a"))
	require.NoError(t, err)
	assert.Equal(t, 9, res.Remaining)
	assert.Equal(t, "instagram-bio", res.CampaignID)

	key := domain.BuildDedupKey(validFingerprint("a"), "instagram-bio", "https://example.com/path")
	rec, err := repo.GetByKey(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(1), rec.ClickCount)
	assert.Equal(t, rec.FirstClick, rec.LastClick)
}

func TestTrackRepeatEventIncrements(t *testing.T) {
	repo := newMemRepo()
	svc := NewTrackingUseCase(repo, allowAll(), 10)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	svc.now = func() time.Time { return current }

	ev := validEvent("a")
	_, err := svc.Track(context.Background(), ev)
	require.NoError(t, err)

	current = base.Add(5 * time.Minute)
	_, err = svc.Track(context.Background(), ev)
	require.NoError(t, err)

	key := domain.BuildDedupKey(ev.Fingerprint, ev.CampaignID, ev.TargetURL)
	rec, err := repo.GetByKey(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(2), rec.ClickCount, "second event must increment, not duplicate")
	assert.Equal(t, base, rec.FirstClick, "first_click must not move")
	assert.Equal(t, base.Add(5*time.Minute), rec.LastClick, "last_click must advance")
	assert.Len(t, repo.records, 1)
}

func TestTrackDistinctTargetsDistinctRecords(t *testing.T) {
	repo := newMemRepo()
	svc := NewTrackingUseCase(repo, allowAll(), 10)

	ev := validEvent("a")
	_, err := svc.Track(context.Background(), ev)
	require.NoError(t, err)

	ev.TargetURL = "https://example.com/other"
	_, err = svc.Track(context.Background(), ev)
	require.NoError(t, err)

	assert.Len(t, repo.records, 2, "same device, same campaign, different targets must not collapse")
}

func TestTrackValidationRejectsBeforeStore(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*domain.TrackingEvent)
		wantErr error
	}{
		{"bad fingerprint", func(ev *domain.TrackingEvent) { ev.Fingerprint = "short" }, port.ErrInvalidFingerprint},
		{"bad campaign", func(ev *domain.TrackingEvent) { ev.CampaignID = "has space" }, port.ErrInvalidCampaignID},
		{"long campaign", func(ev *domain.TrackingEvent) { ev.CampaignID = strings.Repeat("x", 101) }, port.ErrInvalidCampaignID},
		{"bad scheme", func(ev *domain.TrackingEvent) { ev.TargetURL = "ftp://example.com" }, port.ErrInvalidTargetURL},
		{"loopback target", func(ev *domain.TrackingEvent) { ev.TargetURL = "http://127.0.0.1/x" }, port.ErrInvalidTargetURL},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			repo := newMemRepo()
			svc := NewTrackingUseCase(repo, allowAll(), 10)
			ev := validEvent("a")
			c.mutate(&ev)
			_, err := svc.Track(context.Background(), ev)
			assert.ErrorIs(t, err, c.wantErr)
			assert.Empty(t, repo.records, "rejected event must not touch the store")
		})
	}
}

func TestTrackRateLimited(t *testing.T) {
	repo := newMemRepo()
	svc := NewTrackingUseCase(repo, stubLimiter{res: ratelimit.Result{Allowed: false}}, 10)

	_, err := svc.Track(context.Background(), validEvent("a"))
	assert.ErrorIs(t, err, port.ErrRateLimited)
	assert.Empty(t, repo.records)
}

func TestTrackStorageFailureSurfaces(t *testing.T) {
	repo := newMemRepo()
	repo.failErr = assert.AnError
	svc := NewTrackingUseCase(repo, allowAll(), 10)

	_, err := svc.Track(context.Background(), validEvent("a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, port.ErrRateLimited)
}

func TestTrackWithRealLimiter(t *testing.T) {
	repo := newMemRepo()
	limiter := ratelimit.New(500, time.Minute)
	svc := NewTrackingUseCase(repo, limiter, 3)

	ev := validEvent("a")
	for i := 0; i < 3; i++ {
		_, err := svc.Track(context.Background(), ev)
		require.NoError(t, err)
	}
	_, err := svc.Track(context.Background(), ev)
	assert.ErrorIs(t, err, port.ErrRateLimited)

	// a different device is unaffected
	_, err = svc.Track(context.Background(), validEvent("b"))
	assert.NoError(t, err)
}

func TestCleanup(t *testing.T) {
	repo := newMemRepo()
	svc := NewTrackingUseCase(repo, allowAll(), 10)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base.Add(-100 * 24 * time.Hour)
	svc.now = func() time.Time { return current }

	_, err := svc.Track(context.Background(), validEvent("stale"))
	require.NoError(t, err)

	current = base
	_, err = svc.Track(context.Background(), validEvent("fresh"))
	require.NoError(t, err)

	removed, err := svc.Cleanup(context.Background(), 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Len(t, repo.records, 1)
}
