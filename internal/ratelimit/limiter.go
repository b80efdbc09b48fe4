package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Result reports the outcome of an admission check.
type Result struct {
	Allowed   bool
	Remaining int
}

// Limiter is a bounded in-memory sliding-window rate limiter. It keeps an
// ordered list of acceptance timestamps per identifier inside a trailing
// window and caps the number of tracked identifiers with LRU eviction, so
// memory stays bounded no matter how many identifiers show up. Entries
// also carry the window as a TTL, so an idle identifier expires on its
// own instead of occupying a slot until capacity eviction. It is a soft
// limiter: state is lost on restart, expiry or eviction, which is
// acceptable because it protects the pipeline from abuse rather than
// enforcing a security boundary.
type Limiter struct {
	mu     sync.Mutex
	cache  *expirable.LRU[string, []time.Time]
	window time.Duration

	// now is swapped out in tests for a deterministic clock.
	now func() time.Time
}

// New creates a limiter tracking at most size identifiers over the given
// trailing window.
func New(size int, window time.Duration) *Limiter {
	cache := expirable.NewLRU[string, []time.Time](size, nil, window)
	return &Limiter{cache: cache, window: window, now: time.Now}
}

// Allow admits or rejects one event for identifier under the given limit.
// Timestamps older than the window are dropped on every call, so an idle
// identifier's entry decays to empty without explicit cleanup.
func (l *Limiter) Allow(identifier string, limit int) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	stamps, _ := l.cache.Get(identifier)
	recent := make([]time.Time, 0, len(stamps)+1)
	for _, ts := range stamps {
		if ts.After(windowStart) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= limit {
		l.cache.Add(identifier, recent)
		return Result{Allowed: false, Remaining: 0}
	}

	recent = append(recent, now)
	l.cache.Add(identifier, recent)
	return Result{Allowed: true, Remaining: limit - len(recent)}
}

// Reset forgets a single identifier.
func (l *Limiter) Reset(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Remove(identifier)
}

// Len returns the number of identifiers currently tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Len()
}
