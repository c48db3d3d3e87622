package waitlist

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClientRateLimiter keeps one token bucket per client key (usually the
// remote IP). A nil *ClientRateLimiter allows everything.
type ClientRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewClientRateLimiter returns nil when perMinute is not positive
func NewClientRateLimiter(perMinute, burst int) *ClientRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &ClientRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

// Allow reports whether the client may make another submit attempt
func (m *ClientRateLimiter) Allow(key string) bool {
	if m == nil {
		return true
	}
	return m.getLimiter(key).Allow()
}

func (m *ClientRateLimiter) getLimiter(key string) *rate.Limiter {
	m.mu.RLock()
	limiter, exists := m.limiters[key]
	m.mu.RUnlock()
	if exists {
		return limiter
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double check, another request may have created it
	if limiter, exists = m.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(m.limit, m.burst)
	m.limiters[key] = limiter
	return limiter
}

// Prune drops buckets that are full again, so idle clients do not pin memory
func (m *ClientRateLimiter) Prune() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, limiter := range m.limiters {
		if limiter.Tokens() >= float64(m.burst) {
			delete(m.limiters, key)
			removed++
		}
	}
	return removed
}
