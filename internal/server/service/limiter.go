package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/expense-tracker/internal/core/domain"
)

// DefaultSweepInterval is how often Run evicts idle buckets.
const DefaultSweepInterval = time.Minute

// LoginLimiter throttles login attempts per account email. Buckets that have
// refilled completely carry no state and are evicted by Sweep.
type LoginLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewLoginLimiter allows burst attempts at once per email, refilled at
// perSecond attempts per second.
func NewLoginLimiter(perSecond float64, burst int) *LoginLimiter {
	return &LoginLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

// Allow consumes one attempt for email.
func (l *LoginLimiter) Allow(email string) bool {
	return l.getOrCreate(domain.NormalizeEmail(email)).Allow()
}

func (l *LoginLimiter) getOrCreate(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[key]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.limit, l.burst)
	l.limiters[key] = limiter
	return limiter
}

// Reset forgets the attempts recorded for email.
func (l *LoginLimiter) Reset(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.limiters, domain.NormalizeEmail(email))
}

// Sweep evicts every bucket that is full again and returns how many were
// removed.
func (l *LoginLimiter) Sweep() int {
	return l.sweep(time.Now())
}

func (l *LoginLimiter) sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	full := float64(l.burst)
	removed := 0
	for key, limiter := range l.limiters {
		if limiter.TokensAt(now) >= full {
			delete(l.limiters, key)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (l *LoginLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Len returns the number of tracked emails.
func (l *LoginLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.limiters)
}
