// Package limiter implements the shared token-bucket admission gate that
// paces request issuance across all workers.
package limiter

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter bounds aggregate admissions to a target rate using a token
// bucket with lazy, time-based refill. The bucket holds at most one second's
// worth of tokens, so a sustained caller burst never exceeds rate admissions
// per second. Safe for use by any number of goroutines.
type RateLimiter struct {
	mu         sync.Mutex
	rate       float64
	tokens     float64
	lastRefill time.Time

	now func() time.Time // injectable for tests
}

// New creates a RateLimiter targeting rate admissions per second.
func New(rate float64) (*RateLimiter, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("limiter: rate must be positive, got %g", rate)
	}
	l := &RateLimiter{rate: rate, now: time.Now}
	l.lastRefill = l.now()
	return l, nil
}

// Rate returns the configured admissions per second.
func (l *RateLimiter) Rate() float64 {
	return l.rate
}

// Acquire blocks until one token is available or ctx is done. Refill is
// computed lazily at each call rather than by a background timer, with the
// mutex held across the full refill-and-reserve sequence. The debit is
// unconditional: a caller that finds the bucket short drives the balance
// negative and sleeps off exactly its own share of the deficit, so the k-th
// concurrent waiter sleeps ~k/rate. That serializes contending callers at
// the target rate while the sleep itself happens outside the lock. A
// cancelled waiter hands its reservation back.
func (l *RateLimiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	now := l.now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	l.lastRefill = now

	l.tokens += elapsed * l.rate
	if l.tokens > l.rate {
		l.tokens = l.rate
	}

	l.tokens--
	if l.tokens >= 0 {
		l.mu.Unlock()
		return nil
	}

	wait := time.Duration(-l.tokens / l.rate * float64(time.Second))
	l.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		l.mu.Lock()
		l.tokens++
		l.mu.Unlock()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// balance reports the current token balance after a refill at the injected
// clock's current time. Test hook.
func (l *RateLimiter) balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	l.lastRefill = now
	l.tokens += elapsed * l.rate
	if l.tokens > l.rate {
		l.tokens = l.rate
	}
	return l.tokens
}
