package guard

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Result reports a guard decision.
type Result struct {
	Allowed bool
	Reason  string
	Guard   string
}

// RateLimiter implements a per-key sliding window rate limiter. Buckets are
// created lazily on first use and pruned on every check.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
}

// NewRateLimiter creates a rate limiter allowing limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
	}
}

// Check returns whether the key is within its rate limit, recording the
// request instant when it is. Keys never interfere with each other.
func (rl *RateLimiter) Check(_ context.Context, key string) Result {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	entries := rl.windows[key]
	valid := entries[:0]
	for _, t := range entries {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.windows[key] = valid
		return Result{
			Allowed: false,
			Reason:  fmt.Sprintf("rate limit exceeded: %d/%s", rl.limit, rl.window),
			Guard:   "rate_limiter",
		}
	}

	rl.windows[key] = append(valid, now)
	return Result{Allowed: true}
}
