package ratelimiter

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrRateLimitExceeded is returned by Allow when the window is full
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// RateLimiter admits at most maxCalls within any sliding window.
// It throttles outbound subgraph requests so a sync cycle and API traffic
// together stay under the provider's quota.
type RateLimiter struct {
	mu             sync.Mutex
	maxCalls       int
	windowDuration time.Duration
	callTimestamps []time.Time
	now            func() time.Time
}

func NewRateLimiter(maxCalls int, windowDuration time.Duration) *RateLimiter {
	if maxCalls <= 0 {
		maxCalls = 1
	}
	if windowDuration <= 0 {
		windowDuration = time.Second
	}

	return &RateLimiter{
		maxCalls:       maxCalls,
		windowDuration: windowDuration,
		callTimestamps: make([]time.Time, 0, maxCalls),
		now:            time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	rl.mu.Lock()
	rl.now = now
	rl.mu.Unlock()
	return rl
}

// Allow records a call if the window has room and fails fast otherwise.
func (rl *RateLimiter) Allow(ctx context.Context) error {
	if _, ok := rl.reserve(); !ok {
		return ErrRateLimitExceeded
	}
	return nil
}

// Wait blocks until a call fits in the window or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		delay, ok := rl.reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve records a call when possible. Otherwise it reports how long until
// the oldest call leaves the window.
func (rl *RateLimiter) reserve() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)

	if len(rl.callTimestamps) >= rl.maxCalls {
		return rl.callTimestamps[0].Add(rl.windowDuration).Sub(now), false
	}

	rl.callTimestamps = append(rl.callTimestamps, now)
	return 0, true
}

func (rl *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-rl.windowDuration)
	valid := rl.callTimestamps[:0]
	for _, ts := range rl.callTimestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	rl.callTimestamps = valid
}
