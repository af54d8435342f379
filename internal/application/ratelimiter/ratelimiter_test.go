package ratelimiter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestNewRateLimiter(t *testing.T) {
	tests := []struct {
		name           string
		maxCalls       int
		windowDuration time.Duration
		wantMaxCalls   int
		wantWindow     time.Duration
	}{
		{"positive values", 10, time.Minute, 10, time.Minute},
		{"zero calls defaults to 1", 0, time.Minute, 1, time.Minute},
		{"negative calls defaults to 1", -5, time.Minute, 1, time.Minute},
		{"zero duration defaults to second", 5, 0, 5, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.maxCalls, tt.windowDuration)
			if rl.maxCalls != tt.wantMaxCalls {
				t.Errorf("maxCalls = %d, want %d", rl.maxCalls, tt.wantMaxCalls)
			}
			if rl.windowDuration != tt.wantWindow {
				t.Errorf("windowDuration = %v, want %v", rl.windowDuration, tt.wantWindow)
			}
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name          string
		maxCalls      int
		numCalls      int
		wantErrors    int
		wantSuccesses int
	}{
		{"within limit", 5, 3, 0, 3},
		{"at limit", 5, 5, 0, 5},
		{"exceeding limit", 3, 10, 7, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.maxCalls, time.Minute)
			ctx := context.Background()
			failures, successes := 0, 0

			for i := 0; i < tt.numCalls; i++ {
				if err := rl.Allow(ctx); err != nil {
					if !errors.Is(err, ErrRateLimitExceeded) {
						t.Errorf("Allow() error = %v, want ErrRateLimitExceeded", err)
					}
					failures++
				} else {
					successes++
				}
			}

			if failures != tt.wantErrors {
				t.Errorf("Allow() got %d errors, want %d", failures, tt.wantErrors)
			}
			if successes != tt.wantSuccesses {
				t.Errorf("Allow() got %d successes, want %d", successes, tt.wantSuccesses)
			}
		})
	}
}

func TestRateLimiter_Allow_WindowSlides(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(2, time.Second).WithClock(clock.Now)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := rl.Allow(ctx); err != nil {
			t.Fatalf("Allow() call %d: %v", i+1, err)
		}
	}
	if err := rl.Allow(ctx); !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("Allow() over limit error = %v", err)
	}

	clock.Advance(time.Second)
	if err := rl.Allow(ctx); err != nil {
		t.Errorf("Allow() after window error = %v", err)
	}
}

func TestRateLimiter_Allow_Concurrent(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow(ctx) == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 5 {
		t.Errorf("concurrent Allow() successes = %d, want 5", successes)
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}

	start := time.Now()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("second Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("second Wait() returned after %v, want it to block for the window", elapsed)
	}
}

func TestRateLimiter_Wait_ContextCancelled(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want context.DeadlineExceeded", err)
	}
}
