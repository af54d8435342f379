package cache

import (
	"context"
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

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCache[string, string](1, 30*time.Second).WithClock(clock.Now)

	c.Set(ctx, "ETHPRICE", "1850.12")

	t.Run("fresh entry is returned", func(t *testing.T) {
		clock.Advance(29 * time.Second)
		v, ok := c.Get(ctx, "ETHPRICE")
		if !ok || v != "1850.12" {
			t.Fatalf("Get() = %q, %v; want 1850.12, true", v, ok)
		}
	})

	t.Run("reads do not extend lifetime", func(t *testing.T) {
		clock.Advance(1 * time.Second)
		if _, ok := c.Get(ctx, "ETHPRICE"); ok {
			t.Fatal("Get() returned entry at expiry instant")
		}
		if c.Len() != 0 {
			t.Errorf("Len() = %d, want expired entry evicted", c.Len())
		}
	})

	t.Run("set restarts the window", func(t *testing.T) {
		c.Set(ctx, "ETHPRICE", "1900")
		clock.Advance(10 * time.Second)
		v, ok := c.Get(ctx, "ETHPRICE")
		if !ok || v != "1900" {
			t.Fatalf("Get() = %q, %v; want 1900, true", v, ok)
		}
	})
}

func TestCacheMissAndDelete(t *testing.T) {
	ctx := context.Background()
	c := NewCache[string, int](0, time.Minute)

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Get() on empty cache returned ok")
	}

	c.Set(ctx, "a", 1)
	c.Delete(ctx, "a")
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("Get() after Delete() returned ok")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewCache[int, int](16, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(ctx, i, i*i)
			if v, ok := c.Get(ctx, i); !ok || v != i*i {
				t.Errorf("Get(%d) = %d, %v", i, v, ok)
			}
		}(i)
	}
	wg.Wait()
}
