package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is an in-process map whose entries expire a fixed duration after they are set.
// Reads never extend an entry's lifetime.
type Cache[K comparable, V any] struct {
	mu  sync.RWMutex
	m   map[K]entry[V]
	ttl time.Duration
	now func() time.Time
}

func NewCache[K comparable, V any](size int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		m:   make(map[K]entry[V], size),
		ttl: ttl,
		now: time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (c *Cache[K, V]) WithClock(now func() time.Time) *Cache[K, V] {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
	return c
}

func (c *Cache[K, V]) Get(_ context.Context, k K) (V, bool) {
	c.mu.RLock()
	e, ok := c.m[k]
	now := c.now()
	c.mu.RUnlock()

	if !ok {
		var zero V
		return zero, false
	}
	if !now.Before(e.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.m[k]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.m, k)
		}
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[K, V]) Set(_ context.Context, k K, v V) {
	c.mu.Lock()
	c.m[k] = entry[V]{value: v, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Cache[K, V]) Delete(_ context.Context, k K) {
	c.mu.Lock()
	delete(c.m, k)
	c.mu.Unlock()
}

// Len counts entries including expired ones not yet evicted.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
