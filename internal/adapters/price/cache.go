package price

import (
	"context"
	"time"

	"github.com/jatsharma/stackera-project/internal/adapters/cache"
	"github.com/jatsharma/stackera-project/internal/domain/price"
)

// MemoryCache keeps prices in process. Entries expire ttl after Set.
type MemoryCache struct {
	cache *cache.Cache[string, price.Price]
}

var _ price.Cache = (*MemoryCache)(nil)

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{cache: cache.NewCache[string, price.Price](1, ttl)}
}

// WithClock replaces the expiry time source. Used by tests.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.cache.WithClock(now)
	return c
}

func (c *MemoryCache) Get(ctx context.Context, key string) (price.Price, bool, error) {
	p, ok := c.cache.Get(ctx, key)
	return p, ok, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, p price.Price) error {
	c.cache.Set(ctx, key, p)
	return nil
}
