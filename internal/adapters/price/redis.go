package price

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jatsharma/stackera-project/internal/domain/price"
)

// RedisCache stores the bare decimal string with a server-side expiry,
// so several API instances share one cached value.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ price.Cache = (*RedisCache)(nil)

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (price.Price, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return price.Price{}, false, nil
	}
	if err != nil {
		return price.Price{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	// Redis keeps no write time; FetchedAt stays zero.
	p, err := price.NewPrice(val, time.Time{})
	if err != nil {
		return price.Price{}, false, fmt.Errorf("redis value for %s: %w", key, err)
	}
	return p, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, p price.Price) error {
	if err := c.client.Set(ctx, key, p.Value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
