package price

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ETHPriceKey is the cache key under which the ETH/USD price is stored.
const ETHPriceKey = "ETHPRICE"

var ErrMalformedPrice = errors.New("malformed price")

// Price keeps the upstream decimal string as-is so callers see the exact value.
type Price struct {
	Value     string
	FetchedAt time.Time
}

// NewPrice validates value as a decimal number.
func NewPrice(value string, fetchedAt time.Time) (Price, error) {
	if _, err := decimal.NewFromString(value); err != nil {
		return Price{}, fmt.Errorf("%w: %q: %v", ErrMalformedPrice, value, err)
	}
	return Price{Value: value, FetchedAt: fetchedAt}, nil
}

// Cache stores prices with a fixed absolute expiry set at write time.
type Cache interface {
	Get(ctx context.Context, key string) (Price, bool, error)
	Set(ctx context.Context, key string, p Price) error
}
