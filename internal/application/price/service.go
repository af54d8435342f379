package price

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	loggeradapter "github.com/jatsharma/stackera-project/internal/adapters/logger"
	"github.com/jatsharma/stackera-project/internal/adapters/metrics"
	"github.com/jatsharma/stackera-project/internal/adapters/uniswap"
	"github.com/jatsharma/stackera-project/internal/domain"
	"github.com/jatsharma/stackera-project/internal/domain/price"
)

// CacheService serves the ETH price read-through a short-lived cache.
// Concurrent misses may both go upstream; the last Set wins.
type CacheService struct {
	cache    price.Cache
	upstream domain.Upstream
	metrics  *metrics.Metrics
	logger   *loggeradapter.Logger
	now      func() time.Time
}

func NewCacheService(cache price.Cache, upstream domain.Upstream, logger *loggeradapter.Logger) *CacheService {
	if logger == nil {
		logger = loggeradapter.NewNopLogger()
	}
	return &CacheService{
		cache:    cache,
		upstream: upstream,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *CacheService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// GetETHPrice returns the cached price or fetches, caches and returns a fresh one.
func (s *CacheService) GetETHPrice(ctx context.Context) (string, error) {
	cached, ok, err := s.cache.Get(ctx, price.ETHPriceKey)
	switch {
	case err != nil:
		s.metrics.ObservePriceLookup("error")
		s.logger.Warn("price cache read failed, falling back to upstream", zap.Error(err))
	case ok:
		s.metrics.ObservePriceLookup("hit")
		return cached.Value, nil
	default:
		s.metrics.ObservePriceLookup("miss")
	}

	fresh, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, price.ETHPriceKey, fresh); err != nil {
		s.logger.Warn("price cache write failed", zap.Error(err))
	}

	return fresh.Value, nil
}

func (s *CacheService) fetch(ctx context.Context) (price.Price, error) {
	var data uniswap.BundleData
	err := s.upstream.Decode(ctx, "eth_price", uniswap.ETHPriceQuery, &data)
	if errors.Is(err, uniswap.ErrMalformedResponse) {
		s.logger.Error("malformed eth price response", zap.Error(err))
		return price.Price{}, fmt.Errorf("%w: %v", price.ErrMalformedPrice, err)
	}
	if err != nil {
		s.logger.Error("failed to fetch eth price", zap.Error(err))
		return price.Price{}, err
	}

	if data.Bundle == nil || data.Bundle.ETHPrice == nil {
		s.logger.Error("eth price missing from response")
		return price.Price{}, fmt.Errorf("%w: bundle.ethPrice missing", price.ErrMalformedPrice)
	}

	p, err := price.NewPrice(*data.Bundle.ETHPrice, s.now())
	if err != nil {
		s.logger.Error("eth price is not a decimal", zap.Error(err))
		return price.Price{}, err
	}
	return p, nil
}
