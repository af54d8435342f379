package swaps

import (
	"context"
	"time"

	"go.uber.org/zap"

	loggeradapter "github.com/jatsharma/stackera-project/internal/adapters/logger"
	"github.com/jatsharma/stackera-project/internal/adapters/uniswap"
	"github.com/jatsharma/stackera-project/internal/domain"
)

const (
	// RecentWindow is how far back a swap still counts as recent.
	RecentWindow = 4 * time.Hour
	MinAmountUSD = 10000
)

type Service struct {
	upstream domain.Upstream
	logger   *loggeradapter.Logger
	now      func() time.Time
}

func NewService(upstream domain.Upstream, logger *loggeradapter.Logger) *Service {
	if logger == nil {
		logger = loggeradapter.NewNopLogger()
	}
	return &Service{upstream: upstream, logger: logger, now: time.Now}
}

// RecentSwaps returns large swaps from the last four hours, newest first,
// as the raw upstream body.
func (s *Service) RecentSwaps(ctx context.Context) ([]byte, error) {
	since := s.now().Add(-RecentWindow)
	body, err := s.upstream.Query(ctx, "recent_swaps", uniswap.RecentSwapsQuery(since, MinAmountUSD))
	if err != nil {
		s.logger.Error("failed to fetch recent swaps", zap.Time("since", since), zap.Error(err))
		return nil, err
	}
	return body, nil
}
