package listing

import (
	"context"

	"go.uber.org/zap"

	loggeradapter "github.com/jatsharma/stackera-project/internal/adapters/logger"
	"github.com/jatsharma/stackera-project/internal/domain"
)

// Service proxies validated listing requests to the subgraph.
type Service struct {
	upstream domain.Upstream
	logger   *loggeradapter.Logger
}

func NewService(upstream domain.Upstream, logger *loggeradapter.Logger) *Service {
	if logger == nil {
		logger = loggeradapter.NewNopLogger()
	}
	return &Service{upstream: upstream, logger: logger}
}

// ListTokens returns the upstream response body unchanged.
func (s *Service) ListTokens(ctx context.Context, p Params) ([]byte, error) {
	q, err := Build(p)
	if err != nil {
		return nil, err
	}

	body, err := s.upstream.Query(ctx, "tokens", q.Document())
	if err != nil {
		s.logger.Error("failed to list tokens", zap.String("fragment", q.Fragment()), zap.Error(err))
		return nil, err
	}
	return body, nil
}
