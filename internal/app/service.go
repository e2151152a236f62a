package app

import (
	"context"
	"time"

	"github.com/restartfu/f2pool-check/internal/check"
	"github.com/restartfu/f2pool-check/internal/domain"
	"github.com/restartfu/f2pool-check/internal/logger"
	"github.com/restartfu/f2pool-check/internal/ports"
)

type Service struct {
	checker *check.Checker
	poolURL string
}

// NewService wraps fetcher so concurrent checks of the same account share one
// upstream request.
func NewService(fetcher ports.AccountFetcher, poolURL string, log *logger.Logger) *Service {
	return &Service{
		checker: check.NewChecker(NewSharedFetcher(fetcher), log),
		poolURL: poolURL,
	}
}

func (s *Service) Health() domain.Health {
	return domain.Health{
		Status: "ok",
		Time:   time.Now().UTC(),
	}
}

// Check always queries the configured pool; callers cannot choose the URL.
func (s *Service) Check(ctx context.Context, params domain.Params) domain.Result {
	params.URL = s.poolURL
	return s.checker.Evaluate(ctx, params)
}
