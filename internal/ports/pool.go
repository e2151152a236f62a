package ports

import (
	"context"

	"github.com/restartfu/f2pool-check/internal/domain"
)

type AccountFetcher interface {
	FetchAccount(ctx context.Context, baseURL, coin, account string) (domain.Account, error)
}
