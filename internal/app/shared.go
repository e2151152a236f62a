package app

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/restartfu/f2pool-check/internal/domain"
	"github.com/restartfu/f2pool-check/internal/ports"
)

// SharedFetcher collapses overlapping requests for the same account. Nothing
// is cached once the in-flight request returns. The shared request ignores
// the first caller's cancellation; the HTTP client timeout still bounds it.
type SharedFetcher struct {
	next  ports.AccountFetcher
	group singleflight.Group
}

func NewSharedFetcher(next ports.AccountFetcher) *SharedFetcher {
	return &SharedFetcher{next: next}
}

func (f *SharedFetcher) FetchAccount(ctx context.Context, baseURL, coin, account string) (domain.Account, error) {
	key := strings.Join([]string{baseURL, coin, account}, "\x00")
	v, err, _ := f.group.Do(key, func() (interface{}, error) {
		return f.next.FetchAccount(context.WithoutCancel(ctx), baseURL, coin, account)
	})
	if err != nil {
		return domain.Account{}, err
	}
	return v.(domain.Account), nil
}
