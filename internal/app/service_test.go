package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restartfu/f2pool-check/internal/domain"
)

type blockingFetcher struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	gotURL  atomic.Value
}

func (f *blockingFetcher) FetchAccount(ctx context.Context, baseURL, coin, account string) (domain.Account, error) {
	f.gotURL.Store(baseURL)
	if f.calls.Add(1) == 1 && f.entered != nil {
		close(f.entered)
	}
	if f.release != nil {
		<-f.release
	}
	return domain.Account{Hashrate: &domain.Hashrate{Value: 120, Literal: "120"}}, nil
}

func checkParams() domain.Params {
	return domain.Params{Warning: 100, Critical: 50, Coin: "grin-31", Account: "alice"}
}

func TestServiceCheck_UsesConfiguredPool(t *testing.T) {
	fetcher := &blockingFetcher{}
	service := NewService(fetcher, "http://pool.example/", nil)

	params := checkParams()
	params.URL = "http://attacker.example"
	result := service.Check(context.Background(), params)

	assert.Equal(t, domain.SeverityOK, result.Severity)
	assert.Equal(t, "http://pool.example", fetcher.gotURL.Load())
}

func TestServiceHealth(t *testing.T) {
	health := NewService(&blockingFetcher{}, "http://pool.example", nil).Health()
	assert.Equal(t, "ok", health.Status)
	assert.False(t, health.Time.IsZero())
}

func TestSharedFetcher_CollapsesConcurrentRequests(t *testing.T) {
	fetcher := &blockingFetcher{entered: make(chan struct{}), release: make(chan struct{})}
	shared := NewSharedFetcher(fetcher)

	var wg sync.WaitGroup
	results := make([]domain.Account, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			account, err := shared.FetchAccount(context.Background(), "http://pool", "grin-31", "alice")
			assert.NoError(t, err)
			results[i] = account
		}(i)
	}

	<-fetcher.entered
	time.Sleep(50 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()

	assert.Equal(t, int32(1), fetcher.calls.Load())
	for _, account := range results {
		require.NotNil(t, account.Hashrate)
		assert.Equal(t, 120.0, account.Hashrate.Value)
	}
}

func TestSharedFetcher_SequentialRequestsAreNotCached(t *testing.T) {
	fetcher := &blockingFetcher{}
	shared := NewSharedFetcher(fetcher)

	for i := 0; i < 3; i++ {
		_, err := shared.FetchAccount(context.Background(), "http://pool", "grin-31", "alice")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), fetcher.calls.Load())
}
