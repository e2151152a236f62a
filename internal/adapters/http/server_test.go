package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restartfu/f2pool-check/internal/app"
	"github.com/restartfu/f2pool-check/internal/domain"
)

type stubFetcher struct {
	account domain.Account
	err     error
	calls   int
}

func (f *stubFetcher) FetchAccount(ctx context.Context, baseURL, coin, account string) (domain.Account, error) {
	f.calls++
	return f.account, f.err
}

func newTestEcho(fetcher *stubFetcher) *echo.Echo {
	e := echo.New()
	NewServer(app.NewService(fetcher, "http://pool.example", nil), nil).Register(e)
	return e
}

func serve(t *testing.T, e *echo.Echo, target string) (*httptest.ResponseRecorder, checkResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, target, nil))
	var body checkResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestGetHealth(t *testing.T) {
	rec, _ := serve(t, newTestEcho(&stubFetcher{}), "/health")
	require.Equal(t, nethttp.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}

func TestGetCheck_Worker(t *testing.T) {
	fetcher := &stubFetcher{account: domain.Account{
		Hashrate: &domain.Hashrate{Value: 1, Literal: "1"},
		Workers: []domain.Worker{
			{Name: "rig1", Hashrate: domain.Hashrate{Value: 150, Literal: "150.0"}},
		},
	}}
	rec, body := serve(t, newTestEcho(fetcher), "/check?coin=grin-31&account=alice&worker=rig1&warning=100&critical=50")

	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "OK", body.Status)
	assert.Equal(t, 0, body.ExitCode)
	assert.Equal(t, "OK - Hash rate: 150.0 H/s | Hashrate=150.0;100.0;50.0;;", body.Message)
	require.NotNil(t, body.Hashrate)
	assert.Equal(t, 150.0, *body.Hashrate)
}

func TestGetCheck_UnitThresholds(t *testing.T) {
	fetcher := &stubFetcher{account: domain.Account{Hashrate: &domain.Hashrate{Value: 1500, Literal: "1500"}}}
	_, body := serve(t, newTestEcho(fetcher), "/check?coin=btc&account=alice&warning=2kH/s&critical=1k")

	assert.Equal(t, "WARNING", body.Status)
	assert.Equal(t, 1, body.ExitCode)
}

func TestGetCheck_PoolFailure(t *testing.T) {
	fetcher := &stubFetcher{err: domain.StatusError(503)}
	rec, body := serve(t, newTestEcho(fetcher), "/check?coin=grin-31&account=alice&warning=100&critical=50")

	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "UNKNOWN", body.Status)
	assert.Equal(t, 3, body.ExitCode)
	assert.Equal(t, "HTTP Error: 503", body.Message)
	assert.Nil(t, body.Hashrate)
}

func TestGetCheck_InputErrors(t *testing.T) {
	fetcher := &stubFetcher{}
	e := newTestEcho(fetcher)

	rec, body := serve(t, e, "/check?coin=grin-31&account=alice&warning=50&critical=100")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "Warning threshold must be greater than critical threshold", body.Message)

	rec, _ = serve(t, e, "/check?coin=grin-31&account=alice&warning=lots&critical=100")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec, _ = serve(t, e, "/check?account=alice&warning=100&critical=50")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec, _ = serve(t, e, "/check?coin=grin-31&account=alice&warning=100&critical=50&worker=%20")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "worker name must not be empty")

	assert.Equal(t, 0, fetcher.calls)
}
