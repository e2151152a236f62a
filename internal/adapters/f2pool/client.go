package f2pool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/restartfu/f2pool-check/internal/domain"
	"github.com/restartfu/f2pool-check/internal/logger"
)

const DefaultURL = "https://api.f2pool.com/"

// DefaultUserAgent mimics a desktop browser; some pool APIs reject requests
// without a recognizable client.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/59.0.3071.115 Safari/537.36"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 8 << 20

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	doer      Doer
	userAgent string
	logger    *logger.Logger
}

func NewClient(doer Doer, userAgent string, log *logger.Logger) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		doer:      doer,
		userAgent: userAgent,
		logger:    log.Component("f2pool"),
	}
}

// AccountURL joins the base URL, coin and account into the request URL.
func AccountURL(baseURL, coin, account string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), url.PathEscape(coin), url.PathEscape(account))
}

func (c *Client) FetchAccount(ctx context.Context, baseURL, coin, account string) (domain.Account, error) {
	target := AccountURL(baseURL, coin, account)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.Account{}, domain.InputError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting account", zap.String("url", target))
	resp, err := c.doer.Do(req)
	if err != nil {
		return domain.Account{}, domain.TransportError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("pool responded", zap.String("url", target), zap.Int("status", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return domain.Account{}, domain.StatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Account{}, domain.TransportError(fmt.Errorf("failed to read response: %w", err))
	}
	decoded, err := DecodeAccount(body)
	if err != nil {
		return domain.Account{}, err
	}
	c.logger.Debug("decoded account", zap.Int("workers", len(decoded.Workers)), zap.Bool("has_hashrate", decoded.Hashrate != nil), zap.NamedError("workers_error", decoded.WorkersErr))
	return decoded, nil
}

type accountPayload struct {
	Hashrate json.RawMessage `json:"hashrate"`
	Workers  json.RawMessage `json:"workers"`
}

// DecodeAccount parses an account response body. Only a body that is not a
// JSON object fails here. Problems with hashrate or workers are kept on the
// Account and surface only when the check reads that field.
func DecodeAccount(body []byte) (domain.Account, error) {
	var payload accountPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Account{}, domain.ProtocolError(fmt.Errorf("failed to decode response: %w", err))
	}

	account := domain.Account{}
	if !isNull(payload.Hashrate) {
		rate, err := decodeHashrate(payload.Hashrate)
		if err != nil {
			account.HashrateErr = domain.DataError(fmt.Errorf("hashrate: %w", err))
		} else {
			account.Hashrate = &rate
		}
	}

	workers, err := decodeWorkers(payload.Workers)
	if err != nil {
		account.WorkersErr = domain.DataError(err)
	} else {
		account.Workers = workers
	}
	return account, nil
}

func decodeWorkers(raw json.RawMessage) ([]domain.Worker, error) {
	if isNull(raw) {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.New("workers is not a list")
	}
	workers := make([]domain.Worker, 0, len(entries))
	for i, entry := range entries {
		worker, err := decodeWorker(entry)
		if err != nil {
			return nil, fmt.Errorf("workers[%d]: %w", i, err)
		}
		workers = append(workers, worker)
	}
	return workers, nil
}

func decodeWorker(raw json.RawMessage) (domain.Worker, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.Worker{}, errors.New("entry is not a list")
	}
	if len(fields) < 2 {
		return domain.Worker{}, fmt.Errorf("entry has %d fields, want at least 2", len(fields))
	}

	var name string
	if err := json.Unmarshal(fields[0], &name); err != nil {
		return domain.Worker{}, errors.New("worker name is not a string")
	}
	rate, err := decodeHashrate(fields[1])
	if err != nil {
		return domain.Worker{}, fmt.Errorf("worker %q hashrate: %w", name, err)
	}

	extra := make([]string, 0, len(fields)-2)
	for _, field := range fields[2:] {
		extra = append(extra, string(field))
	}
	return domain.Worker{Name: name, Hashrate: rate, Extra: extra}, nil
}

func decodeHashrate(raw json.RawMessage) (domain.Hashrate, error) {
	literal := strings.TrimSpace(string(raw))
	value, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return domain.Hashrate{}, fmt.Errorf("%s is not a number", literal)
	}
	return domain.Hashrate{Value: value, Literal: literal}, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
