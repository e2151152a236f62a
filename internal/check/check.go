package check

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/restartfu/f2pool-check/internal/domain"
	"github.com/restartfu/f2pool-check/internal/logger"
	"github.com/restartfu/f2pool-check/internal/observability"
	"github.com/restartfu/f2pool-check/internal/ports"
)

var ErrThresholdOrder = errors.New("warning threshold must be greater than critical threshold")

// Checker runs Validate -> Request -> Extract -> Classify once per call.
type Checker struct {
	fetcher  ports.AccountFetcher
	logger   *logger.Logger
	validate *validator.Validate
}

func NewChecker(fetcher ports.AccountFetcher, log *logger.Logger) *Checker {
	if log == nil {
		log = logger.Nop()
	}
	return &Checker{
		fetcher:  fetcher,
		logger:   log.Component("check"),
		validate: validator.New(),
	}
}

// Evaluate is a convenience wrapper for one-off checks.
func Evaluate(ctx context.Context, params domain.Params, fetcher ports.AccountFetcher) domain.Result {
	return NewChecker(fetcher, nil).Evaluate(ctx, params)
}

func (c *Checker) Evaluate(ctx context.Context, params domain.Params) domain.Result {
	params = params.Normalize()
	if err := c.Validate(params); err != nil {
		return c.fail(params, err)
	}

	account, err := c.fetcher.FetchAccount(ctx, params.URL, params.Coin, params.Account)
	if err != nil {
		return c.fail(params, err)
	}

	rate, err := SelectHashrate(account, params.Worker)
	if err != nil {
		return c.fail(params, err)
	}

	severity := Classify(rate.Value, params.Warning, params.Critical)
	c.logger.Debug("check complete",
		zap.String("severity", severity.String()),
		zap.Float64("hashrate", rate.Value),
		zap.String("worker", params.Worker),
	)
	return domain.Result{
		Severity: severity,
		Line:     StatusLine(severity, rate, params.Warning, params.Critical),
		Hashrate: &rate,
	}
}

// Validate checks params before any network access. The threshold order is
// reported first.
func (c *Checker) Validate(params domain.Params) error {
	err := c.validate.Struct(params)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.InputError(err)
	}
	for _, fieldErr := range fieldErrs {
		if fieldErr.Field() == "Warning" {
			return domain.InputError(ErrThresholdOrder)
		}
	}
	fieldErr := fieldErrs[0]
	switch fieldErr.Field() {
	case "URL":
		return domain.InputError(fmt.Errorf("invalid pool URL %q", params.URL))
	default:
		return domain.InputError(fmt.Errorf("%s is required", fieldErr.Field()))
	}
}

// SelectHashrate picks the account aggregate, or the named worker's rate when
// worker is set. Later entries with the same name replace earlier ones.
func SelectHashrate(account domain.Account, worker string) (domain.Hashrate, error) {
	if worker == "" {
		if account.HashrateErr != nil {
			return domain.Hashrate{}, account.HashrateErr
		}
		if account.Hashrate == nil {
			return domain.Hashrate{}, domain.DataError(errors.New("hashrate missing from response"))
		}
		return *account.Hashrate, nil
	}

	if account.WorkersErr != nil {
		return domain.Hashrate{}, account.WorkersErr
	}
	byName := lo.KeyBy(account.Workers, func(w domain.Worker) string {
		return w.Name
	})
	found, ok := byName[worker]
	if !ok {
		return domain.Hashrate{}, domain.DataError(domain.ErrWorkerNotFound)
	}
	return found.Hashrate, nil
}

// Classify compares with strict less-than, critical bound first.
func Classify(rate, warning, critical float64) domain.Severity {
	switch {
	case rate < critical:
		return domain.SeverityCritical
	case rate < warning:
		return domain.SeverityWarning
	default:
		return domain.SeverityOK
	}
}

func (c *Checker) fail(params domain.Params, err error) domain.Result {
	kind := domain.KindOf(err)
	c.logger.Warn("check failed",
		zap.Error(err),
		zap.String("kind", kind.String()),
		zap.String("coin", params.Coin),
		zap.String("account", params.Account),
	)
	if kind != domain.KindInput {
		observability.CaptureError(err, map[string]string{
			"component": "check",
			"operation": kind.String(),
			"coin":      params.Coin,
		}, map[string]interface{}{
			"account": params.Account,
			"worker":  params.Worker,
			"url":     params.URL,
		})
	}
	return domain.Result{
		Severity: domain.SeverityUnknown,
		Line:     ErrorLine(err),
		Err:      err,
	}
}
