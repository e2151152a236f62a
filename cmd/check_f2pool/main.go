// Command check_f2pool is a monitoring plugin that checks the hashrate of an
// F2Pool account or one of its workers against warning and critical thresholds.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"

	"github.com/restartfu/f2pool-check/internal/adapters/f2pool"
	"github.com/restartfu/f2pool-check/internal/check"
	"github.com/restartfu/f2pool-check/internal/config"
	"github.com/restartfu/f2pool-check/internal/domain"
	"github.com/restartfu/f2pool-check/internal/hashrate"
	"github.com/restartfu/f2pool-check/internal/logger"
	"github.com/restartfu/f2pool-check/internal/observability"
)

var version = "dev"

const exitUnknown = 3

// threshold accepts plain numbers as well as unit suffixed rates like "1.5MH/s".
type threshold float64

func (t *threshold) UnmarshalFlag(value string) error {
	parsed, err := hashrate.Parse(value)
	if err != nil {
		return err
	}
	*t = threshold(parsed)
	return nil
}

type options struct {
	Warning  threshold     `short:"w" value-name:"HASHRATE" description:"Warning threshold" required:"true"`
	Critical threshold     `short:"c" value-name:"HASHRATE" description:"Critical threshold" required:"true"`
	URL      string        `short:"u" value-name:"URL" description:"URL to pool's API (include port) (default: https://api.f2pool.com/)"`
	Coin     string        `long:"coin" value-name:"COIN" description:"Coin name being mined (e.g. grin-31)" required:"true"`
	Account  string        `short:"a" value-name:"ACCOUNT" description:"Account to query on" required:"true"`
	Worker   *string       `long:"worker" value-name:"WORKERNAME" description:"Query the hashrate for a single worker named WORKERNAME"`
	Timeout  time.Duration `long:"timeout" value-name:"DURATION" description:"Request timeout (default: 10s)"`
	Config   string        `long:"config" value-name:"FILE" description:"Optional TOML config file"`
	Verbose  bool          `short:"v" long:"verbose" description:"Write debug logs to stderr"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run returns the plugin exit code. Exactly one line is written to stdout
// unless help was requested.
func run(args []string, stdout io.Writer) int {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag)
	parser.Name = "check_f2pool"
	parser.ShortDescription = "Query the F2Pool API for the current hashrate of an account or worker."

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			return exitUnknown
		}
		fmt.Fprintf(stdout, "Error - Invalid arguments: %s\n", oneLine(err.Error()))
		return exitUnknown
	}
	if len(rest) > 0 {
		fmt.Fprintf(stdout, "Error - Invalid arguments: unexpected %s\n", strings.Join(rest, " "))
		return exitUnknown
	}
	// An explicit --worker never falls back to the account aggregate.
	var worker string
	if opts.Worker != nil {
		worker = *opts.Worker
		if strings.TrimSpace(worker) == "" {
			fmt.Fprintln(stdout, "Error - Invalid arguments: worker name must not be empty")
			return exitUnknown
		}
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintf(stdout, "Error - %s\n", oneLine(err.Error()))
		return exitUnknown
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}
	if opts.URL != "" {
		cfg.Pool.URL = opts.URL
	}
	if opts.Timeout > 0 {
		cfg.Pool.Timeout = config.Duration(opts.Timeout)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(stdout, "Error - %s\n", oneLine(err.Error()))
		return exitUnknown
	}
	defer log.Sync()

	runID := uuid.NewString()
	log = log.WithRunID(runID)

	flushSentry, _, sentryErr := observability.InitSentry("check_f2pool@" + version)
	if sentryErr != nil {
		log.WithError(sentryErr).Warn("sentry init failed")
	}
	defer flushSentry()
	observability.SetRunID(runID)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Pool.Timeout.Std())
	defer cancel()

	client := f2pool.NewClient(&http.Client{Timeout: cfg.Pool.Timeout.Std()}, cfg.Pool.UserAgent, log)
	result := check.NewChecker(client, log).Evaluate(ctx, domain.Params{
		Warning:  float64(opts.Warning),
		Critical: float64(opts.Critical),
		URL:      cfg.Pool.URL,
		Coin:     opts.Coin,
		Account:  opts.Account,
		Worker:   worker,
	})

	fmt.Fprintln(stdout, result.Line)
	return result.ExitCode()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
