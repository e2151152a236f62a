package domain

import (
	"strings"
	"time"

	"github.com/restartfu/f2pool-check/internal/hashrate"
)

type Health struct {
	Status string
	Time   time.Time
}

// Params are the inputs of a single check. Worker is empty when the account
// aggregate should be used.
type Params struct {
	Warning  float64 `validate:"gtfield=Critical"`
	Critical float64
	URL      string `validate:"required,url"`
	Coin     string `validate:"required"`
	Account  string `validate:"required"`
	Worker   string
}

// Normalize strips trailing slashes from the pool URL.
func (p Params) Normalize() Params {
	p.URL = strings.TrimRight(strings.TrimSpace(p.URL), "/")
	p.Coin = strings.TrimSpace(p.Coin)
	p.Account = strings.TrimSpace(p.Account)
	return p
}

// Hashrate is a value in H/s. Literal is the number as the pool rendered it.
// Integer literals are echoed unchanged so large counts keep every digit;
// anything else is rendered from Value.
type Hashrate struct {
	Value   float64
	Literal string
}

func (h Hashrate) String() string {
	if isIntegerLiteral(h.Literal) {
		return h.Literal
	}
	return hashrate.Format(h.Value)
}

func isIntegerLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type Worker struct {
	Name     string
	Hashrate Hashrate
	Extra    []string
}

// Account is the decoded pool response. Hashrate is nil when the pool omitted
// it. HashrateErr and WorkersErr hold decode failures of the respective field
// so that a check which never reads that field is not affected by them.
type Account struct {
	Hashrate    *Hashrate
	HashrateErr error
	Workers     []Worker
	WorkersErr  error
}

type Result struct {
	Severity Severity
	Line     string
	Hashrate *Hashrate
	Err      error
}

func (r Result) ExitCode() int {
	return r.Severity.ExitCode()
}
