package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverity(t *testing.T) {
	cases := []struct {
		severity Severity
		name     string
		label    string
		code     int
	}{
		{SeverityOK, "OK", "OK", 0},
		{SeverityWarning, "WARNING", "Warning", 1},
		{SeverityCritical, "CRITICAL", "Critical", 2},
		{SeverityUnknown, "UNKNOWN", "Unknown", 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.name, tc.severity.String())
		assert.Equal(t, tc.label, tc.severity.Label())
		assert.Equal(t, tc.code, tc.severity.ExitCode())
	}
}

func TestCheckError(t *testing.T) {
	cause := errors.New("boom")
	err := TransportError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Equal(t, ErrorKind(0), KindOf(cause))

	status := StatusError(503)
	assert.Equal(t, "protocol error: status 503", status.Error())
}

func TestParamsNormalize(t *testing.T) {
	p := Params{URL: " https://api.f2pool.com// ", Coin: " grin-31", Account: "alice "}.Normalize()
	assert.Equal(t, "https://api.f2pool.com", p.URL)
	assert.Equal(t, "grin-31", p.Coin)
	assert.Equal(t, "alice", p.Account)
}

func TestHashrateString(t *testing.T) {
	assert.Equal(t, "150", Hashrate{Value: 150, Literal: "150"}.String())
	assert.Equal(t, "150.0", Hashrate{Value: 150}.String())
	assert.Equal(t, "-3", Hashrate{Value: -3, Literal: "-3"}.String())
	assert.Equal(t, "150.0", Hashrate{Value: 150, Literal: "150.0"}.String())
	assert.Equal(t, "150.5", Hashrate{Value: 150.5, Literal: "150.50"}.String())
	assert.Equal(t, "1000.0", Hashrate{Value: 1000, Literal: "1e3"}.String())
	assert.Equal(t, "1500.0", Hashrate{Value: 1500, Literal: "1.5E+3"}.String())
}
