package hashrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"150", 150},
		{"150.5", 150.5},
		{"-2", -2},
		{"1e6", 1e6},
		{"12 kH/s", 12e3},
		{"1.5MH/s", 1.5e6},
		{"3M", 3e6},
		{"2g", 2e9},
		{"1 TH/s", 1e12},
		{"90 H/s", 90},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-6)
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "  ", "fast", "kH/s", "inf", "NaN", "1.2.3"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.Error(t, err)
		})
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{100, "100.0"},
		{0, "0.0"},
		{150.25, "150.25"},
		{-3, "-3.0"},
		{1500000, "1500000.0"},
		{1e16, "1e+16"},
		{0.5, "0.5"},
		{1.5e-05, "1.5e-05"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Format(tc.in))
	}
}
