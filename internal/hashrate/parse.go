package hashrate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// suffixes are matched longest first so "mh/s" wins over "h/s".
var suffixes = []string{"kh/s", "mh/s", "gh/s", "th/s", "h/s", "k", "m", "g", "t"}

// Parse reads a threshold such as "150", "1.5e6", "12 kH/s" or "3M" into H/s.
func Parse(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("empty hashrate")
	}

	number, unit := splitUnit(trimmed)
	parsed, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hashrate %q", value)
	}
	if math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return 0, fmt.Errorf("invalid hashrate %q", value)
	}
	return Scale(parsed, unit), nil
}

func splitUnit(value string) (string, string) {
	lower := strings.ToLower(value)
	for _, suffix := range suffixes {
		if !strings.HasSuffix(lower, suffix) {
			continue
		}
		unit := suffix
		if !strings.HasSuffix(unit, "h/s") {
			unit += "h/s"
		}
		return value[:len(value)-len(suffix)], unit
	}
	return value, ""
}

// Scale converts the value into H/s.
func Scale(value float64, unit string) float64 {
	switch strings.ToLower(unit) {
	case "kh/s":
		return value * 1e3
	case "mh/s":
		return value * 1e6
	case "gh/s":
		return value * 1e9
	case "th/s":
		return value * 1e12
	default:
		return value
	}
}

// Format renders v in shortest round-trip form. Integral values keep a
// trailing ".0" and very large or small magnitudes switch to exponent form.
func Format(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
