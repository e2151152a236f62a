package check

import (
	"errors"
	"fmt"

	"github.com/restartfu/f2pool-check/internal/domain"
	"github.com/restartfu/f2pool-check/internal/hashrate"
)

const thresholdOrderLine = "Warning threshold must be greater than critical threshold"

// StatusLine renders the human readable part followed by performance data
// in value;warn;crit;min;max form with min and max left empty.
func StatusLine(severity domain.Severity, rate domain.Hashrate, warning, critical float64) string {
	return fmt.Sprintf("%s - Hash rate: %s H/s | Hashrate=%s;%s;%s;;",
		severity.Label(), rate, rate, hashrate.Format(warning), hashrate.Format(critical))
}

func ErrorLine(err error) string {
	var checkErr *domain.CheckError
	if !errors.As(err, &checkErr) {
		return fmt.Sprintf("Error - %v", err)
	}
	switch checkErr.Kind {
	case domain.KindInput:
		if errors.Is(err, ErrThresholdOrder) {
			return thresholdOrderLine
		}
		return fmt.Sprintf("Error - Invalid arguments: %v", checkErr.Err)
	case domain.KindTransport:
		return fmt.Sprintf("Error - Request failed: %v", checkErr.Err)
	case domain.KindProtocol:
		if checkErr.StatusCode != 0 {
			return fmt.Sprintf("HTTP Error: %d", checkErr.StatusCode)
		}
		return fmt.Sprintf("Error - Invalid response: %v", checkErr.Err)
	case domain.KindData:
		if errors.Is(err, domain.ErrWorkerNotFound) {
			return "Error - Worker name not found"
		}
		return fmt.Sprintf("Error - Invalid response: %v", checkErr.Err)
	default:
		return fmt.Sprintf("Error - %v", checkErr.Err)
	}
}
