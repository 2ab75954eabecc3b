package transfer

import (
	"fmt"
	"time"
)

const (
	kiB = int64(1024)
	miB = 1024 * kiB
	giB = 1024 * miB
	tiB = 1024 * giB
)

// FormatBytes renders a byte count in IEC units, e.g. "90.0 MiB".
func FormatBytes(n int64) string {
	switch {
	case n >= tiB:
		return fmt.Sprintf("%.1f TiB", float64(n)/float64(tiB))
	case n >= giB:
		return fmt.Sprintf("%.1f GiB", float64(n)/float64(giB))
	case n >= miB:
		return fmt.Sprintf("%.1f MiB", float64(n)/float64(miB))
	case n >= kiB:
		return fmt.Sprintf("%.1f KiB", float64(n)/float64(kiB))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// FormatRate renders a throughput for the given byte count and elapsed time,
// e.g. "12.4 MiB/s". A non-positive duration reports an instantaneous rate of 0.
func FormatRate(n int64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "0 B/s"
	}
	perSecond := int64(float64(n) / elapsed.Seconds())
	return FormatBytes(perSecond) + "/s"
}
