// Package format renders durations and run progress for humans.
package format

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration shows microseconds below a millisecond, milliseconds below
// a second and the default representation otherwise.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatOffset renders an offset from activation with millisecond
// precision, e.g. "+5.400s".
func FormatOffset(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%s%d.%03ds", sign, ms/1000, ms%1000)
}

// Progress returns the completed fraction of a run of length total after
// elapsed, clamped to [0, 1], and the time left.
func Progress(elapsed, total time.Duration) (float64, time.Duration) {
	if total <= 0 || elapsed >= total {
		return 1, 0
	}
	if elapsed <= 0 {
		return 0, total
	}
	return float64(elapsed) / float64(total), total - elapsed
}

// ProgressBar draws fraction as a bar of width cells.
func ProgressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
