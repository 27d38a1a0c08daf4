package util

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration in compact human form.
// Examples: 45s, 12m30s, 3h05m, 2d4h
func FormatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 0 {
		seconds = 0
	}

	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
	case seconds < 86400:
		return fmt.Sprintf("%dh%02dm", seconds/3600, (seconds%3600)/60)
	default:
		return fmt.Sprintf("%dd%dh", seconds/86400, (seconds%86400)/3600)
	}
}

// FormatPercent renders a share of a whole as a whole-number percentage.
// A zero whole renders as 0%.
func FormatPercent(part, whole time.Duration) string {
	if whole <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(part)/float64(whole)*100)
}

// FormatDateISO formats an instant as an ISO calendar date (2006-01-02).
func FormatDateISO(t time.Time) string {
	return t.Format("2006-01-02")
}
