// Package timeutil provides shared duration parsing and formatting.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Pre-compiled regex for day/week duration forms (e.g., "7d", "2w")
var longDurationRe = regexp.MustCompile(`^(\d+)([dw])$`)

// ParseDuration parses a duration string. It accepts everything
// time.ParseDuration does (e.g., "90m", "24h") plus day and week units
// ("7d", "2w"), which config values for long-lived TTLs tend to use.
func ParseDuration(input string) (time.Duration, error) {
	if input == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if d, err := time.ParseDuration(input); err == nil {
		return d, nil
	}

	matches := longDurationRe.FindStringSubmatch(input)
	if matches != nil {
		value, _ := strconv.Atoi(matches[1])
		switch matches[2] {
		case "d":
			return time.Duration(value) * 24 * time.Hour, nil
		case "w":
			return time.Duration(value) * 7 * 24 * time.Hour, nil
		}
	}

	return 0, fmt.Errorf("invalid duration: %s - use Go durations (30m, 24h) or day/week forms (7d, 2w)", input)
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.1fh", d.Hours())
	}
	return fmt.Sprintf("%.1fd", d.Hours()/24)
}

// FormatBytes converts bytes to human-readable format (e.g., "1.5 MB").
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
