package utils

import (
	"fmt"
	"time"
)

// DefaultWindow is how far back a time range reaches when no start is given.
const DefaultWindow = 7 * 24 * time.Hour

func IsValidInterval(interval string) bool {
	switch interval {
	case "Minute", "Hour", "Day", "Week", "Month", "Quarter", "Year":
		return true
	default:
		return false
	}
}

// ParseTimeRange parses optional RFC3339 bounds named start and end. A missing
// end is now, a missing start is DefaultWindow before the end.
func ParseTimeRange(startParam, endParam string, now time.Time) (time.Time, time.Time, error) {
	return ParseNamedTimeRange("start", startParam, "end", endParam, now)
}

// ParseNamedTimeRange is ParseTimeRange for callers whose bounds are called
// something else; error messages use the given field names.
func ParseNamedTimeRange(startField, startParam, endField, endParam string, now time.Time) (time.Time, time.Time, error) {
	end := now.UTC()
	if endParam != "" {
		parsed, err := time.Parse(time.RFC3339, endParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid '%s' timestamp format, use RFC3339 (e.g., 2006-01-02T15:04:05Z): %w", endField, err)
		}
		end = parsed
	}

	start := end.Add(-DefaultWindow)
	if startParam != "" {
		parsed, err := time.Parse(time.RFC3339, startParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid '%s' timestamp format, use RFC3339 (e.g., 2006-01-02T15:04:05Z): %w", startField, err)
		}
		start = parsed
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("'%s' must not be after '%s'", startField, endField)
	}
	return start, end, nil
}
