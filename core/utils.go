package core

import (
	"math"
	"strings"
	"time"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// DateLayout is the ISO-8601 calendar date format used on the wire.
const DateLayout = "2006-01-02"

// Date returns the UTC midnight of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TruncateDate drops the clock part of t, keeping its calendar day.
func TruncateDate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, CleanString(s), time.UTC)
}

// Round2 rounds f to 2 decimal places.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Percentage returns part/total as a percentage rounded to 2 decimal places; 0 when total is 0.
func Percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return Round2(part / total * 100)
}
