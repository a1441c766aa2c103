package util

import (
	"strings"
	"time"
)

// TrimAll strips leading and trailing whitespace and collapses internal
// whitespace runs to a single space, as required for canonical header values.
func TrimAll(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FormatDateTime formats t using the ISO 8601 basic date-time format, UTC.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(TimeFormatISO8601DateTime)
}

// FormatDate formats t using the ISO 8601 basic date format, UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(TimeFormatISO8601Date)
}

// ParseDateTime parses s using the ISO 8601 basic date-time format.
func ParseDateTime(s string) (time.Time, error) {
	return time.Parse(TimeFormatISO8601DateTime, s)
}

// ParseDate parses s using the ISO 8601 basic date format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(TimeFormatISO8601Date, s)
}
