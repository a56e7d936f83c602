// Package timefmt holds the wire formats for dates exchanged with API clients.
package timefmt

import (
	"fmt"
	"time"

	"campuscrafter.id/academy/pkg/apperror"
)

const (
	// DateLayout is accepted for course start dates.
	DateLayout = "2006-01-02"
	// LocalLayout is how calendar dates are rendered back (midnight, no zone).
	LocalLayout = "2006-01-02T15:04:05"
	// UTCLayout renders instants with millisecond precision and a trailing Z.
	UTCLayout = "2006-01-02T15:04:05.000Z"
)

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, apperror.Validation(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field))
	}
	return t, nil
}

// ParseInstant parses an ISO-8601 UTC timestamp such as 2024-02-01T23:59:00.000Z.
// Fractional seconds are optional; the trailing Z is not.
func ParseInstant(field, value string) (time.Time, error) {
	if len(value) == 0 || value[len(value)-1] != 'Z' {
		return time.Time{}, apperror.Validation(fmt.Sprintf("%s must be an ISO-8601 UTC timestamp ending in Z", field))
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, apperror.Validation(fmt.Sprintf("%s must be an ISO-8601 UTC timestamp ending in Z", field))
	}
	return t.UTC(), nil
}

// FormatDate renders the UTC calendar date. Drivers may hand back times in time.Local.
func FormatDate(t time.Time) string {
	return t.UTC().Format(LocalLayout)
}

func FormatInstant(t time.Time) string {
	return t.UTC().Format(UTCLayout)
}

// FormatInstantPtr returns nil for a nil time.
func FormatInstantPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatInstant(*t)
	return &s
}
