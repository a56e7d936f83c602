package timefmt

import (
	"errors"
	"testing"
	"time"

	"campuscrafter.id/academy/pkg/apperror"
)

func TestParseInstantAcceptsFractionalUTC(t *testing.T) {
	got, err := ParseInstant("due_date", "2024-02-01T23:59:00.000Z")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := time.Date(2024, 2, 1, 23, 59, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if FormatInstant(got) != "2024-02-01T23:59:00.000Z" {
		t.Fatalf("round trip mismatch: %s", FormatInstant(got))
	}
}

func TestParseInstantRejectsMissingZone(t *testing.T) {
	for _, value := range []string{"", "2024-02-01T23:59:00", "2024-02-01", "garbage Z"} {
		_, err := ParseInstant("due_date", value)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Fatalf("expected validation error for %q, got %v", value, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("start_date", "2024-01-15")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if FormatDate(got) != "2024-01-15T00:00:00" {
		t.Fatalf("unexpected format: %s", FormatDate(got))
	}

	if _, err := ParseDate("start_date", "15/01/2024"); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFormatDateIgnoresLocation(t *testing.T) {
	got, err := ParseDate("start_date", "2024-01-15")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	for _, loc := range []*time.Location{time.FixedZone("EST", -5*3600), time.FixedZone("WIB", 7*3600)} {
		if s := FormatDate(got.In(loc)); s != "2024-01-15T00:00:00" {
			t.Fatalf("in %s: expected 2024-01-15T00:00:00, got %s", loc, s)
		}
	}
}
