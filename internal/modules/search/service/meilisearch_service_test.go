package service

import (
	"testing"

	"github.com/microcosm-cc/bluemonday"
)

func TestCleanTextStripsMarkup(t *testing.T) {
	p := bluemonday.StrictPolicy()

	got := CleanText(p, "<p>Intro to <b>Go</b></p><p>Week&nbsp;one</p><script>alert(1)</script>")
	want := "Intro to Go Week one"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCleanTextEmpty(t *testing.T) {
	if got := CleanText(bluemonday.StrictPolicy(), ""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
