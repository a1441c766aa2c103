package util

import (
	"testing"
	"time"
)

func TestTrimAll(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"  leading and trailing  ", "leading and trailing"},
		{"runs   of\t\twhitespace\n collapsed", "runs of whitespace collapsed"},
	}
	for _, tt := range tests {
		if got := TrimAll(tt.in); got != tt.want {
			t.Errorf("TrimAll(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatParseDateTime(t *testing.T) {
	ts := time.Date(2013, 5, 24, 1, 2, 3, 0, time.UTC)

	formatted := FormatDateTime(ts)
	if formatted != "20130524T010203Z" {
		t.Errorf("FormatDateTime: got %q", formatted)
	}

	parsed, err := ParseDateTime(formatted)
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(ts) {
		t.Errorf("round trip: got %v, want %v", parsed, ts)
	}

	if got := FormatDate(ts); got != "20130524" {
		t.Errorf("FormatDate: got %q", got)
	}
}

func TestFormatDateTimeUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	ts := time.Date(2013, 5, 24, 1, 0, 0, 0, loc)

	if got := FormatDateTime(ts); got != "20130523T230000Z" {
		t.Errorf("local time not normalized to UTC: got %q", got)
	}
}
