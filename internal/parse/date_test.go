package parse

import (
	"strings"
	"testing"
	"time"
)

func TestDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		text string
		want time.Time
		ok   bool
	}{
		{"mdy slashes", "Date: 01/15/2024", day(2024, time.January, 15), true},
		{"mdy dashes", "01-15-2024", day(2024, time.January, 15), true},
		{"two digit year", "1/2/24", day(2024, time.January, 2), true},
		{"ymd", "2024-01-15 13:22", day(2024, time.January, 15), true},
		{"month name", "Jan 15, 2024", day(2024, time.January, 15), true},
		{"month name no comma", "Jan 15 2024", day(2024, time.January, 15), true},
		{"day month year", "15 Jan 2024", day(2024, time.January, 15), true},
		{"case insensitive month", "15 jan 2024", day(2024, time.January, 15), true},
		{"overflow day rejected", "02/30/2024", time.Time{}, false},
		{"month thirteen rejected", "13/01/24", time.Time{}, false},
		{"no date", "THANK YOU COME AGAIN", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.text)
			if ok != tt.ok {
				t.Fatalf("Date(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("Date(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDateScansTopLinesFirst(t *testing.T) {
	// The header date should win over a later one even though both parse.
	text := "STORE\n01/15/2024\n" + strings.Repeat("filler\n", 3) + "refund by 02/20/2024"
	got, ok := Date(text)
	if !ok {
		t.Fatal("expected a date")
	}
	want := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDateFallsBackPastTenLines(t *testing.T) {
	// Date buried beyond line ten is still found by the whole-text pass.
	text := strings.Repeat("line\n", 12) + "printed 03/04/2023"
	got, ok := Date(text)
	if !ok {
		t.Fatal("expected a date")
	}
	want := time.Date(2023, time.March, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
