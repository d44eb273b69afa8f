package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date patterns - common receipt date formats, tried in order.
var (
	dateNumericMDY = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`) // MM/DD/YYYY or MM-DD-YY
	dateNumericYMD = regexp.MustCompile(`(\d{4})[/-](\d{1,2})[/-](\d{1,2})`)   // YYYY/MM/DD
	dateMonDayYear = regexp.MustCompile(`([A-Za-z]{3})\s+(\d{1,2}),?\s+(\d{4})`) // Jan 15, 2024
	dateDayMonYear = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]{3})\s+(\d{4})`)   // 15 Jan 2024
)

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Date extracts a calendar date from receipt text. The first ten lines are
// scanned first (dates usually print near the top), then the whole text as
// a fallback. First valid match wins; there is no cross-validation against
// other candidates. Returns ok=false when nothing parses.
func Date(text string) (time.Time, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}
	for _, line := range lines {
		if d, ok := dateFrom(line); ok {
			return d, true
		}
	}
	return dateFrom(text)
}

func dateFrom(s string) (time.Time, bool) {
	if m := dateNumericMDY.FindStringSubmatch(s); m != nil {
		if d, ok := numericDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	if m := dateNumericYMD.FindStringSubmatch(s); m != nil {
		if d, ok := numericDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	if m := dateMonDayYear.FindStringSubmatch(s); m != nil {
		if month, ok := monthNames[strings.ToLower(m[1])]; ok {
			if d, ok := makeDate(atoi(m[3]), month, atoi(m[2])); ok {
				return d, true
			}
		}
	}
	if m := dateDayMonYear.FindStringSubmatch(s); m != nil {
		if month, ok := monthNames[strings.ToLower(m[2])]; ok {
			if d, ok := makeDate(atoi(m[3]), month, atoi(m[1])); ok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// numericDate resolves the ordering ambiguity of slash/dash dates: with a
// 4-digit trailing group, a leading group greater than 12 is treated as a
// 4-digit year (YYYY/MM/DD), otherwise the shape is MM/DD/YYYY. A 2-digit
// year maps to 2000+yy.
func numericDate(g1, g2, g3 string) (time.Time, bool) {
	a, b, c := atoi(g1), atoi(g2), atoi(g3)
	if len(g3) == 4 {
		if a > 12 {
			return makeDate(a, time.Month(b), c)
		}
		return makeDate(c, time.Month(a), b)
	}
	year := c
	if year < 100 {
		year = 2000 + year
	}
	return makeDate(year, time.Month(a), b)
}

func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if year < 1000 || month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. Feb 30); reject anything that moved.
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
