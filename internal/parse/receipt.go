package parse

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
)

// Label patterns for the money extractors. Each captures the trailing
// amount; all match case-insensitively.
var (
	totalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)total\s*[:\-]?\s*\$?\s*([0-9]+[\.,][0-9]{2})`),
		regexp.MustCompile(`(?i)amount due\s*[:\-]?\s*\$?\s*([0-9]+[\.,][0-9]{2})`),
		regexp.MustCompile(`(?i)grand total\s*[:\-]?\s*\$?\s*([0-9]+[\.,][0-9]{2})`),
		regexp.MustCompile(`(?i)balance\s*[:\-]?\s*\$?\s*([0-9]+[\.,][0-9]{2})`),
	}

	taxPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)tax\s*[:\-]?\s*\$?\s*([0-9]+[\.,][0-9]{2})`),
		regexp.MustCompile(`(?i)sales tax\s*[:\-]?\s*\$?\s*([0-9]+[\.,][0-9]{2})`),
		regexp.MustCompile(`(?i)tax amount\s*[:\-]?\s*\$?\s*([0-9]+[\.,][0-9]{2})`),
	}

	tipPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)tip\s*[:\-]?\s*\$?\s*([0-9]+[\.,][0-9]{2})`),
		regexp.MustCompile(`(?i)gratuity\s*[:\-]?\s*\$?\s*([0-9]+[\.,][0-9]{2})`),
	}

	// Subtotal marks where the line-item region ends.
	subtotalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)subtotal\s*[:\-]?\s*\$?\s*([0-9]+[\.,][0-9]{2})`),
		regexp.MustCompile(`(?i)sub-total\s*[:\-]?\s*\$?\s*([0-9]+[\.,][0-9]{2})`),
	}

	// Line item: description followed by a trailing price.
	lineItemPattern = regexp.MustCompile(`^(.+?)\s+\$?\s*([0-9]+[\.,][0-9]{2})\s*$`)
)

// Merchant skip patterns: header lines that are clearly not a store name.
var merchantSkipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`), // date
	regexp.MustCompile(`^\d{3}[-.]?\d{3}[-.]?\d{4}`),     // phone
	regexp.MustCompile(`^.*@.*\..*$`),                    // email
	regexp.MustCompile(`(?i)^receipt$`),
	regexp.MustCompile(`(?i)^thank you`),
}

var merchantPrefixPattern = regexp.MustCompile(`(?i)^(receipt|invoice|bill)\s*:?\s*`)

var addressWords = map[string]bool{
	"street": true, "st": true, "avenue": true, "ave": true,
	"road": true, "rd": true, "boulevard": true, "blvd": true,
	"drive": true, "dr": true,
}

const (
	merchantScanLines = 5
	merchantMaxLen    = 100
	totalTailLines    = 20
	taxTipTailLines   = 15
	itemDescMaxLen    = 200
)

// Receipt parses OCR text into structured receipt data. It is pure and
// total: malformed input degrades to nil fields, never an error.
func Receipt(text string) *entity.ParsedReceipt {
	r := &entity.ParsedReceipt{
		LineItems: LineItems(text),
	}
	if m, ok := Merchant(text); ok {
		r.Merchant = &m
	}
	if d, ok := Date(text); ok {
		r.TxnDate = &d
	}
	if v, ok := Total(text); ok {
		r.TotalCents = &v
	}
	if v, ok := Tax(text); ok {
		r.TaxCents = &v
	}
	if v, ok := Tip(text); ok {
		r.TipCents = &v
	}
	return r
}

// Merchant scans the first few non-blank lines for a store name, skipping
// dates, phone numbers, emails, boilerplate, address lines and all-digit
// lines. Returns the first surviving line, trimmed and length-capped.
func Merchant(text string) (string, bool) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) > merchantScanLines {
		lines = lines[:merchantScanLines]
	}

scan:
	for _, line := range lines {
		for _, p := range merchantSkipPatterns {
			if p.MatchString(line) {
				continue scan
			}
		}
		if len(line) < 2 || isAllDigits(line) {
			continue
		}
		if hasAddressWord(line) {
			continue
		}
		cleaned := merchantPrefixPattern.ReplaceAllString(line, "")
		cleaned = strings.TrimSpace(cleaned)
		if cleaned == "" {
			continue
		}
		return capRunes(cleaned, merchantMaxLen), true
	}
	return "", false
}

// Total extracts the grand total. The last lines are searched first, then
// the whole text. Receipts often repeat "total" for subtotals before the
// final total line, so among matches of the first pattern that matches
// anything the last occurrence wins.
func Total(text string) (int64, bool) {
	if v, ok := lastMatch(tail(text, totalTailLines), totalPatterns); ok {
		return v, true
	}
	return lastMatch(text, totalPatterns)
}

// Tax extracts the tax amount from the trailing lines, falling back to the
// whole text. First match wins; tax is usually printed once.
func Tax(text string) (int64, bool) {
	if v, ok := firstMatch(tail(text, taxTipTailLines), taxPatterns); ok {
		return v, true
	}
	return firstMatch(text, taxPatterns)
}

// Tip extracts the tip/gratuity amount, same search shape as Tax.
func Tip(text string) (int64, bool) {
	if v, ok := firstMatch(tail(text, taxTipTailLines), tipPatterns); ok {
		return v, true
	}
	return firstMatch(text, tipPatterns)
}

// LineItems extracts "description, trailing price" lines from the region
// above the first subtotal or tax line. Lines that themselves look like a
// total/tax/tip label are excluded even inside the region.
func LineItems(text string) []entity.LineItem {
	lines := strings.Split(text, "\n")

	end := len(lines)
	for i, line := range lines {
		if matchesAny(line, subtotalPatterns) || matchesAny(line, taxPatterns) {
			end = i
			break
		}
	}

	var items []entity.LineItem
	for _, line := range lines[:end] {
		line = strings.TrimSpace(line)
		if len(line) < 3 {
			continue
		}
		if matchesAny(line, totalPatterns) || matchesAny(line, taxPatterns) || matchesAny(line, tipPatterns) {
			continue
		}
		m := lineItemPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		desc := strings.TrimSpace(m[1])
		cents, ok := Amount(m[2])
		if !ok || cents == 0 || desc == "" {
			continue
		}
		items = append(items, entity.LineItem{Description: capRunes(desc, itemDescMaxLen), TotalCents: cents})
	}
	return items
}

// tail returns the last n lines of text joined back together.
func tail(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// lastMatch takes, for the first pattern with any match, the last
// occurrence's amount.
func lastMatch(text string, patterns []*regexp.Regexp) (int64, bool) {
	for _, p := range patterns {
		matches := p.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		if v, ok := Amount(matches[len(matches)-1][1]); ok && v != 0 {
			return v, true
		}
	}
	return 0, false
}

func firstMatch(text string, patterns []*regexp.Regexp) (int64, bool) {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := Amount(m[1]); ok && v != 0 {
			return v, true
		}
	}
	return 0, false
}

func matchesAny(line string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// capRunes length-caps by runes so OCR noise with multi-byte characters
// never gets cut mid-rune.
func capRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func isAllDigits(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// hasAddressWord does whole-token matching so "St" the street suffix skips
// a line but "Starbucks" does not.
func hasAddressWord(line string) bool {
	for _, tok := range strings.Fields(strings.ToLower(line)) {
		tok = strings.Trim(tok, ".,")
		if addressWords[tok] {
			return true
		}
	}
	return false
}
