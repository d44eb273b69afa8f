package parse

import (
	"math"
	"strconv"
	"strings"
)

// Amount converts a money string to integer cents, stripping currency
// symbols and thousands separators. Returns ok=false on anything
// non-numeric; it never fails loudly because OCR output is noisy and a
// miss is an expected outcome.
func Amount(s string) (int64, bool) {
	cleaned := strings.NewReplacer(",", "", "$", "").Replace(s)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return int64(math.Round(v * 100)), true
}
