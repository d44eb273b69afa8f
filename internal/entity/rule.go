package entity

import (
	"time"
)

// MerchantRule maps a merchant pattern (regexp, or literal fallback when it
// does not compile) onto a category with a confidence score.
type MerchantRule struct {
	ID         int64     `json:"id"`
	Pattern    string    `json:"pattern"`
	Category   string    `json:"category"`
	Confidence float64   `json:"confidence"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// KeywordRule maps a literal keyword onto a category, optionally scoped to
// merchant or line-item text.
type KeywordRule struct {
	ID         int64     `json:"id"`
	Keyword    string    `json:"keyword"`
	Scope      string    `json:"scope"`
	Category   string    `json:"category"`
	Confidence float64   `json:"confidence"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}
