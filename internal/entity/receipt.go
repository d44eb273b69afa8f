package entity

import (
	"time"
)

// ParsedReceipt is the transient result of running the receipt parser over
// OCR text. Nil fields mean the extractor found nothing; that is a valid
// outcome, not an error. Never mutated after creation.
type ParsedReceipt struct {
	Merchant   *string    `json:"merchant,omitempty"`
	TxnDate    *time.Time `json:"txn_date,omitempty"`
	TotalCents *int64     `json:"total_cents,omitempty"`
	TaxCents   *int64     `json:"tax_cents,omitempty"`
	TipCents   *int64     `json:"tip_cents,omitempty"`
	LineItems  []LineItem `json:"line_items"`
}

// LineItem is a single "description followed by trailing price" line.
// Quantity and unit price are not derivable from OCR text and stay unset.
type LineItem struct {
	Description string `json:"description"`
	TotalCents  int64  `json:"total_cents"`
}
