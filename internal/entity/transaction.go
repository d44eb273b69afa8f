package entity

import (
	"time"

	"github.com/google/uuid"
)

// Transaction represents a transaction row for data transfer between layers.
type Transaction struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	ReceiptID    *uuid.UUID `json:"receipt_id,omitempty"`
	Merchant     *string    `json:"merchant,omitempty"`
	TxnDate      time.Time  `json:"txn_date"`
	TotalCents   int64      `json:"total_cents"`
	TaxCents     *int64     `json:"tax_cents,omitempty"`
	TipCents     *int64     `json:"tip_cents,omitempty"`
	CurrencyCode string     `json:"currency_code"`
	Category     string     `json:"category"`
	Subcategory  *string    `json:"subcategory,omitempty"`
	Source       string     `json:"source"`
	RawText      *string    `json:"raw_text,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
