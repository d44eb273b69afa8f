package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
)

// TransactionStore persists transaction rows and serves the export query.
type TransactionStore interface {
	Insert(ctx context.Context, txn *entity.Transaction) error
	// ListForExport returns the user's transactions inside the inclusive
	// date window, ordered by txn_date then id so repeated exports of
	// unchanged data are byte-identical.
	ListForExport(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*entity.Transaction, error)
}

type transactionStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewTransactionStore(pool *pgxpool.Pool, log *slog.Logger) TransactionStore {
	if log == nil {
		log = slog.Default()
	}
	return &transactionStore{pool: pool, log: log}
}

func (s *transactionStore) Insert(ctx context.Context, txn *entity.Transaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CurrencyCode == "" {
		txn.CurrencyCode = "USD"
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO transactions
			(id, user_id, receipt_id, merchant, txn_date, total_cents, tax_cents, tip_cents,
			 currency_code, category, subcategory, source, raw_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		txn.ID, txn.UserID, txn.ReceiptID, txn.Merchant, txn.TxnDate,
		txn.TotalCents, txn.TaxCents, txn.TipCents,
		txn.CurrencyCode, txn.Category, txn.Subcategory, txn.Source, txn.RawText,
	)
	if err != nil {
		s.log.Error("transactions.insert_failed", "user_id", txn.UserID, "error", err)
		return err
	}
	s.log.Info("transactions.inserted",
		"txn_id", txn.ID, "user_id", txn.UserID,
		"total_cents", txn.TotalCents, "category", txn.Category, "source", txn.Source,
	)
	return nil
}

func (s *transactionStore) ListForExport(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*entity.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, receipt_id, merchant, txn_date, total_cents, tax_cents, tip_cents,
		       currency_code, category, subcategory, source, created_at
		FROM transactions
		WHERE user_id = $1 AND txn_date BETWEEN $2 AND $3
		ORDER BY txn_date ASC, id ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.ReceiptID, &t.Merchant, &t.TxnDate,
			&t.TotalCents, &t.TaxCents, &t.TipCents,
			&t.CurrencyCode, &t.Category, &t.Subcategory, &t.Source, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		txns = append(txns, &t)
	}
	return txns, rows.Err()
}
