package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReceiptStore mutates receipt rows on behalf of the receipt processor.
type ReceiptStore interface {
	MarkProcessed(ctx context.Context, receiptID uuid.UUID) error
}

type receiptStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewReceiptStore(pool *pgxpool.Pool, log *slog.Logger) ReceiptStore {
	if log == nil {
		log = slog.Default()
	}
	return &receiptStore{pool: pool, log: log}
}

func (s *receiptStore) MarkProcessed(ctx context.Context, receiptID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE receipts SET ocr_status = 'done', processed_at = now() WHERE id = $1`,
		receiptID)
	if err != nil {
		s.log.Error("receipts.mark_processed_failed", "receipt_id", receiptID, "error", err)
		return err
	}
	return nil
}
