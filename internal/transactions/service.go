// Package transactions is the manual-entry path: transactions created here
// get their category from the caller or, absent one, from the
// categorization engine. (The worker's receipt path does not call the
// engine; it records the placeholder category.)
package transactions

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/budget-pipeline/internal/categorize"
	"github.com/joseph-ayodele/budget-pipeline/internal/common"
	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
	"github.com/joseph-ayodele/budget-pipeline/internal/repository"
)

type Service struct {
	txns   repository.TransactionStore
	engine *categorize.Engine
	logger *slog.Logger
}

func NewService(txns repository.TransactionStore, engine *categorize.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{txns: txns, engine: engine, logger: logger}
}

// CreateRequest wraps parameters for a manually entered transaction.
type CreateRequest struct {
	UserID       uuid.UUID
	Merchant     string
	TxnDate      time.Time
	TotalCents   int64
	TaxCents     *int64
	TipCents     *int64
	CurrencyCode string
	Category     string // empty = let the engine decide
	RawText      string
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*entity.Transaction, error) {
	if req.UserID == uuid.Nil {
		return nil, common.NewAppError("VALIDATION_ERROR", "user id is required", common.ErrInvalidInput)
	}
	if req.TotalCents <= 0 {
		return nil, common.NewAppError("VALIDATION_ERROR", "total must be positive", common.ErrInvalidInput)
	}
	if req.TxnDate.IsZero() {
		req.TxnDate = time.Now().UTC().Truncate(24 * time.Hour)
	}

	category := req.Category
	if category == "" {
		category = s.engine.Determine(ctx, req.Merchant, req.RawText)
	}

	txn := &entity.Transaction{
		UserID:       req.UserID,
		TxnDate:      req.TxnDate,
		TotalCents:   req.TotalCents,
		TaxCents:     req.TaxCents,
		TipCents:     req.TipCents,
		CurrencyCode: req.CurrencyCode,
		Category:     category,
		Source:       "manual",
	}
	if req.Merchant != "" {
		txn.Merchant = &req.Merchant
	}
	if req.RawText != "" {
		txn.RawText = &req.RawText
	}

	if err := s.txns.Insert(ctx, txn); err != nil {
		return nil, common.WrapError(err, "create transaction")
	}
	s.logger.Info("transactions.manual_created",
		"txn_id", txn.ID, "user_id", txn.UserID, "category", txn.Category)
	return txn, nil
}
