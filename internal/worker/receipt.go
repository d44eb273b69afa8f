package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/budget-pipeline/constants"
	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
	"github.com/joseph-ayodele/budget-pipeline/internal/ocr"
	"github.com/joseph-ayodele/budget-pipeline/internal/parse"
	"github.com/joseph-ayodele/budget-pipeline/internal/repository"
	"github.com/joseph-ayodele/budget-pipeline/internal/storage"
)

// ReceiptProcessor turns an uploaded receipt image into at most one
// transaction row: download, OCR, parse, record.
type ReceiptProcessor struct {
	jobs     repository.JobStore
	receipts repository.ReceiptStore
	txns     repository.TransactionStore
	blobs    storage.BlobStore
	ocr      ocr.TextExtractor
	logger   *slog.Logger
}

func NewReceiptProcessor(
	jobs repository.JobStore,
	receipts repository.ReceiptStore,
	txns repository.TransactionStore,
	blobs storage.BlobStore,
	extractor ocr.TextExtractor,
	logger *slog.Logger,
) *ReceiptProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReceiptProcessor{
		jobs:     jobs,
		receipts: receipts,
		txns:     txns,
		blobs:    blobs,
		ocr:      extractor,
		logger:   logger,
	}
}

func (p *ReceiptProcessor) Process(ctx context.Context, job *entity.Job) {
	start := time.Now()
	if err := p.run(ctx, job); err != nil {
		p.logger.Error("receipt.process_failed", "job_id", job.ID, "error", err)
		_ = p.jobs.MarkFailed(ctx, constants.JobKindReceipt, job.ID, err.Error())
		observeJob(constants.JobKindReceipt, constants.JobStatusFailed, start)
		return
	}
	observeJob(constants.JobKindReceipt, constants.JobStatusDone, start)
}

func (p *ReceiptProcessor) run(ctx context.Context, job *entity.Job) error {
	payload := job.Receipt

	data, err := p.blobs.Get(ctx, payload.StorageURI)
	if err != nil {
		return fmt.Errorf("download receipt image: %w", err)
	}

	text, err := p.ocr.ExtractText(ctx, data)
	if err != nil {
		return fmt.Errorf("ocr: %w", err)
	}

	parsed := parse.Receipt(text)

	if err := p.receipts.MarkProcessed(ctx, payload.ReceiptID); err != nil {
		return fmt.Errorf("mark receipt processed: %w", err)
	}

	// A missing or zero total is a valid parse outcome: the receipt is done
	// but no transaction row is created.
	if parsed.TotalCents != nil && *parsed.TotalCents > 0 {
		txnDate := time.Now().UTC().Truncate(24 * time.Hour)
		if parsed.TxnDate != nil {
			txnDate = *parsed.TxnDate
		}
		receiptID := payload.ReceiptID
		txn := &entity.Transaction{
			UserID:     payload.UserID,
			ReceiptID:  &receiptID,
			Merchant:   parsed.Merchant,
			TxnDate:    txnDate,
			TotalCents: *parsed.TotalCents,
			TaxCents:   parsed.TaxCents,
			TipCents:   parsed.TipCents,
			// Category stays the placeholder here; the categorization
			// engine runs on the manual-entry path, not in the worker.
			Category: string(constants.Other),
			Source:   "receipt",
			RawText:  &text,
		}
		if err := p.txns.Insert(ctx, txn); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	} else {
		p.logger.Info("receipt.no_total", "job_id", job.ID, "receipt_id", payload.ReceiptID)
	}

	return p.jobs.MarkReceiptDone(ctx, job.ID)
}
