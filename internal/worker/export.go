package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/budget-pipeline/constants"
	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
	"github.com/joseph-ayodele/budget-pipeline/internal/export"
	"github.com/joseph-ayodele/budget-pipeline/internal/repository"
	"github.com/joseph-ayodele/budget-pipeline/internal/storage"
)

// ExportProcessor serializes a user's transactions for a date window and
// uploads the artifact to the blob store.
type ExportProcessor struct {
	jobs   repository.JobStore
	txns   repository.TransactionStore
	blobs  storage.BlobStore
	logger *slog.Logger
}

func NewExportProcessor(
	jobs repository.JobStore,
	txns repository.TransactionStore,
	blobs storage.BlobStore,
	logger *slog.Logger,
) *ExportProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportProcessor{jobs: jobs, txns: txns, blobs: blobs, logger: logger}
}

func (p *ExportProcessor) Process(ctx context.Context, job *entity.Job) {
	start := time.Now()
	if err := p.run(ctx, job); err != nil {
		p.logger.Error("export.process_failed", "job_id", job.ID, "error", err)
		_ = p.jobs.MarkFailed(ctx, constants.JobKindExport, job.ID, err.Error())
		observeJob(constants.JobKindExport, constants.JobStatusFailed, start)
		return
	}
	observeJob(constants.JobKindExport, constants.JobStatusDone, start)
}

func (p *ExportProcessor) run(ctx context.Context, job *entity.Job) error {
	payload := job.Export

	txns, err := p.txns.ListForExport(ctx, payload.UserID, payload.FromDate, payload.ToDate)
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}

	data, err := export.Write(payload.Format, txns)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", payload.Format, err)
	}

	key := export.ObjectKey(payload.UserID, job.ID, payload.Format)
	if err := p.blobs.Put(ctx, key, data, export.ContentType(payload.Format)); err != nil {
		return fmt.Errorf("upload export: %w", err)
	}

	p.logger.Info("export.ok",
		"job_id", job.ID, "user_id", payload.UserID,
		"rows", len(txns), "bytes", len(data), "key", key,
	)
	return p.jobs.MarkExportDone(ctx, job.ID, key)
}
