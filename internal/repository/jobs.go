package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/budget-pipeline/constants"
	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
)

// JobStore owns the three job queues. ClaimNext is the sole point of mutual
// exclusion between workers: the pending->processing transition is a single
// conditional UPDATE committed before any side effect runs, so a second
// claimant observes the row already out of pending and finds nothing.
type JobStore interface {
	ClaimNext(ctx context.Context) (*entity.Job, error)
	MarkReceiptDone(ctx context.Context, jobID uuid.UUID) error
	MarkExportDone(ctx context.Context, jobID uuid.UUID, storageURI string) error
	MarkFailed(ctx context.Context, kind constants.JobKind, jobID uuid.UUID, message string) error
	RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type jobStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewJobStore(pool *pgxpool.Pool, log *slog.Logger) JobStore {
	if log == nil {
		log = slog.Default()
	}
	return &jobStore{pool: pool, log: log}
}

// ClaimNext claims at most one job across the queues in priority order:
// receipt, then export, then deletion. Returns nil when every queue is
// empty.
func (s *jobStore) ClaimNext(ctx context.Context) (*entity.Job, error) {
	job, err := s.claimReceipt(ctx)
	if err != nil || job != nil {
		return job, err
	}
	job, err = s.claimExport(ctx)
	if err != nil || job != nil {
		return job, err
	}
	return s.claimDeletion(ctx)
}

func (s *jobStore) claimReceipt(ctx context.Context) (*entity.Job, error) {
	var (
		handle    entity.JobHandle
		receiptID uuid.UUID
	)
	err := s.pool.QueryRow(ctx, `
		WITH next AS (
			SELECT id FROM receipt_processing_jobs
			WHERE status = 'pending'
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE receipt_processing_jobs j
		SET status = 'processing', started_at = now()
		FROM next
		WHERE j.id = next.id AND j.status = 'pending'
		RETURNING j.id, j.attempts, j.created_at, j.receipt_id
	`).Scan(&handle.ID, &handle.Attempts, &handle.CreatedAt, &receiptID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	handle.Status = constants.JobStatusProcessing

	payload := &entity.ReceiptPayload{ReceiptID: receiptID}
	err = s.pool.QueryRow(ctx,
		`SELECT user_id, storage_uri FROM receipts WHERE id = $1`,
		receiptID,
	).Scan(&payload.UserID, &payload.StorageURI)
	if err != nil {
		return nil, err
	}

	s.log.Info("job.claimed", "kind", constants.JobKindReceipt, "job_id", handle.ID)
	return &entity.Job{JobHandle: handle, Kind: constants.JobKindReceipt, Receipt: payload}, nil
}

func (s *jobStore) claimExport(ctx context.Context) (*entity.Job, error) {
	var (
		handle  entity.JobHandle
		payload entity.ExportPayload
		format  string
	)
	err := s.pool.QueryRow(ctx, `
		WITH next AS (
			SELECT id FROM export_jobs
			WHERE status = 'pending'
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE export_jobs e
		SET status = 'processing', started_at = now()
		FROM next
		WHERE e.id = next.id AND e.status = 'pending'
		RETURNING e.id, e.attempts, e.created_at, e.user_id, e.from_date, e.to_date, e.format
	`).Scan(&handle.ID, &handle.Attempts, &handle.CreatedAt,
		&payload.UserID, &payload.FromDate, &payload.ToDate, &format)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	handle.Status = constants.JobStatusProcessing
	payload.Format = constants.ExportFormat(format)
	if payload.Format == "" {
		payload.Format = constants.ExportFormatCSV
	}

	s.log.Info("job.claimed", "kind", constants.JobKindExport, "job_id", handle.ID)
	return &entity.Job{JobHandle: handle, Kind: constants.JobKindExport, Export: &payload}, nil
}

func (s *jobStore) claimDeletion(ctx context.Context) (*entity.Job, error) {
	var (
		handle  entity.JobHandle
		payload entity.DeletionPayload
	)
	err := s.pool.QueryRow(ctx, `
		WITH next AS (
			SELECT id FROM deletion_jobs
			WHERE status = 'scheduled'
			ORDER BY requested_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE deletion_jobs d
		SET status = 'processing', started_at = now()
		FROM next
		WHERE d.id = next.id AND d.status = 'scheduled'
		RETURNING d.id, d.attempts, d.requested_at, d.user_id
	`).Scan(&handle.ID, &handle.Attempts, &handle.CreatedAt, &payload.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	handle.Status = constants.JobStatusProcessing

	s.log.Info("job.claimed", "kind", constants.JobKindDeletion, "job_id", handle.ID)
	return &entity.Job{JobHandle: handle, Kind: constants.JobKindDeletion, Deletion: &payload}, nil
}

func (s *jobStore) MarkReceiptDone(ctx context.Context, jobID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE receipt_processing_jobs SET status = 'done', completed_at = now() WHERE id = $1`,
		jobID)
	if err != nil {
		s.log.Error("job.mark_done_failed", "kind", constants.JobKindReceipt, "job_id", jobID, "error", err)
		return err
	}
	s.log.Info("job.done", "kind", constants.JobKindReceipt, "job_id", jobID)
	return nil
}

func (s *jobStore) MarkExportDone(ctx context.Context, jobID uuid.UUID, storageURI string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE export_jobs SET status = 'done', storage_uri = $2, completed_at = now() WHERE id = $1`,
		jobID, storageURI)
	if err != nil {
		s.log.Error("job.mark_done_failed", "kind", constants.JobKindExport, "job_id", jobID, "error", err)
		return err
	}
	s.log.Info("job.done", "kind", constants.JobKindExport, "job_id", jobID, "storage_uri", storageURI)
	return nil
}

// MarkFailed records the terminal failure and increments attempts. Failed
// jobs are not retried by this core; re-queueing is an operational action.
func (s *jobStore) MarkFailed(ctx context.Context, kind constants.JobKind, jobID uuid.UUID, message string) error {
	var table string
	switch kind {
	case constants.JobKindReceipt:
		table = "receipt_processing_jobs"
	case constants.JobKindExport:
		table = "export_jobs"
	case constants.JobKindDeletion:
		table = "deletion_jobs"
	default:
		return errors.New("unknown job kind: " + string(kind))
	}
	_, err := s.pool.Exec(ctx,
		`UPDATE `+table+` SET status = 'failed', last_error = $2, attempts = attempts + 1 WHERE id = $1`,
		jobID, message)
	if err != nil {
		s.log.Error("job.mark_failed_failed", "kind", kind, "job_id", jobID, "error", err)
		return err
	}
	s.log.Warn("job.failed", "kind", kind, "job_id", jobID, "last_error", message)
	return nil
}

// RequeueStale resets processing jobs whose claim is older than the cutoff
// back to their waiting status. A worker that dies mid-job leaves the row
// in processing; this sweep is opt-in and runs once at startup. Staleness
// is judged on started_at (set at claim time), never on row age, so a
// freshly claimed old job is left alone.
func (s *jobStore) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	var total int64

	tag, err := s.pool.Exec(ctx,
		`UPDATE receipt_processing_jobs SET status = 'pending', started_at = NULL
		 WHERE status = 'processing' AND started_at < $1`, cutoff)
	if err != nil {
		return total, err
	}
	total += tag.RowsAffected()

	tag, err = s.pool.Exec(ctx,
		`UPDATE export_jobs SET status = 'pending', started_at = NULL
		 WHERE status = 'processing' AND started_at < $1`, cutoff)
	if err != nil {
		return total, err
	}
	total += tag.RowsAffected()

	tag, err = s.pool.Exec(ctx,
		`UPDATE deletion_jobs SET status = 'scheduled', started_at = NULL
		 WHERE status = 'processing' AND started_at < $1`, cutoff)
	if err != nil {
		return total, err
	}
	total += tag.RowsAffected()

	if total > 0 {
		s.log.Warn("job.requeued_stale", "count", total, "older_than", olderThan.String())
	}
	return total, nil
}
