package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/budget-pipeline/constants"
	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
	"github.com/joseph-ayodele/budget-pipeline/internal/repository"
)

// DeletionProcessor cascades an account deletion. The cascade runs in one
// transaction per job; success removes the job row itself, so "done" is
// represented by row deletion rather than a status value.
type DeletionProcessor struct {
	jobs   repository.JobStore
	users  repository.UserStore
	logger *slog.Logger
}

func NewDeletionProcessor(jobs repository.JobStore, users repository.UserStore, logger *slog.Logger) *DeletionProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeletionProcessor{jobs: jobs, users: users, logger: logger}
}

func (p *DeletionProcessor) Process(ctx context.Context, job *entity.Job) {
	start := time.Now()
	payload := job.Deletion
	if err := p.users.DeleteCascade(ctx, payload.UserID, job.ID); err != nil {
		p.logger.Error("deletion.process_failed",
			"job_id", job.ID, "user_id", payload.UserID, "error", err)
		_ = p.jobs.MarkFailed(ctx, constants.JobKindDeletion, job.ID, err.Error())
		observeJob(constants.JobKindDeletion, constants.JobStatusFailed, start)
		return
	}
	p.logger.Info("deletion.ok", "job_id", job.ID, "user_id", payload.UserID)
	observeJob(constants.JobKindDeletion, constants.JobStatusDone, start)
}
