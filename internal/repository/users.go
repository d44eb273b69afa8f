package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStore performs the account-deletion cascade.
type UserStore interface {
	// DeleteCascade removes every per-user row, soft-deletes the user, and
	// removes the deletion job itself, all in one transaction: a failure
	// anywhere rolls the whole cascade back and the job row survives to be
	// marked failed.
	DeleteCascade(ctx context.Context, userID, jobID uuid.UUID) error
}

type userStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewUserStore(pool *pgxpool.Pool, log *slog.Logger) UserStore {
	if log == nil {
		log = slog.Default()
	}
	return &userStore{pool: pool, log: log}
}

// Cascade order: leaf tables first, FK ON DELETE CASCADE handles the rest
// where present.
var cascadeStatements = []string{
	`DELETE FROM sessions WHERE user_id = $1`,
	`DELETE FROM identities WHERE user_id = $1`,
	`DELETE FROM profiles WHERE user_id = $1`,
	`DELETE FROM subscriptions WHERE user_id = $1`,
	`DELETE FROM receipts WHERE user_id = $1`,
	`DELETE FROM transactions WHERE user_id = $1`,
	`DELETE FROM budgets WHERE user_id = $1`,
	`DELETE FROM user_badges WHERE user_id = $1`,
	`DELETE FROM usage_counters WHERE user_id = $1`,
	`DELETE FROM export_jobs WHERE user_id = $1`,
	`DELETE FROM account_balances USING linked_accounts la
	 WHERE account_balances.linked_account_id = la.id AND la.user_id = $1`,
	`DELETE FROM linked_accounts WHERE user_id = $1`,
}

func (s *userStore) DeleteCascade(ctx context.Context, userID, jobID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, stmt := range cascadeStatements {
		if _, err := tx.Exec(ctx, stmt, userID); err != nil {
			s.log.Error("users.cascade_failed", "user_id", userID, "error", err)
			return err
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM deletion_jobs WHERE id = $1`, jobID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET deleted_at = now() WHERE id = $1`, userID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.log.Info("users.deleted", "user_id", userID, "job_id", jobID)
	return nil
}
