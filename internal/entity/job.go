package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/budget-pipeline/constants"
)

// JobHandle is the envelope every job kind shares.
type JobHandle struct {
	ID        uuid.UUID           `json:"id"`
	Status    constants.JobStatus `json:"status"`
	Attempts  int32               `json:"attempts"`
	LastError *string             `json:"last_error,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// Job is a tagged union over the three queues. Exactly one payload
// pointer is non-nil, matching Kind.
type Job struct {
	JobHandle
	Kind     constants.JobKind `json:"kind"`
	Receipt  *ReceiptPayload   `json:"receipt,omitempty"`
	Export   *ExportPayload    `json:"export,omitempty"`
	Deletion *DeletionPayload  `json:"deletion,omitempty"`
}

// ReceiptPayload identifies the uploaded image a receipt job must process.
type ReceiptPayload struct {
	ReceiptID  uuid.UUID `json:"receipt_id"`
	UserID     uuid.UUID `json:"user_id"`
	StorageURI string    `json:"storage_uri"` // blob object key
}

// ExportPayload is the date window an export job must serialize.
type ExportPayload struct {
	UserID   uuid.UUID              `json:"user_id"`
	FromDate time.Time              `json:"from_date"`
	ToDate   time.Time              `json:"to_date"`
	Format   constants.ExportFormat `json:"format"`
}

// DeletionPayload names the account a deletion job must cascade over.
type DeletionPayload struct {
	UserID uuid.UUID `json:"user_id"`
}
