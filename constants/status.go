package constants

// JobStatus is the canonical lifecycle status for job rows.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusPending    JobStatus = "pending"    // awaiting a worker
	JobStatusScheduled  JobStatus = "scheduled"  // deletion jobs: awaiting a worker
	JobStatusProcessing JobStatus = "processing" // claimed by a worker
	JobStatusDone       JobStatus = "done"       // terminal success
	JobStatusFailed     JobStatus = "failed"     // terminal failure
)

// JobKind discriminates the three job queues.
type JobKind string

const (
	JobKindReceipt  JobKind = "receipt"
	JobKindExport   JobKind = "export"
	JobKindDeletion JobKind = "deletion"
)

// ExportFormat selects the serialization of an export job's artifact.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// RuleScope restricts a keyword rule to the text it may match against.
type RuleScope string

const (
	RuleScopeMerchant RuleScope = "merchant"
	RuleScopeLineItem RuleScope = "line_item"
	RuleScopeBoth     RuleScope = "both"
)
