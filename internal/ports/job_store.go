package ports

import (
	"context"

	"fixflow/internal/domain/maintenance"
)

// JobRecord is the persisted shape of a job. Version is the optimistic
// concurrency token: every mutation is conditional on the version it read
// and bumps it by one.
type JobRecord struct {
	JobID                string
	IncidentID           string
	JobType              string
	Price                float64
	Priority             string
	Description          string
	Status               maintenance.JobStatus
	AssignedContractorID *string
	Accepted             *bool
	ProposedSchedule     *string
	CreatedBy            string
	Timestamp            string
	Version              int64
}

// JobFilter narrows ListJobs/CountJobs. Zero value matches everything.
type JobFilter struct {
	ContractorID string
	Statuses     []maintenance.JobStatus
}

// JobEvent is one append-only audit row for a job. Calling layers
// (notification dispatch, dashboards) tail these.
type JobEvent struct {
	EventID   uint64
	JobID     string
	Actor     string
	Action    string
	Detail    string
	CreatedAt string
}

type JobEventCreate struct {
	JobID     string
	Actor     string
	Action    string
	Detail    string
	CreatedAt string
}

type JobReadStore interface {
	// GetJob reports an unknown id as maintenance.ErrNotFound.
	GetJob(ctx context.Context, jobID string) (JobRecord, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]JobRecord, error)
	CountJobs(ctx context.Context, filter JobFilter) (int64, error)
	ListJobEvents(ctx context.Context, jobID string) ([]JobEvent, error)
}

// JobStore mutates jobs through version-conditioned writes. Each mutation
// returns false when zero rows matched (jobID, expectedVersion), meaning a
// concurrent writer got there first and the caller must re-read and retry.
type JobStore interface {
	JobReadStore
	CreateJob(ctx context.Context, job JobRecord) error
	AssignContractor(ctx context.Context, jobID string, expectedVersion int64, contractorID string, updatedAt string) (bool, error)
	RecordDecision(ctx context.Context, jobID string, expectedVersion int64, accepted bool, status maintenance.JobStatus, updatedAt string) (bool, error)
	SetProposedSchedule(ctx context.Context, jobID string, expectedVersion int64, schedule string, updatedAt string) (bool, error)
	MarkCompleted(ctx context.Context, jobID string, expectedVersion int64, completedAt string) (bool, error)
	AppendJobEvent(ctx context.Context, input JobEventCreate) error
}
