package ports

import (
	"context"

	"fixflow/internal/domain/maintenance"
)

// FeedbackRecord is one immutable rating. At most one record exists per
// (job_id, submitted_by, role) triple; the store enforces it with a unique
// index so duplicate suppression holds under concurrent submission.
type FeedbackRecord struct {
	FeedbackID  string
	JobID       string
	SubmittedBy string
	Role        maintenance.FeedbackRole
	Rating      int
	Notes       string
	Timestamp   string
}

type FeedbackReadStore interface {
	ListFeedback(ctx context.Context) ([]FeedbackRecord, error)
	ListFeedbackByJob(ctx context.Context, jobID string) ([]FeedbackRecord, error)
	// ListFeedbackByContractor resolves feedback through job assignment:
	// all feedback on jobs whose assigned contractor is contractorID,
	// oldest first.
	ListFeedbackByContractor(ctx context.Context, contractorID string) ([]FeedbackRecord, error)
}

type FeedbackStore interface {
	FeedbackReadStore
	// InsertFeedback returns false without error when the uniqueness triple
	// already exists; the original record stands.
	InsertFeedback(ctx context.Context, feedback FeedbackRecord) (bool, error)
}
