package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/domain/maintenance"
	"fixflow/internal/errs"
	"fixflow/internal/ports"
)

// Service is the feedback ledger: immutable post-completion ratings with
// duplicate suppression per (job, submitter, role) triple. It reads jobs
// only to validate linkage; it never mutates them.
type Service struct {
	store ports.FeedbackStore
	jobs  ports.JobReadStore
	uow   ports.UnitOfWork
}

func NewService(store ports.FeedbackStore, jobs ports.JobReadStore, uow ports.UnitOfWork) *Service {
	return &Service{
		store: store,
		jobs:  jobs,
		uow:   uow,
	}
}

type SubmitFeedbackInput struct {
	JobID       string
	SubmittedBy string
	Role        string
	Rating      int
	Notes       string
}

func (s *Service) SubmitFeedback(ctx context.Context, input SubmitFeedbackInput) (ports.FeedbackRecord, error) {
	if ctx == nil {
		return ports.FeedbackRecord{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.FeedbackRecord{}, errs.Wrap(err, "check context")
	}
	if s.store == nil || s.jobs == nil {
		return ports.FeedbackRecord{}, errors.New("feedback and job stores are required")
	}
	if s.uow == nil {
		return ports.FeedbackRecord{}, errors.New("unit of work is required")
	}

	jobID := strings.TrimSpace(input.JobID)
	if jobID == "" {
		return ports.FeedbackRecord{}, fmt.Errorf("%w: job_id is required", maintenance.ErrValidation)
	}
	submittedBy := strings.TrimSpace(input.SubmittedBy)
	if submittedBy == "" {
		return ports.FeedbackRecord{}, fmt.Errorf("%w: submitted_by is required", maintenance.ErrValidation)
	}
	role, err := maintenance.ParseFeedbackRole(input.Role)
	if err != nil {
		return ports.FeedbackRecord{}, err
	}
	if err := maintenance.CheckRating(input.Rating); err != nil {
		return ports.FeedbackRecord{}, err
	}

	record := ports.FeedbackRecord{
		FeedbackID:  uuid.NewString(),
		JobID:       jobID,
		SubmittedBy: submittedBy,
		Role:        role,
		Rating:      input.Rating,
		Notes:       input.Notes,
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
	}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.jobs.GetJob(txCtx, jobID); err != nil {
			return err
		}

		inserted, err := s.store.InsertFeedback(txCtx, record)
		if err != nil {
			return err
		}
		if !inserted {
			return fmt.Errorf("%w: job %s by %s as %s", maintenance.ErrDuplicateFeedback, jobID, submittedBy, role)
		}
		return nil
	}); err != nil {
		return ports.FeedbackRecord{}, err
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.feedback")),
		"feedback recorded",
		slog.String("job_id", jobID),
		slog.String("role", string(role)),
		slog.Int("rating", record.Rating),
	)
	return record, nil
}

func (s *Service) LoadAllFeedback(ctx context.Context) ([]ports.FeedbackRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.store == nil {
		return nil, errors.New("feedback store is required")
	}

	return s.store.ListFeedback(ctx)
}

func (s *Service) GetFeedbackByJob(ctx context.Context, jobID string) ([]ports.FeedbackRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.store == nil {
		return nil, errors.New("feedback store is required")
	}

	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, fmt.Errorf("%w: job id is required", maintenance.ErrValidation)
	}
	return s.store.ListFeedbackByJob(ctx, jobID)
}
