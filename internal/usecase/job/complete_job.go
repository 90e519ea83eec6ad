package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/domain/maintenance"
	"fixflow/internal/errs"
	"fixflow/internal/ports"
)

// CompleteJob moves an accepted job to completed and records the completion
// time. Completion only changes job status; feedback is a separate,
// independently idempotent operation on the feedback ledger.
func (s *Service) CompleteJob(ctx context.Context, jobID string, actor string) (ports.JobRecord, error) {
	if ctx == nil {
		return ports.JobRecord{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.JobRecord{}, errs.Wrap(err, "check context")
	}
	if err := s.checkDeps(); err != nil {
		return ports.JobRecord{}, err
	}

	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return ports.JobRecord{}, fmt.Errorf("%w: job id is required", maintenance.ErrValidation)
	}
	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = "coordinator"
	}

	if err := s.mutateWithRetry(ctx, func(txCtx context.Context) error {
		current, err := s.jobs.GetJob(txCtx, jobID)
		if err != nil {
			return err
		}
		if err := maintenance.CheckComplete(current.Status); err != nil {
			return err
		}

		now := nowUTCString()
		ok, err := s.jobs.MarkCompleted(txCtx, jobID, current.Version, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: job %s", maintenance.ErrConflict, jobID)
		}
		return s.appendEventTx(txCtx, jobID, actor, "completed", "job completed", now)
	}); err != nil {
		return ports.JobRecord{}, err
	}

	s.setCacheBestEffort(ctx, cacheJobStatusKey(jobID), string(maintenance.JobCompleted))

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.job")),
		"job completed",
		slog.String("job_id", jobID),
	)
	return s.jobs.GetJob(ctx, jobID)
}
