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

// AcceptJob records the assigned contractor's acceptance. The decision is
// write-once: a second accept or reject fails without touching the record.
func (s *Service) AcceptJob(ctx context.Context, jobID string, contractorID string) (ports.JobRecord, error) {
	return s.decide(ctx, jobID, contractorID, true)
}

// RejectJob records the assigned contractor's rejection, a terminal state
// for this assignment cycle.
func (s *Service) RejectJob(ctx context.Context, jobID string, contractorID string) (ports.JobRecord, error) {
	return s.decide(ctx, jobID, contractorID, false)
}

func (s *Service) decide(ctx context.Context, jobID string, contractorID string, accepted bool) (ports.JobRecord, error) {
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
	contractorID = strings.TrimSpace(contractorID)

	status := maintenance.JobAccepted
	action := "accepted"
	if !accepted {
		status = maintenance.JobRejected
		action = "rejected"
	}

	if err := s.mutateWithRetry(ctx, func(txCtx context.Context) error {
		current, err := s.jobs.GetJob(txCtx, jobID)
		if err != nil {
			return err
		}
		if err := maintenance.CheckDecision(current.Status, current.Accepted != nil, derefString(current.AssignedContractorID), contractorID); err != nil {
			return err
		}

		now := nowUTCString()
		ok, err := s.jobs.RecordDecision(txCtx, jobID, current.Version, accepted, status, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: job %s", maintenance.ErrConflict, jobID)
		}
		return s.appendEventTx(txCtx, jobID, contractorID, action, "contractor "+contractorID+" "+action+" the job", now)
	}); err != nil {
		return ports.JobRecord{}, err
	}

	s.setCacheBestEffort(ctx, cacheJobStatusKey(jobID), string(status))

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.job")),
		"job decision recorded",
		slog.String("job_id", jobID),
		slog.String("contractor_id", contractorID),
		slog.String("status", string(status)),
	)
	return s.jobs.GetJob(ctx, jobID)
}

func derefString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
