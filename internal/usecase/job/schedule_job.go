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

// ProposeSchedule attaches a schedule proposal to an accepted job. Status is
// unchanged; only the assigned contractor may propose, and only after
// acceptance.
func (s *Service) ProposeSchedule(ctx context.Context, jobID string, contractorID string, schedule string) (ports.JobRecord, error) {
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
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		return ports.JobRecord{}, fmt.Errorf("%w: schedule is required", maintenance.ErrValidation)
	}

	if err := s.mutateWithRetry(ctx, func(txCtx context.Context) error {
		current, err := s.jobs.GetJob(txCtx, jobID)
		if err != nil {
			return err
		}
		if err := maintenance.CheckSchedule(current.Status, derefString(current.AssignedContractorID), contractorID); err != nil {
			return err
		}

		now := nowUTCString()
		ok, err := s.jobs.SetProposedSchedule(txCtx, jobID, current.Version, schedule, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: job %s", maintenance.ErrConflict, jobID)
		}
		return s.appendEventTx(txCtx, jobID, contractorID, "schedule_proposed", "proposed schedule "+schedule, now)
	}); err != nil {
		return ports.JobRecord{}, err
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.job")),
		"schedule proposed",
		slog.String("job_id", jobID),
		slog.String("contractor_id", contractorID),
		slog.String("schedule", schedule),
	)
	return s.jobs.GetJob(ctx, jobID)
}
