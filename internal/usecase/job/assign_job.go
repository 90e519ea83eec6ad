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

type AssignJobInput struct {
	JobID string
	// ContractorID names the assignee directly. When empty, the matcher
	// picks one out of CandidateIDs.
	ContractorID string
	CandidateIDs []string
	Actor        string
}

// AssignJob moves a pending job to assigned. The matcher suggestion (which
// may call an external advisory service) runs before the transaction opens;
// the pending guard is re-checked against the fresh row inside it.
func (s *Service) AssignJob(ctx context.Context, input AssignJobInput) (ports.JobRecord, error) {
	if ctx == nil {
		return ports.JobRecord{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.JobRecord{}, errs.Wrap(err, "check context")
	}
	if err := s.checkDeps(); err != nil {
		return ports.JobRecord{}, err
	}

	jobID := strings.TrimSpace(input.JobID)
	if jobID == "" {
		return ports.JobRecord{}, fmt.Errorf("%w: job id is required", maintenance.ErrValidation)
	}

	contractorID := strings.TrimSpace(input.ContractorID)
	if contractorID == "" {
		resolved, err := s.resolveContractor(ctx, jobID, input.CandidateIDs)
		if err != nil {
			return ports.JobRecord{}, err
		}
		contractorID = resolved
	}

	actor := strings.TrimSpace(input.Actor)
	if actor == "" {
		actor = "coordinator"
	}

	if err := s.mutateWithRetry(ctx, func(txCtx context.Context) error {
		current, err := s.jobs.GetJob(txCtx, jobID)
		if err != nil {
			return err
		}
		if err := maintenance.CheckAssign(current.Status); err != nil {
			return err
		}

		now := nowUTCString()
		ok, err := s.jobs.AssignContractor(txCtx, jobID, current.Version, contractorID, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: job %s", maintenance.ErrConflict, jobID)
		}
		return s.appendEventTx(txCtx, jobID, actor, "assigned", "assigned to contractor "+contractorID, now)
	}); err != nil {
		return ports.JobRecord{}, err
	}

	s.setCacheBestEffort(ctx, cacheJobStatusKey(jobID), string(maintenance.JobAssigned))
	s.setCacheBestEffort(ctx, cacheJobContractorKey(jobID), contractorID)

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.job")),
		"job assigned",
		slog.String("job_id", jobID),
		slog.String("contractor_id", contractorID),
	)
	return s.jobs.GetJob(ctx, jobID)
}

// resolveContractor asks the matcher for a suggestion. The advisory call is
// bounded and non-fatal inside the matcher; an empty answer here means no
// candidate could be resolved at all.
func (s *Service) resolveContractor(ctx context.Context, jobID string, candidateIDs []string) (string, error) {
	if s.matcher == nil {
		return "", fmt.Errorf("%w: no contractor matcher configured", maintenance.ErrAssignment)
	}

	current, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return "", err
	}
	if err := maintenance.CheckAssign(current.Status); err != nil {
		return "", err
	}

	chosen, err := s.matcher.SuggestBest(ctx, current, candidateIDs)
	if err != nil {
		return "", err
	}
	if chosen == "" {
		return "", fmt.Errorf("%w: no candidate resolvable for job %s", maintenance.ErrAssignment, jobID)
	}
	return chosen, nil
}
