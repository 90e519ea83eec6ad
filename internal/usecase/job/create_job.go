package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/domain/maintenance"
	"fixflow/internal/errs"
	"fixflow/internal/ports"
)

type CreateJobInput struct {
	IncidentID  string
	JobType     string
	Price       float64
	Priority    string
	Description string
	CreatedBy   string
}

// CreateJob validates the input, checks the incident linkage and appends a
// new pending job. A job always references exactly one existing incident.
func (s *Service) CreateJob(ctx context.Context, input CreateJobInput) (ports.JobRecord, error) {
	if ctx == nil {
		return ports.JobRecord{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.JobRecord{}, errs.Wrap(err, "check context")
	}
	if err := s.checkDeps(); err != nil {
		return ports.JobRecord{}, err
	}
	if s.incidents == nil {
		return ports.JobRecord{}, errors.New("incident store is required")
	}

	if err := validateCreateJobInput(input); err != nil {
		return ports.JobRecord{}, err
	}

	createdBy := strings.TrimSpace(input.CreatedBy)
	if createdBy == "" {
		createdBy = "unknown"
	}

	now := nowUTCString()
	record := ports.JobRecord{
		JobID:       uuid.NewString(),
		IncidentID:  strings.TrimSpace(input.IncidentID),
		JobType:     strings.TrimSpace(input.JobType),
		Price:       input.Price,
		Priority:    strings.TrimSpace(input.Priority),
		Description: input.Description,
		Status:      maintenance.JobPending,
		CreatedBy:   createdBy,
		Timestamp:   now,
		Version:     1,
	}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		// Linkage check inside the transaction so a concurrent reader of
		// the new job always finds its incident.
		if _, err := s.incidents.GetIncident(txCtx, record.IncidentID); err != nil {
			return err
		}
		if err := s.jobs.CreateJob(txCtx, record); err != nil {
			return err
		}
		return s.appendEventTx(txCtx, record.JobID, createdBy, "created", "job created for incident "+record.IncidentID, now)
	}); err != nil {
		return ports.JobRecord{}, err
	}

	s.setCacheBestEffort(ctx, cacheJobStatusKey(record.JobID), string(maintenance.JobPending))

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.job")),
		"job created",
		slog.String("job_id", record.JobID),
		slog.String("incident_id", record.IncidentID),
		slog.String("job_type", record.JobType),
	)
	return record, nil
}

func validateCreateJobInput(input CreateJobInput) error {
	if strings.TrimSpace(input.IncidentID) == "" {
		return fmt.Errorf("%w: incident_id is required", maintenance.ErrValidation)
	}
	if strings.TrimSpace(input.JobType) == "" {
		return fmt.Errorf("%w: job_type is required", maintenance.ErrValidation)
	}
	if input.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", maintenance.ErrValidation)
	}
	if strings.TrimSpace(input.Priority) == "" {
		return fmt.Errorf("%w: priority is required", maintenance.ErrValidation)
	}
	if strings.TrimSpace(input.Description) == "" {
		return fmt.Errorf("%w: description is required", maintenance.ErrValidation)
	}
	return nil
}
