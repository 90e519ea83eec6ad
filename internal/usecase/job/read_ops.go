package job

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fixflow/internal/domain/maintenance"
	"fixflow/internal/errs"
	"fixflow/internal/ports"
)

// JobDetail is a job with its audit timeline, for dashboards and
// notification dispatch.
type JobDetail struct {
	Job    ports.JobRecord
	Events []ports.JobEvent
}

func (s *Service) GetJob(ctx context.Context, jobID string) (JobDetail, error) {
	if ctx == nil {
		return JobDetail{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return JobDetail{}, errs.Wrap(err, "check context")
	}
	if s.jobs == nil {
		return JobDetail{}, errors.New("job store is required")
	}

	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return JobDetail{}, fmt.Errorf("%w: job id is required", maintenance.ErrValidation)
	}

	record, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return JobDetail{}, err
	}
	events, err := s.jobs.ListJobEvents(ctx, jobID)
	if err != nil {
		return JobDetail{}, err
	}

	return JobDetail{Job: record, Events: events}, nil
}

// GetJobStatus answers the status poll without touching the job table when
// the cache still holds the value written by the last mutation. A miss or an
// unparsable entry falls back to the store and refreshes the cache.
func (s *Service) GetJobStatus(ctx context.Context, jobID string) (maintenance.JobStatus, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(err, "check context")
	}
	if s.jobs == nil {
		return "", errors.New("job store is required")
	}

	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return "", fmt.Errorf("%w: job id is required", maintenance.ErrValidation)
	}

	if s.cache != nil {
		value, found, err := s.cache.Get(ctx, cacheJobStatusKey(jobID))
		if err == nil && found {
			if status, parseErr := maintenance.ParseJobStatus(value); parseErr == nil {
				return status, nil
			}
		}
	}

	record, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return "", err
	}
	s.setCacheBestEffort(ctx, cacheJobStatusKey(jobID), string(record.Status))
	return record.Status, nil
}

// GetJobsForContractor lists a contractor's open workload: jobs assigned to
// them that are still pending, assigned or accepted.
func (s *Service) GetJobsForContractor(ctx context.Context, contractorID string) ([]ports.JobRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.jobs == nil {
		return nil, errors.New("job store is required")
	}

	contractorID = strings.TrimSpace(contractorID)
	if contractorID == "" {
		return nil, fmt.Errorf("%w: contractor id is required", maintenance.ErrValidation)
	}

	return s.jobs.ListJobs(ctx, ports.JobFilter{
		ContractorID: contractorID,
		Statuses:     maintenance.ActiveStatuses,
	})
}
