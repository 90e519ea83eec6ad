package job

import (
	"context"
	"errors"
	"time"

	"fixflow/internal/domain/maintenance"
	"fixflow/internal/ports"
)

// casAttempts bounds the read-modify-write retry loop. Each attempt re-reads
// the job inside a fresh transaction, so guard checks always see current data.
const casAttempts = 3

// Suggester resolves an assignee when the caller does not name one.
// Implemented by the contractor matcher.
type Suggester interface {
	SuggestBest(ctx context.Context, job ports.JobRecord, candidateIDs []string) (string, error)
}

// Service is the job state machine. All mutations run as version-conditioned
// writes inside a transaction and append an audit event alongside.
type Service struct {
	jobs      ports.JobStore
	incidents ports.IncidentReadStore
	matcher   Suggester
	uow       ports.UnitOfWork
	cache     ports.Cache
}

func NewService(jobs ports.JobStore, incidents ports.IncidentReadStore, matcher Suggester, uow ports.UnitOfWork, cache ports.Cache) *Service {
	return &Service{
		jobs:      jobs,
		incidents: incidents,
		matcher:   matcher,
		uow:       uow,
		cache:     cache,
	}
}

func (s *Service) checkDeps() error {
	if s.jobs == nil {
		return errors.New("job store is required")
	}
	if s.uow == nil {
		return errors.New("unit of work is required")
	}
	return nil
}

// mutateWithRetry runs fn in a transaction and retries when it reports a
// version conflict, up to casAttempts. Any other error passes through.
func (s *Service) mutateWithRetry(ctx context.Context, fn func(txCtx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < casAttempts; attempt++ {
		err := s.uow.WithTx(ctx, fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, maintenance.ErrConflict) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (s *Service) appendEventTx(txCtx context.Context, jobID string, actor string, action string, detail string, at string) error {
	return s.jobs.AppendJobEvent(txCtx, ports.JobEventCreate{
		JobID:     jobID,
		Actor:     actor,
		Action:    action,
		Detail:    detail,
		CreatedAt: at,
	})
}

func (s *Service) setCacheBestEffort(ctx context.Context, key string, value string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, value, 0)
}

func cacheJobStatusKey(jobID string) string {
	return "job_status:" + jobID
}

func cacheJobContractorKey(jobID string) string {
	return "job_contractor:" + jobID
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
