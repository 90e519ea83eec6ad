package trust

import (
	"context"
	"errors"
	"math"

	"fixflow/internal/errs"
	"fixflow/internal/ports"
)

// Service aggregates the feedback ledger into per-contractor trust scores.
// Read-only over jobs and feedback.
type Service struct {
	jobs     ports.JobReadStore
	feedback ports.FeedbackReadStore
}

func NewService(jobs ports.JobReadStore, feedback ports.FeedbackReadStore) *Service {
	return &Service{
		jobs:     jobs,
		feedback: feedback,
	}
}

// ComputeContractorTrustScores resolves every feedback record to its job's
// assigned contractor and returns the 2-decimal-rounded mean rating per
// contractor. Contractors with zero linked ratings are absent from the
// result, not present with a zero.
func (s *Service) ComputeContractorTrustScores(ctx context.Context) (map[string]float64, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.jobs == nil || s.feedback == nil {
		return nil, errors.New("job and feedback stores are required")
	}

	jobs, err := s.jobs.ListJobs(ctx, ports.JobFilter{})
	if err != nil {
		return nil, err
	}

	jobToContractor := make(map[string]string, len(jobs))
	for _, job := range jobs {
		if job.AssignedContractorID != nil && *job.AssignedContractorID != "" {
			jobToContractor[job.JobID] = *job.AssignedContractorID
		}
	}

	entries, err := s.feedback.ListFeedback(ctx)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, entry := range entries {
		contractorID, ok := jobToContractor[entry.JobID]
		if !ok {
			continue
		}
		sums[contractorID] += entry.Rating
		counts[contractorID]++
	}

	scores := make(map[string]float64, len(counts))
	for contractorID, count := range counts {
		scores[contractorID] = math.Round(float64(sums[contractorID])/float64(count)*100) / 100
	}
	return scores, nil
}
