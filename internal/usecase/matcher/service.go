package matcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"fixflow/internal/domain/maintenance"
	"fixflow/internal/errs"
	"fixflow/internal/ports"
)

// lastFeedbackCount caps the comment tail carried on a scorecard.
const lastFeedbackCount = 3

// Service builds contractor scorecards and resolves assignment suggestions.
// The advisory ranker is optional; the deterministic scorecard ranking is
// always available as the fallback strategy.
type Service struct {
	jobs     ports.JobReadStore
	feedback ports.FeedbackReadStore
	advisory ports.Ranker
	fallback ports.Ranker
}

func NewService(jobs ports.JobReadStore, feedback ports.FeedbackReadStore, advisory ports.Ranker) *Service {
	return &Service{
		jobs:     jobs,
		feedback: feedback,
		advisory: advisory,
		fallback: ScorecardRanker{},
	}
}

// BuildScorecard computes a contractor's reputation snapshot: total assigned
// job count, current active workload, mean rating over feedback linked
// through job assignment (2-decimal rounding, nil when unrated), and the
// last few non-empty comments.
func (s *Service) BuildScorecard(ctx context.Context, contractorID string) (ports.Scorecard, error) {
	if ctx == nil {
		return ports.Scorecard{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.Scorecard{}, errs.Wrap(err, "check context")
	}
	if s.jobs == nil || s.feedback == nil {
		return ports.Scorecard{}, errors.New("job and feedback stores are required")
	}

	contractorID = strings.TrimSpace(contractorID)
	if contractorID == "" {
		return ports.Scorecard{}, fmt.Errorf("%w: contractor id is required", maintenance.ErrValidation)
	}

	// jobs_completed counts every job ever assigned to the contractor,
	// regardless of status. Active jobs are the separate workload signal.
	total, err := s.jobs.CountJobs(ctx, ports.JobFilter{
		ContractorID: contractorID,
	})
	if err != nil {
		return ports.Scorecard{}, err
	}

	active, err := s.jobs.CountJobs(ctx, ports.JobFilter{
		ContractorID: contractorID,
		Statuses:     maintenance.ActiveStatuses,
	})
	if err != nil {
		return ports.Scorecard{}, err
	}

	entries, err := s.feedback.ListFeedbackByContractor(ctx, contractorID)
	if err != nil {
		return ports.Scorecard{}, err
	}

	var avg *float64
	if len(entries) > 0 {
		sum := 0
		for _, entry := range entries {
			sum += entry.Rating
		}
		rounded := round2(float64(sum) / float64(len(entries)))
		avg = &rounded
	}

	comments := make([]string, 0, lastFeedbackCount)
	for _, entry := range entries {
		if strings.TrimSpace(entry.Notes) == "" {
			continue
		}
		comments = append(comments, entry.Notes)
	}
	if len(comments) > lastFeedbackCount {
		comments = comments[len(comments)-lastFeedbackCount:]
	}

	return ports.Scorecard{
		ContractorID:  contractorID,
		AvgRating:     avg,
		JobsCompleted: total,
		ActiveJobs:    active,
		LastFeedback:  comments,
	}, nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
