package matcher

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/errs"
	"fixflow/internal/ports"
)

// SuggestBest resolves an assignee for a job out of the candidate pool.
// Strategy order: advisory ranker first when configured, deterministic
// scorecard ranking when the advisory abstains or is absent. An empty
// result means the pool itself was empty.
func (s *Service) SuggestBest(ctx context.Context, job ports.JobRecord, candidateIDs []string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(err, "check context")
	}

	pool := dedupeIDs(candidateIDs)
	if len(pool) == 0 {
		return "", nil
	}

	cards := make([]ports.Scorecard, 0, len(pool))
	for _, contractorID := range pool {
		card, err := s.BuildScorecard(ctx, contractorID)
		if err != nil {
			return "", err
		}
		cards = append(cards, card)
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.matcher"),
		slog.String("job_id", job.JobID),
	)

	if s.advisory != nil {
		chosen, err := s.advisory.Rank(ctx, job, cards)
		if err != nil {
			// Advisory failures are non-fatal by contract; log and fall
			// through to the deterministic strategy.
			logging.Warn(logCtx, "advisory ranker failed", slog.Any("err", errs.Loggable(err)))
		} else if chosen != "" {
			logging.Info(logCtx, "advisory ranker chose contractor", slog.String("contractor_id", chosen))
			return chosen, nil
		}
	}

	chosen, err := s.fallback.Rank(ctx, job, cards)
	if err != nil {
		return "", err
	}
	logging.Info(logCtx, "scorecard ranking chose contractor", slog.String("contractor_id", chosen))
	return chosen, nil
}

// ScorecardRanker is the deterministic strategy: highest average rating
// first (unrated last), ties broken by fewest active jobs, then fewest
// completed jobs, then contractor id for stability.
type ScorecardRanker struct{}

var _ ports.Ranker = ScorecardRanker{}

func (ScorecardRanker) Rank(_ context.Context, _ ports.JobRecord, candidates []ports.Scorecard) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}

	ranked := make([]ports.Scorecard, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		left, right := ranked[i], ranked[j]
		switch {
		case left.AvgRating == nil && right.AvgRating != nil:
			return false
		case left.AvgRating != nil && right.AvgRating == nil:
			return true
		case left.AvgRating != nil && right.AvgRating != nil && *left.AvgRating != *right.AvgRating:
			return *left.AvgRating > *right.AvgRating
		}
		if left.ActiveJobs != right.ActiveJobs {
			return left.ActiveJobs < right.ActiveJobs
		}
		if left.JobsCompleted != right.JobsCompleted {
			return left.JobsCompleted < right.JobsCompleted
		}
		return left.ContractorID < right.ContractorID
	})

	return ranked[0].ContractorID, nil
}

func dedupeIDs(in []string) []string {
	if len(in) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
