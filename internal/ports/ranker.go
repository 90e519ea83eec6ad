package ports

import "context"

// Scorecard is a computed reputation snapshot for one contractor.
// AvgRating is nil when the contractor has no ratings at all.
type Scorecard struct {
	ContractorID  string   `json:"contractor_id"`
	AvgRating     *float64 `json:"avg_rating"`
	JobsCompleted int64    `json:"jobs_completed"`
	ActiveJobs    int64    `json:"active_jobs"`
	LastFeedback  []string `json:"last_feedback"`
}

// Ranker picks an assignee for a job out of candidate scorecards.
// An empty id means the strategy abstains; the matcher then falls through
// to the next strategy. Advisory implementations must never surface their
// transport or parse failures as errors.
type Ranker interface {
	Rank(ctx context.Context, job JobRecord, candidates []Scorecard) (string, error)
}
