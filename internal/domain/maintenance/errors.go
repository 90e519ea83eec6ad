package maintenance

import "errors"

// Error taxonomy surfaced to calling layers. Operations wrap these with
// detail via fmt.Errorf so errors.Is keeps working across layers.
var (
	// ErrValidation marks malformed or missing caller input. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an unknown incident or job id.
	ErrNotFound = errors.New("record not found")

	// ErrState marks an illegal transition: wrong status, mismatched
	// contractor, or a decision that was already made. The record is
	// left unchanged.
	ErrState = errors.New("illegal state transition")

	// ErrDuplicateFeedback marks a resubmission of the same
	// (job, submitter, role) triple. The original record stands.
	ErrDuplicateFeedback = errors.New("feedback already submitted")

	// ErrAssignment means no contractor could be resolved. The job stays
	// pending and the call is safe to retry.
	ErrAssignment = errors.New("no contractor could be assigned")

	// ErrConflict is internal to the store layer: a concurrent writer won
	// the version race. Mutations retry on it with fresh data.
	ErrConflict = errors.New("concurrent update conflict")
)
