package maintenance

import (
	"fmt"
	"strings"
)

// FeedbackRole identifies which side of the job submitted a rating.
type FeedbackRole string

const (
	RoleTenant     FeedbackRole = "tenant"
	RoleContractor FeedbackRole = "contractor"
)

func ParseFeedbackRole(raw string) (FeedbackRole, error) {
	switch FeedbackRole(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleTenant:
		return RoleTenant, nil
	case RoleContractor:
		return RoleContractor, nil
	default:
		return "", fmt.Errorf("%w: role must be tenant or contractor, got %q", ErrValidation, raw)
	}
}

func CheckRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5, got %d", ErrValidation, rating)
	}
	return nil
}
