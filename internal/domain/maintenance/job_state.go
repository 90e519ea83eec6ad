package maintenance

import (
	"fmt"
	"strings"
)

// JobStatus is the lifecycle position of a job. Transitions:
//
//	pending -> assigned -> accepted -> completed
//	                    -> rejected
//
// rejected and completed are terminal for an assignment cycle.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobAssigned  JobStatus = "assigned"
	JobAccepted  JobStatus = "accepted"
	JobRejected  JobStatus = "rejected"
	JobCompleted JobStatus = "completed"
)

// ActiveStatuses are the statuses a contractor still has work in.
var ActiveStatuses = []JobStatus{JobPending, JobAssigned, JobAccepted}

func (s JobStatus) Terminal() bool {
	return s == JobRejected || s == JobCompleted
}

func ParseJobStatus(raw string) (JobStatus, error) {
	switch JobStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case JobPending:
		return JobPending, nil
	case JobAssigned:
		return JobAssigned, nil
	case JobAccepted:
		return JobAccepted, nil
	case JobRejected:
		return JobRejected, nil
	case JobCompleted:
		return JobCompleted, nil
	default:
		return "", fmt.Errorf("%w: unknown job status %q", ErrValidation, raw)
	}
}

// Decision is the write-once tri-state on a job: nil until the assigned
// contractor accepts or rejects.
type Decision *bool

// CheckAssign guards pending -> assigned.
func CheckAssign(status JobStatus) error {
	if status != JobPending {
		return fmt.Errorf("%w: job is %s, only pending jobs can be assigned", ErrState, status)
	}
	return nil
}

// CheckDecision guards assigned -> accepted/rejected. The decision is made
// exactly once, and only by the contractor the job was assigned to.
func CheckDecision(status JobStatus, decided bool, assignedTo string, contractorID string) error {
	if status != JobAssigned {
		return fmt.Errorf("%w: job is %s, decision requires assigned", ErrState, status)
	}
	if decided {
		return fmt.Errorf("%w: decision already made", ErrState)
	}
	if err := CheckContractor(assignedTo, contractorID); err != nil {
		return err
	}
	return nil
}

// CheckSchedule guards propose_schedule: accepted jobs only, by the
// assigned contractor.
func CheckSchedule(status JobStatus, assignedTo string, contractorID string) error {
	if status != JobAccepted {
		return fmt.Errorf("%w: job is %s, scheduling requires accepted", ErrState, status)
	}
	return CheckContractor(assignedTo, contractorID)
}

// CheckComplete guards accepted -> completed.
func CheckComplete(status JobStatus) error {
	if status != JobAccepted {
		return fmt.Errorf("%w: job is %s, completion requires accepted", ErrState, status)
	}
	return nil
}

func CheckContractor(assignedTo string, contractorID string) error {
	if strings.TrimSpace(contractorID) == "" {
		return fmt.Errorf("%w: contractor id is required", ErrValidation)
	}
	if assignedTo != contractorID {
		return fmt.Errorf("%w: contractor %s is not the assigned contractor", ErrState, contractorID)
	}
	return nil
}
