package maintenance

import (
	"errors"
	"testing"
)

func TestParseJobStatus(t *testing.T) {
	status, err := ParseJobStatus(" Assigned ")
	if err != nil {
		t.Fatalf("ParseJobStatus() error = %v", err)
	}
	if status != JobAssigned {
		t.Fatalf("ParseJobStatus() = %s", status)
	}

	if _, err := ParseJobStatus("doing"); !errors.Is(err, ErrValidation) {
		t.Fatalf("ParseJobStatus() error = %v, want ErrValidation", err)
	}
}

func TestTerminal(t *testing.T) {
	for _, status := range []JobStatus{JobPending, JobAssigned, JobAccepted} {
		if status.Terminal() {
			t.Fatalf("%s.Terminal() = true", status)
		}
	}
	for _, status := range []JobStatus{JobRejected, JobCompleted} {
		if !status.Terminal() {
			t.Fatalf("%s.Terminal() = false", status)
		}
	}
}

func TestCheckAssignOnlyFromPending(t *testing.T) {
	if err := CheckAssign(JobPending); err != nil {
		t.Fatalf("CheckAssign(pending) error = %v", err)
	}
	for _, status := range []JobStatus{JobAssigned, JobAccepted, JobRejected, JobCompleted} {
		if err := CheckAssign(status); !errors.Is(err, ErrState) {
			t.Fatalf("CheckAssign(%s) error = %v, want ErrState", status, err)
		}
	}
}

func TestCheckDecision(t *testing.T) {
	if err := CheckDecision(JobAssigned, false, "c1", "c1"); err != nil {
		t.Fatalf("CheckDecision() error = %v", err)
	}
	if err := CheckDecision(JobPending, false, "c1", "c1"); !errors.Is(err, ErrState) {
		t.Fatalf("CheckDecision(pending) error = %v, want ErrState", err)
	}
	if err := CheckDecision(JobAssigned, true, "c1", "c1"); !errors.Is(err, ErrState) {
		t.Fatalf("CheckDecision(decided) error = %v, want ErrState", err)
	}
	if err := CheckDecision(JobAssigned, false, "c1", "c2"); !errors.Is(err, ErrState) {
		t.Fatalf("CheckDecision(wrong contractor) error = %v, want ErrState", err)
	}
	if err := CheckDecision(JobAssigned, false, "c1", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("CheckDecision(empty contractor) error = %v, want ErrValidation", err)
	}
}

func TestCheckSchedule(t *testing.T) {
	if err := CheckSchedule(JobAccepted, "c1", "c1"); err != nil {
		t.Fatalf("CheckSchedule() error = %v", err)
	}
	if err := CheckSchedule(JobAssigned, "c1", "c1"); !errors.Is(err, ErrState) {
		t.Fatalf("CheckSchedule(assigned) error = %v, want ErrState", err)
	}
	if err := CheckSchedule(JobAccepted, "c1", "c2"); !errors.Is(err, ErrState) {
		t.Fatalf("CheckSchedule(wrong contractor) error = %v, want ErrState", err)
	}
}

func TestCheckComplete(t *testing.T) {
	if err := CheckComplete(JobAccepted); err != nil {
		t.Fatalf("CheckComplete() error = %v", err)
	}
	for _, status := range []JobStatus{JobPending, JobAssigned, JobRejected, JobCompleted} {
		if err := CheckComplete(status); !errors.Is(err, ErrState) {
			t.Fatalf("CheckComplete(%s) error = %v, want ErrState", status, err)
		}
	}
}

func TestParseFeedbackRole(t *testing.T) {
	role, err := ParseFeedbackRole("TENANT")
	if err != nil {
		t.Fatalf("ParseFeedbackRole() error = %v", err)
	}
	if role != RoleTenant {
		t.Fatalf("ParseFeedbackRole() = %s", role)
	}
	if _, err := ParseFeedbackRole("landlord"); !errors.Is(err, ErrValidation) {
		t.Fatalf("ParseFeedbackRole() error = %v, want ErrValidation", err)
	}
}

func TestCheckRating(t *testing.T) {
	for _, rating := range []int{1, 3, 5} {
		if err := CheckRating(rating); err != nil {
			t.Fatalf("CheckRating(%d) error = %v", rating, err)
		}
	}
	for _, rating := range []int{0, 6, -1} {
		if err := CheckRating(rating); !errors.Is(err, ErrValidation) {
			t.Fatalf("CheckRating(%d) error = %v, want ErrValidation", rating, err)
		}
	}
}
