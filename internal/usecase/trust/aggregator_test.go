package trust

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"fixflow/internal/domain/maintenance"
	"fixflow/internal/infrastructure/persistence/sqlite/model"
	"fixflow/internal/infrastructure/persistence/sqlite/repository"
	"fixflow/internal/ports"
)

type fixture struct {
	svc      *Service
	jobs     *repository.JobRepository
	feedback *repository.FeedbackRepository
}

func setupService(t *testing.T) fixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "trust.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.Job{}, &model.Feedback{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	jobs := repository.NewJobRepository(db)
	feedback := repository.NewFeedbackRepository(db)
	return fixture{
		svc:      NewService(jobs, feedback),
		jobs:     jobs,
		feedback: feedback,
	}
}

func (f fixture) seedJob(t *testing.T, jobID string, contractorID *string) {
	t.Helper()
	if err := f.jobs.CreateJob(context.Background(), ports.JobRecord{
		JobID:                jobID,
		IncidentID:           "i1",
		JobType:              "plumbing",
		Price:                100,
		Priority:             "high",
		Description:          "fix leak",
		Status:               maintenance.JobCompleted,
		AssignedContractorID: contractorID,
		CreatedBy:            "agent",
		Timestamp:            time.Now().UTC().Format(time.RFC3339Nano),
		Version:              1,
	}); err != nil {
		t.Fatalf("seed job %s: %v", jobID, err)
	}
}

func (f fixture) seedFeedback(t *testing.T, feedbackID string, jobID string, rating int) {
	t.Helper()
	if _, err := f.feedback.InsertFeedback(context.Background(), ports.FeedbackRecord{
		FeedbackID:  feedbackID,
		JobID:       jobID,
		SubmittedBy: "tenant-" + feedbackID,
		Role:        maintenance.RoleTenant,
		Rating:      rating,
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
	}); err != nil {
		t.Fatalf("seed feedback %s: %v", feedbackID, err)
	}
}

func strPtr(v string) *string { return &v }

func TestComputeContractorTrustScores(t *testing.T) {
	f := setupService(t)

	f.seedJob(t, "j1", strPtr("c1"))
	f.seedJob(t, "j2", strPtr("c1"))
	f.seedJob(t, "j3", strPtr("c2"))
	f.seedFeedback(t, "f1", "j1", 5)
	f.seedFeedback(t, "f2", "j2", 4)
	f.seedFeedback(t, "f3", "j2", 2)
	f.seedFeedback(t, "f4", "j3", 3)

	scores, err := f.svc.ComputeContractorTrustScores(context.Background())
	if err != nil {
		t.Fatalf("ComputeContractorTrustScores() error = %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("scores = %v", scores)
	}
	if scores["c1"] != 3.67 {
		t.Fatalf("scores[c1] = %v, want 3.67", scores["c1"])
	}
	if scores["c2"] != 3 {
		t.Fatalf("scores[c2] = %v, want 3", scores["c2"])
	}
}

func TestComputeContractorTrustScoresSkipsUnlinked(t *testing.T) {
	f := setupService(t)

	// Unassigned job and feedback on it contribute nothing.
	f.seedJob(t, "j1", nil)
	f.seedFeedback(t, "f1", "j1", 5)

	// Assigned but unrated contractor is absent, not zero.
	f.seedJob(t, "j2", strPtr("c1"))

	scores, err := f.svc.ComputeContractorTrustScores(context.Background())
	if err != nil {
		t.Fatalf("ComputeContractorTrustScores() error = %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("scores = %v, want empty", scores)
	}
	if _, ok := scores["c1"]; ok {
		t.Fatalf("unrated contractor has a score")
	}
}
