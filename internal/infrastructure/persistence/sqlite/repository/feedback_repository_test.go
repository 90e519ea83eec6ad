package repository

import (
	"context"
	"testing"
	"time"

	"fixflow/internal/domain/maintenance"
	"fixflow/internal/ports"
)

func newFeedbackRecord(feedbackID string, jobID string, by string, role maintenance.FeedbackRole, rating int, notes string) ports.FeedbackRecord {
	return ports.FeedbackRecord{
		FeedbackID:  feedbackID,
		JobID:       jobID,
		SubmittedBy: by,
		Role:        role,
		Rating:      rating,
		Notes:       notes,
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
	}
}

func TestInsertFeedbackDeduplicatesTriple(t *testing.T) {
	repo := NewFeedbackRepository(setupDB(t))
	ctx := context.Background()

	inserted, err := repo.InsertFeedback(ctx, newFeedbackRecord("f1", "j1", "tenant-1", maintenance.RoleTenant, 5, "great"))
	if err != nil {
		t.Fatalf("InsertFeedback() error = %v", err)
	}
	if !inserted {
		t.Fatalf("InsertFeedback() inserted = false on first insert")
	}

	// Same (job, submitter, role) triple: suppressed, original stands.
	inserted, err = repo.InsertFeedback(ctx, newFeedbackRecord("f2", "j1", "tenant-1", maintenance.RoleTenant, 1, "changed my mind"))
	if err != nil {
		t.Fatalf("InsertFeedback() duplicate error = %v", err)
	}
	if inserted {
		t.Fatalf("InsertFeedback() inserted = true on duplicate triple")
	}

	// Different role and different submitter both pass.
	if inserted, err = repo.InsertFeedback(ctx, newFeedbackRecord("f3", "j1", "tenant-1", maintenance.RoleContractor, 4, "")); err != nil || !inserted {
		t.Fatalf("InsertFeedback() different role inserted=%v err=%v", inserted, err)
	}
	if inserted, err = repo.InsertFeedback(ctx, newFeedbackRecord("f4", "j1", "tenant-2", maintenance.RoleTenant, 3, "")); err != nil || !inserted {
		t.Fatalf("InsertFeedback() different submitter inserted=%v err=%v", inserted, err)
	}

	items, err := repo.ListFeedbackByJob(ctx, "j1")
	if err != nil {
		t.Fatalf("ListFeedbackByJob() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("ListFeedbackByJob() len = %d, want 3", len(items))
	}
	for _, item := range items {
		if item.FeedbackID == "f2" {
			t.Fatalf("duplicate record survived: %v", item)
		}
		if item.JobID == "j1" && item.SubmittedBy == "tenant-1" && item.Role == maintenance.RoleTenant && item.Rating != 5 {
			t.Fatalf("original record overwritten: rating = %d", item.Rating)
		}
	}
}

func TestListFeedbackByContractorJoinsThroughJobs(t *testing.T) {
	db := setupDB(t)
	jobs := NewJobRepository(db)
	repo := NewFeedbackRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	for _, id := range []string{"j1", "j2"} {
		if err := jobs.CreateJob(ctx, newJobRecord(id, "i1")); err != nil {
			t.Fatalf("CreateJob(%s) error = %v", id, err)
		}
	}
	if _, err := jobs.AssignContractor(ctx, "j1", 1, "c1", now); err != nil {
		t.Fatalf("AssignContractor(j1) error = %v", err)
	}
	if _, err := jobs.AssignContractor(ctx, "j2", 1, "c2", now); err != nil {
		t.Fatalf("AssignContractor(j2) error = %v", err)
	}

	if _, err := repo.InsertFeedback(ctx, newFeedbackRecord("f1", "j1", "tenant-1", maintenance.RoleTenant, 5, "solid")); err != nil {
		t.Fatalf("InsertFeedback(f1) error = %v", err)
	}
	if _, err := repo.InsertFeedback(ctx, newFeedbackRecord("f2", "j2", "tenant-2", maintenance.RoleTenant, 2, "late")); err != nil {
		t.Fatalf("InsertFeedback(f2) error = %v", err)
	}

	items, err := repo.ListFeedbackByContractor(ctx, "c1")
	if err != nil {
		t.Fatalf("ListFeedbackByContractor() error = %v", err)
	}
	if len(items) != 1 || items[0].FeedbackID != "f1" {
		t.Fatalf("ListFeedbackByContractor() = %v", items)
	}
}
