package job

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"fixflow/internal/domain/maintenance"
	cacheinfra "fixflow/internal/infrastructure/cache"
	"fixflow/internal/infrastructure/persistence/sqlite/model"
	"fixflow/internal/infrastructure/persistence/sqlite/repository"
	"fixflow/internal/infrastructure/persistence/sqlite/uow"
	"fixflow/internal/ports"
)

// fakeSuggester returns a canned suggestion, standing in for the matcher.
type fakeSuggester struct {
	chosen string
	err    error
	calls  int
}

func (f *fakeSuggester) SuggestBest(_ context.Context, _ ports.JobRecord, _ []string) (string, error) {
	f.calls++
	return f.chosen, f.err
}

type fixture struct {
	svc       *Service
	jobs      *repository.JobRepository
	incidents *repository.IncidentRepository
	cache     *cacheinfra.SQLiteCache
	suggester *fakeSuggester
}

func setupService(t *testing.T) fixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "fixflow.sqlite")
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
	if err := db.AutoMigrate(&model.Incident{}, &model.Job{}, &model.JobEvent{}, &model.Feedback{}, &model.MaintenanceKV{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	jobs := repository.NewJobRepository(db)
	incidents := repository.NewIncidentRepository(db)
	cache := cacheinfra.NewSQLiteCache(db)
	suggester := &fakeSuggester{}

	return fixture{
		svc:       NewService(jobs, incidents, suggester, uow.NewUnitOfWork(db), cache),
		jobs:      jobs,
		incidents: incidents,
		cache:     cache,
		suggester: suggester,
	}
}

func seedIncident(t *testing.T, f fixture, incidentID string) {
	t.Helper()
	if err := f.incidents.CreateIncident(context.Background(), ports.IncidentRecord{
		IncidentID: incidentID,
		TenantID:   "tenant-1",
		PropertyID: "prop-1",
		Issue:      "leak under sink",
		Priority:   "high",
		ChatData:   []ports.ChatMessage{},
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		CreatedBy:  "agent",
	}); err != nil {
		t.Fatalf("seed incident: %v", err)
	}
}

func createJob(t *testing.T, f fixture) ports.JobRecord {
	t.Helper()
	seedIncident(t, f, "i1")
	record, err := f.svc.CreateJob(context.Background(), CreateJobInput{
		IncidentID:  "i1",
		JobType:     "plumbing",
		Price:       150,
		Priority:    "high",
		Description: "fix the leak",
		CreatedBy:   "agent",
	})
	if err != nil {
		t.Fatalf("CreateJob() error = %v", err)
	}
	return record
}

func TestCreateJobRequiresExistingIncident(t *testing.T) {
	f := setupService(t)

	_, err := f.svc.CreateJob(context.Background(), CreateJobInput{
		IncidentID:  "ghost",
		JobType:     "plumbing",
		Price:       100,
		Priority:    "high",
		Description: "fix the leak",
	})
	if !errors.Is(err, maintenance.ErrNotFound) {
		t.Fatalf("CreateJob() error = %v, want ErrNotFound", err)
	}
}

func TestCreateJobValidation(t *testing.T) {
	f := setupService(t)
	seedIncident(t, f, "i1")

	cases := []CreateJobInput{
		{JobType: "plumbing", Price: 1, Priority: "high", Description: "d"},
		{IncidentID: "i1", Price: 1, Priority: "high", Description: "d"},
		{IncidentID: "i1", JobType: "plumbing", Price: -5, Priority: "high", Description: "d"},
		{IncidentID: "i1", JobType: "plumbing", Price: 1, Description: "d"},
		{IncidentID: "i1", JobType: "plumbing", Price: 1, Priority: "high"},
	}
	for i, input := range cases {
		if _, err := f.svc.CreateJob(context.Background(), input); !errors.Is(err, maintenance.ErrValidation) {
			t.Fatalf("CreateJob(case %d) error = %v, want ErrValidation", i, err)
		}
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	created := createJob(t, f)

	assigned, err := f.svc.AssignJob(ctx, AssignJobInput{
		JobID:        created.JobID,
		ContractorID: "c1",
		Actor:        "coordinator",
	})
	if err != nil {
		t.Fatalf("AssignJob() error = %v", err)
	}
	if assigned.Status != maintenance.JobAssigned {
		t.Fatalf("AssignJob() status = %s", assigned.Status)
	}

	accepted, err := f.svc.AcceptJob(ctx, created.JobID, "c1")
	if err != nil {
		t.Fatalf("AcceptJob() error = %v", err)
	}
	if accepted.Status != maintenance.JobAccepted || accepted.Accepted == nil || !*accepted.Accepted {
		t.Fatalf("AcceptJob() = %+v", accepted)
	}

	scheduled, err := f.svc.ProposeSchedule(ctx, created.JobID, "c1", "2026-09-01T10:00:00Z")
	if err != nil {
		t.Fatalf("ProposeSchedule() error = %v", err)
	}
	if scheduled.Status != maintenance.JobAccepted {
		t.Fatalf("ProposeSchedule() changed status to %s", scheduled.Status)
	}
	if scheduled.ProposedSchedule == nil || *scheduled.ProposedSchedule != "2026-09-01T10:00:00Z" {
		t.Fatalf("ProposeSchedule() schedule = %v", scheduled.ProposedSchedule)
	}

	completed, err := f.svc.CompleteJob(ctx, created.JobID, "c1")
	if err != nil {
		t.Fatalf("CompleteJob() error = %v", err)
	}
	if completed.Status != maintenance.JobCompleted {
		t.Fatalf("CompleteJob() status = %s", completed.Status)
	}

	detail, err := f.svc.GetJob(ctx, created.JobID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	wantActions := []string{"created", "assigned", "accepted", "schedule_proposed", "completed"}
	if len(detail.Events) != len(wantActions) {
		t.Fatalf("GetJob() events = %d, want %d", len(detail.Events), len(wantActions))
	}
	for i, action := range wantActions {
		if detail.Events[i].Action != action {
			t.Fatalf("GetJob() event %d = %s, want %s", i, detail.Events[i].Action, action)
		}
	}

	value, found, err := f.cache.Get(ctx, "job_status:"+created.JobID)
	if err != nil || !found || value != string(maintenance.JobCompleted) {
		t.Fatalf("cache job_status = %q found=%v err=%v", value, found, err)
	}
}

func TestAssignRequiresPending(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	created := createJob(t, f)

	if _, err := f.svc.AssignJob(ctx, AssignJobInput{JobID: created.JobID, ContractorID: "c1"}); err != nil {
		t.Fatalf("AssignJob() error = %v", err)
	}
	if _, err := f.svc.AssignJob(ctx, AssignJobInput{JobID: created.JobID, ContractorID: "c2"}); !errors.Is(err, maintenance.ErrState) {
		t.Fatalf("AssignJob() second error = %v, want ErrState", err)
	}

	got, err := f.jobs.GetJob(ctx, created.JobID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if got.AssignedContractorID == nil || *got.AssignedContractorID != "c1" {
		t.Fatalf("assignment changed by failed call: %v", got.AssignedContractorID)
	}
}

func TestAssignViaSuggester(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	created := createJob(t, f)
	f.suggester.chosen = "c2"

	assigned, err := f.svc.AssignJob(ctx, AssignJobInput{
		JobID:        created.JobID,
		CandidateIDs: []string{"c1", "c2"},
	})
	if err != nil {
		t.Fatalf("AssignJob() error = %v", err)
	}
	if assigned.AssignedContractorID == nil || *assigned.AssignedContractorID != "c2" {
		t.Fatalf("AssignJob() contractor = %v", assigned.AssignedContractorID)
	}
	if f.suggester.calls != 1 {
		t.Fatalf("suggester calls = %d", f.suggester.calls)
	}
}

func TestAssignFailsWhenNoCandidateResolvable(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	created := createJob(t, f)

	_, err := f.svc.AssignJob(ctx, AssignJobInput{JobID: created.JobID})
	if !errors.Is(err, maintenance.ErrAssignment) {
		t.Fatalf("AssignJob() error = %v, want ErrAssignment", err)
	}

	got, err := f.jobs.GetJob(ctx, created.JobID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if got.Status != maintenance.JobPending {
		t.Fatalf("job left pending check failed, status = %s", got.Status)
	}
}

func TestDecisionIsWriteOnce(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	created := createJob(t, f)

	if _, err := f.svc.AssignJob(ctx, AssignJobInput{JobID: created.JobID, ContractorID: "c1"}); err != nil {
		t.Fatalf("AssignJob() error = %v", err)
	}
	if _, err := f.svc.RejectJob(ctx, created.JobID, "c1"); err != nil {
		t.Fatalf("RejectJob() error = %v", err)
	}

	if _, err := f.svc.AcceptJob(ctx, created.JobID, "c1"); !errors.Is(err, maintenance.ErrState) {
		t.Fatalf("AcceptJob() after reject error = %v, want ErrState", err)
	}
	if _, err := f.svc.RejectJob(ctx, created.JobID, "c1"); !errors.Is(err, maintenance.ErrState) {
		t.Fatalf("RejectJob() twice error = %v, want ErrState", err)
	}

	got, err := f.jobs.GetJob(ctx, created.JobID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if got.Status != maintenance.JobRejected || got.Accepted == nil || *got.Accepted {
		t.Fatalf("rejected record mutated: %+v", got)
	}
}

func TestDecisionOnlyByAssignedContractor(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	created := createJob(t, f)

	if _, err := f.svc.AssignJob(ctx, AssignJobInput{JobID: created.JobID, ContractorID: "c1"}); err != nil {
		t.Fatalf("AssignJob() error = %v", err)
	}
	if _, err := f.svc.AcceptJob(ctx, created.JobID, "c2"); !errors.Is(err, maintenance.ErrState) {
		t.Fatalf("AcceptJob(wrong contractor) error = %v, want ErrState", err)
	}

	got, err := f.jobs.GetJob(ctx, created.JobID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if got.Status != maintenance.JobAssigned || got.Accepted != nil {
		t.Fatalf("record mutated by rejected decision: %+v", got)
	}
}

func TestScheduleRequiresAcceptance(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	created := createJob(t, f)

	if _, err := f.svc.ProposeSchedule(ctx, created.JobID, "c1", "2026-09-01T10:00:00Z"); !errors.Is(err, maintenance.ErrState) {
		t.Fatalf("ProposeSchedule(pending) error = %v, want ErrState", err)
	}

	if _, err := f.svc.AssignJob(ctx, AssignJobInput{JobID: created.JobID, ContractorID: "c1"}); err != nil {
		t.Fatalf("AssignJob() error = %v", err)
	}
	if _, err := f.svc.ProposeSchedule(ctx, created.JobID, "c1", "2026-09-01T10:00:00Z"); !errors.Is(err, maintenance.ErrState) {
		t.Fatalf("ProposeSchedule(assigned) error = %v, want ErrState", err)
	}
	if _, err := f.svc.ProposeSchedule(ctx, created.JobID, "c1", ""); !errors.Is(err, maintenance.ErrValidation) {
		t.Fatalf("ProposeSchedule(empty) error = %v, want ErrValidation", err)
	}
}

func TestCompleteRequiresAcceptance(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	created := createJob(t, f)

	if _, err := f.svc.CompleteJob(ctx, created.JobID, "agent"); !errors.Is(err, maintenance.ErrState) {
		t.Fatalf("CompleteJob(pending) error = %v, want ErrState", err)
	}
	if _, err := f.svc.AssignJob(ctx, AssignJobInput{JobID: created.JobID, ContractorID: "c1"}); err != nil {
		t.Fatalf("AssignJob() error = %v", err)
	}
	if _, err := f.svc.CompleteJob(ctx, created.JobID, "agent"); !errors.Is(err, maintenance.ErrState) {
		t.Fatalf("CompleteJob(assigned) error = %v, want ErrState", err)
	}
}

func TestGetJobsForContractorListsActiveOnly(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	seedIncident(t, f, "i1")

	makeJob := func() ports.JobRecord {
		record, err := f.svc.CreateJob(ctx, CreateJobInput{
			IncidentID:  "i1",
			JobType:     "plumbing",
			Price:       100,
			Priority:    "high",
			Description: "fix things",
		})
		if err != nil {
			t.Fatalf("CreateJob() error = %v", err)
		}
		return record
	}

	open := makeJob()
	done := makeJob()
	for _, record := range []ports.JobRecord{open, done} {
		if _, err := f.svc.AssignJob(ctx, AssignJobInput{JobID: record.JobID, ContractorID: "c1"}); err != nil {
			t.Fatalf("AssignJob() error = %v", err)
		}
		if _, err := f.svc.AcceptJob(ctx, record.JobID, "c1"); err != nil {
			t.Fatalf("AcceptJob() error = %v", err)
		}
	}
	if _, err := f.svc.CompleteJob(ctx, done.JobID, "c1"); err != nil {
		t.Fatalf("CompleteJob() error = %v", err)
	}

	items, err := f.svc.GetJobsForContractor(ctx, "c1")
	if err != nil {
		t.Fatalf("GetJobsForContractor() error = %v", err)
	}
	if len(items) != 1 || items[0].JobID != open.JobID {
		t.Fatalf("GetJobsForContractor() = %v", items)
	}
}

func TestGetJobStatusPrefersCache(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	// No job row exists for this id. A stored cache entry must be enough
	// to answer, proving the store is not consulted on a hit.
	if err := f.cache.Set(ctx, "job_status:phantom", string(maintenance.JobAccepted), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	status, err := f.svc.GetJobStatus(ctx, "phantom")
	if err != nil {
		t.Fatalf("GetJobStatus() error = %v", err)
	}
	if status != maintenance.JobAccepted {
		t.Fatalf("GetJobStatus() = %q, want accepted from cache", status)
	}
}

func TestGetJobStatusFallsBackAndBackfills(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	record := createJob(t, f)

	if err := f.cache.Delete(ctx, "job_status:"+record.JobID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	status, err := f.svc.GetJobStatus(ctx, record.JobID)
	if err != nil {
		t.Fatalf("GetJobStatus() error = %v", err)
	}
	if status != maintenance.JobPending {
		t.Fatalf("GetJobStatus() = %q, want pending from store", status)
	}

	value, found, err := f.cache.Get(ctx, "job_status:"+record.JobID)
	if err != nil || !found {
		t.Fatalf("Get() = %q, %v, %v, want backfilled entry", value, found, err)
	}
	if value != string(maintenance.JobPending) {
		t.Fatalf("Get() = %q, want pending", value)
	}
}

func TestGetJobStatusIgnoresCorruptCacheEntry(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	record := createJob(t, f)

	if err := f.cache.Set(ctx, "job_status:"+record.JobID, "not-a-status", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	status, err := f.svc.GetJobStatus(ctx, record.JobID)
	if err != nil {
		t.Fatalf("GetJobStatus() error = %v", err)
	}
	if status != maintenance.JobPending {
		t.Fatalf("GetJobStatus() = %q, want pending from store", status)
	}
}

func TestGetJobStatusUnknownJob(t *testing.T) {
	f := setupService(t)

	_, err := f.svc.GetJobStatus(context.Background(), "ghost")
	if !errors.Is(err, maintenance.ErrNotFound) {
		t.Fatalf("GetJobStatus() error = %v, want ErrNotFound", err)
	}
}
