package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fixflow/internal/domain/maintenance"
	"fixflow/internal/errs"
	"fixflow/internal/infrastructure/persistence/sqlite/model"
	"fixflow/internal/ports"
)

type JobRepository struct {
	db *gorm.DB
}

var _ ports.JobStore = (*JobRepository)(nil)

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) CreateJob(ctx context.Context, job ports.JobRecord) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := jobToRow(job)
	if row.Version == 0 {
		row.Version = 1
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert job")
	}
	return nil
}

func (r *JobRepository) GetJob(ctx context.Context, jobID string) (ports.JobRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.JobRecord{}, err
	}

	var row model.Job
	if err := db.Where("job_id = ?", jobID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.JobRecord{}, fmt.Errorf("%w: job %s", maintenance.ErrNotFound, jobID)
		}
		return ports.JobRecord{}, errs.Wrap(err, "query job")
	}
	return jobFromRow(row), nil
}

func (r *JobRepository) ListJobs(ctx context.Context, filter ports.JobFilter) ([]ports.JobRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Job
	if err := applyJobFilter(db.Model(&model.Job{}), filter).
		Order("timestamp asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query jobs")
	}

	items := make([]ports.JobRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, jobFromRow(row))
	}
	return items, nil
}

func (r *JobRepository) CountJobs(ctx context.Context, filter ports.JobFilter) (int64, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := applyJobFilter(db.Model(&model.Job{}), filter).Count(&count).Error; err != nil {
		return 0, errs.Wrap(err, "count jobs")
	}
	return count, nil
}

// casUpdate applies a version-conditioned update. Zero rows affected means
// a concurrent writer bumped the version first; the caller re-reads and
// retries its guard checks against fresh data.
func (r *JobRepository) casUpdate(ctx context.Context, jobID string, expectedVersion int64, updates map[string]any) (bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return false, err
	}

	updates["version"] = gorm.Expr("version + 1")
	result := db.Model(&model.Job{}).
		Where("job_id = ? AND version = ?", jobID, expectedVersion).
		Updates(updates)
	if result.Error != nil {
		return false, errs.Wrap(result.Error, "update job")
	}
	return result.RowsAffected > 0, nil
}

func (r *JobRepository) AssignContractor(ctx context.Context, jobID string, expectedVersion int64, contractorID string, updatedAt string) (bool, error) {
	return r.casUpdate(ctx, jobID, expectedVersion, map[string]any{
		"assigned_contractor_id": contractorID,
		"status":                 string(maintenance.JobAssigned),
		"timestamp":              updatedAt,
	})
}

func (r *JobRepository) RecordDecision(ctx context.Context, jobID string, expectedVersion int64, accepted bool, status maintenance.JobStatus, updatedAt string) (bool, error) {
	return r.casUpdate(ctx, jobID, expectedVersion, map[string]any{
		"accepted":  accepted,
		"status":    string(status),
		"timestamp": updatedAt,
	})
}

func (r *JobRepository) SetProposedSchedule(ctx context.Context, jobID string, expectedVersion int64, schedule string, updatedAt string) (bool, error) {
	return r.casUpdate(ctx, jobID, expectedVersion, map[string]any{
		"proposed_schedule": schedule,
		"timestamp":         updatedAt,
	})
}

func (r *JobRepository) MarkCompleted(ctx context.Context, jobID string, expectedVersion int64, completedAt string) (bool, error) {
	return r.casUpdate(ctx, jobID, expectedVersion, map[string]any{
		"status":    string(maintenance.JobCompleted),
		"timestamp": completedAt,
	})
}

func (r *JobRepository) AppendJobEvent(ctx context.Context, input ports.JobEventCreate) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.JobEvent{
		JobID:     input.JobID,
		Actor:     input.Actor,
		Action:    input.Action,
		Detail:    input.Detail,
		CreatedAt: input.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert job event")
	}
	return nil
}

func (r *JobRepository) ListJobEvents(ctx context.Context, jobID string) ([]ports.JobEvent, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.JobEvent
	if err := db.
		Where("job_id = ?", jobID).
		Order("event_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query job events")
	}

	items := make([]ports.JobEvent, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.JobEvent{
			EventID:   row.EventID,
			JobID:     row.JobID,
			Actor:     row.Actor,
			Action:    row.Action,
			Detail:    row.Detail,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func applyJobFilter(query *gorm.DB, filter ports.JobFilter) *gorm.DB {
	if filter.ContractorID != "" {
		query = query.Where("assigned_contractor_id = ?", filter.ContractorID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		query = query.Where("status IN ?", statuses)
	}
	return query
}

func jobToRow(job ports.JobRecord) model.Job {
	return model.Job{
		JobID:                job.JobID,
		IncidentID:           job.IncidentID,
		JobType:              job.JobType,
		Price:                job.Price,
		Priority:             job.Priority,
		Description:          job.Description,
		Status:               string(job.Status),
		AssignedContractorID: job.AssignedContractorID,
		Accepted:             job.Accepted,
		ProposedSchedule:     job.ProposedSchedule,
		CreatedBy:            job.CreatedBy,
		Timestamp:            job.Timestamp,
		Version:              job.Version,
	}
}

func jobFromRow(row model.Job) ports.JobRecord {
	return ports.JobRecord{
		JobID:                row.JobID,
		IncidentID:           row.IncidentID,
		JobType:              row.JobType,
		Price:                row.Price,
		Priority:             row.Priority,
		Description:          row.Description,
		Status:               maintenance.JobStatus(row.Status),
		AssignedContractorID: row.AssignedContractorID,
		Accepted:             row.Accepted,
		ProposedSchedule:     row.ProposedSchedule,
		CreatedBy:            row.CreatedBy,
		Timestamp:            row.Timestamp,
		Version:              row.Version,
	}
}
