package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fixflow/internal/domain/maintenance"
	"fixflow/internal/errs"
	"fixflow/internal/infrastructure/persistence/sqlite/model"
	"fixflow/internal/ports"
)

type FeedbackRepository struct {
	db *gorm.DB
}

var _ ports.FeedbackStore = (*FeedbackRepository)(nil)

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// InsertFeedback rides the unique (job_id, submitted_by, role) index: a
// conflicting insert is dropped and reported as not-inserted, so the check
// and the write are a single atomic statement.
func (r *FeedbackRepository) InsertFeedback(ctx context.Context, feedback ports.FeedbackRecord) (bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return false, err
	}

	row := model.Feedback{
		FeedbackID:  feedback.FeedbackID,
		JobID:       feedback.JobID,
		SubmittedBy: feedback.SubmittedBy,
		Role:        string(feedback.Role),
		Rating:      feedback.Rating,
		Notes:       feedback.Notes,
		Timestamp:   feedback.Timestamp,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}, {Name: "submitted_by"}, {Name: "role"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return false, errs.Wrap(result.Error, "insert feedback")
	}
	return result.RowsAffected > 0, nil
}

func (r *FeedbackRepository) ListFeedback(ctx context.Context) ([]ports.FeedbackRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Feedback
	if err := db.Order("timestamp asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query feedback")
	}
	return feedbackFromRows(rows), nil
}

func (r *FeedbackRepository) ListFeedbackByJob(ctx context.Context, jobID string) ([]ports.FeedbackRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Feedback
	if err := db.
		Where("job_id = ?", jobID).
		Order("timestamp asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query feedback by job")
	}
	return feedbackFromRows(rows), nil
}

func (r *FeedbackRepository) ListFeedbackByContractor(ctx context.Context, contractorID string) ([]ports.FeedbackRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Feedback
	if err := db.Model(&model.Feedback{}).
		Joins("JOIN jobs ON jobs.job_id = feedback.job_id").
		Where("jobs.assigned_contractor_id = ?", contractorID).
		Order("feedback.timestamp asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query feedback by contractor")
	}
	return feedbackFromRows(rows), nil
}

func feedbackFromRows(rows []model.Feedback) []ports.FeedbackRecord {
	items := make([]ports.FeedbackRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.FeedbackRecord{
			FeedbackID:  row.FeedbackID,
			JobID:       row.JobID,
			SubmittedBy: row.SubmittedBy,
			Role:        maintenance.FeedbackRole(row.Role),
			Rating:      row.Rating,
			Notes:       row.Notes,
			Timestamp:   row.Timestamp,
		})
	}
	return items
}
