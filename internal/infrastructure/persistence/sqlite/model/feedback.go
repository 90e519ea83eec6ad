package model

type Feedback struct {
	FeedbackID  string `gorm:"column:feedback_id;type:text;primaryKey"`
	JobID       string `gorm:"column:job_id;type:text;not null;uniqueIndex:idx_feedback_triple;index"`
	SubmittedBy string `gorm:"column:submitted_by;type:text;not null;uniqueIndex:idx_feedback_triple"`
	Role        string `gorm:"column:role;type:text;not null;uniqueIndex:idx_feedback_triple"`
	Rating      int    `gorm:"column:rating;not null"`
	Notes       string `gorm:"column:notes;type:text;not null"`
	Timestamp   string `gorm:"column:timestamp;type:text;not null"`
}

func (Feedback) TableName() string {
	return "feedback"
}
