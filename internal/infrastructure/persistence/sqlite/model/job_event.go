package model

type JobEvent struct {
	EventID   uint64 `gorm:"column:event_id;primaryKey;autoIncrement"`
	JobID     string `gorm:"column:job_id;type:text;not null;index"`
	Actor     string `gorm:"column:actor;type:text;not null"`
	Action    string `gorm:"column:action;type:text;not null"`
	Detail    string `gorm:"column:detail;type:text;not null"`
	CreatedAt string `gorm:"column:created_at;type:text;not null"`
}

func (JobEvent) TableName() string {
	return "job_events"
}
