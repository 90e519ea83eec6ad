package model

type Job struct {
	JobID                string  `gorm:"column:job_id;type:text;primaryKey"`
	IncidentID           string  `gorm:"column:incident_id;type:text;not null;index"`
	JobType              string  `gorm:"column:job_type;type:text;not null"`
	Price                float64 `gorm:"column:price;not null"`
	Priority             string  `gorm:"column:priority;type:text;not null"`
	Description          string  `gorm:"column:description;type:text;not null"`
	Status               string  `gorm:"column:status;type:text;not null;index"`
	AssignedContractorID *string `gorm:"column:assigned_contractor_id;type:text;index"`
	Accepted             *bool   `gorm:"column:accepted"`
	ProposedSchedule     *string `gorm:"column:proposed_schedule;type:text"`
	CreatedBy            string  `gorm:"column:created_by;type:text;not null"`
	Timestamp            string  `gorm:"column:timestamp;type:text;not null"`
	Version              int64   `gorm:"column:version;not null;default:1"`
}

func (Job) TableName() string {
	return "jobs"
}
