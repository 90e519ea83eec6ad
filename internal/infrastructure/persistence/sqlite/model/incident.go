package model

type Incident struct {
	IncidentID string `gorm:"column:incident_id;type:text;primaryKey"`
	TenantID   string `gorm:"column:tenant_id;type:text;not null;index"`
	PropertyID string `gorm:"column:property_id;type:text;not null;index"`
	Issue      string `gorm:"column:issue;type:text;not null"`
	Priority   string `gorm:"column:priority;type:text;not null"`
	ChatJSON   string `gorm:"column:chat_json;type:text;not null"`
	Timestamp  string `gorm:"column:timestamp;type:text;not null"`
	CreatedBy  string `gorm:"column:created_by;type:text;not null"`
}

func (Incident) TableName() string {
	return "incidents"
}
