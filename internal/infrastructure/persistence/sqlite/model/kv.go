package model

type MaintenanceKV struct {
	Key       string `gorm:"column:key;type:text;primaryKey"`
	Value     string `gorm:"column:value;type:text;not null"`
	UpdatedAt string `gorm:"column:updated_at;type:text;not null"`
}

func (MaintenanceKV) TableName() string {
	return "maintenance_kv"
}
