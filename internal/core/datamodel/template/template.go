package template

import "time"

type ReportTemplate struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	Title     string    `gorm:"column:title;not null"`
	Category  string    `gorm:"column:category;not null;index"`
	Content   string    `gorm:"column:content;type:text;not null"`
	CreatedBy *int64    `gorm:"column:created_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ReportTemplate) TableName() string {
	return "report_templates"
}
