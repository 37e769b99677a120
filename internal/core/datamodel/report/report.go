package report

import "time"

const (
	StatusDraft     = "Draft"
	StatusFinalized = "Finalized"
)

// Report is the archived header of a report session. Content mirrors the
// newest saved version and UpdatedAt is that version's timestamp.
type Report struct {
	ID          string     `gorm:"primaryKey;type:varchar(64)"`
	PatientID   int64      `gorm:"column:patient_id;not null;index"`
	AuthorID    int64      `gorm:"column:author_id;not null"`
	Title       string     `gorm:"column:title;not null"`
	Content     string     `gorm:"column:content;type:text;not null"`
	Status      string     `gorm:"column:status;not null;default:Draft"`
	FinalizedAt *time.Time `gorm:"column:finalized_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (Report) TableName() string {
	return "reports"
}

type ReportVersion struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)"`
	ReportID   string    `gorm:"column:report_id;not null;index"`
	Content    string    `gorm:"column:content;type:text;not null"`
	AuthorName string    `gorm:"column:author_name;not null"`
	SavedAt    time.Time `gorm:"column:saved_at;not null"`
}

func (ReportVersion) TableName() string {
	return "report_versions"
}
