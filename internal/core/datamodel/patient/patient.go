package patient

import (
	"database/sql"
	"time"
)

// Patient is read through sqlx, hence db tags rather than gorm ones.
type Patient struct {
	ID            int64          `db:"id"`
	PatientNumber string         `db:"patient_number"`
	Name          string         `db:"name"`
	DateOfBirth   time.Time      `db:"date_of_birth"`
	Gender        string         `db:"gender"`
	LastVisit     sql.NullTime   `db:"last_visit"`
	Address       string         `db:"address"`
	Phone         string         `db:"phone"`
	Email         string         `db:"email"`
	BloodType     string         `db:"blood_type"`
	Allergies     sql.NullString `db:"allergies"`
	CreatedAt     time.Time      `db:"created_at"`
}
