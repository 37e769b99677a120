package patient

import (
	"encoding/json"
	"time"

	patientDatamodel "github.com/frahmantamala/mediscript/internal/core/datamodel/patient"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

type Demographics struct {
	Address   string   `json:"address"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email"`
	BloodType string   `json:"blood_type"`
	Allergies []string `json:"allergies"`
}

// Patient is read-only inside the service; records are owned by the
// hospital registry and loaded by the seeder or an import job.
type Patient struct {
	ID           int64        `json:"id"`
	PatientID    string       `json:"patient_id"`
	Name         string       `json:"name"`
	DateOfBirth  time.Time    `json:"date_of_birth"`
	Gender       Gender       `json:"gender"`
	LastVisit    *time.Time   `json:"last_visit,omitempty"`
	Demographics Demographics `json:"demographics"`
}

// Age in whole years at the given instant.
func (p *Patient) Age(at time.Time) int {
	years := at.Year() - p.DateOfBirth.Year()
	if at.YearDay() < p.DateOfBirth.YearDay() {
		years--
	}
	return years
}

func FromDataModel(row *patientDatamodel.Patient) *Patient {
	p := &Patient{
		ID:          row.ID,
		PatientID:   row.PatientNumber,
		Name:        row.Name,
		DateOfBirth: row.DateOfBirth,
		Gender:      Gender(row.Gender),
		Demographics: Demographics{
			Address:   row.Address,
			Phone:     row.Phone,
			Email:     row.Email,
			BloodType: row.BloodType,
			Allergies: []string{},
		},
	}
	if row.LastVisit.Valid {
		lv := row.LastVisit.Time
		p.LastVisit = &lv
	}
	if row.Allergies.Valid && row.Allergies.String != "" {
		// malformed lists are shown as empty rather than failing the lookup
		_ = json.Unmarshal([]byte(row.Allergies.String), &p.Demographics.Allergies)
	}
	return p
}
