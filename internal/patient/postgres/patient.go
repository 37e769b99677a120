package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	patientDatamodel "github.com/frahmantamala/mediscript/internal/core/datamodel/patient"
	"github.com/jmoiron/sqlx"
)

const patientColumns = `id, patient_number, name, date_of_birth, gender, last_visit,
	address, phone, email, blood_type, allergies, created_at`

// PatientRepository is a read-only sqlx repository over the patients table.
type PatientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) List(ctx context.Context, search string, limit, offset int) ([]*patientDatamodel.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients`
	args := []interface{}{}

	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query += ` WHERE LOWER(name) LIKE ? OR LOWER(patient_number) LIKE ?`
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY name ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var rows []*patientDatamodel.Patient
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns nil, nil when the patient does not exist.
func (r *PatientRepository) GetByID(ctx context.Context, id int64) (*patientDatamodel.Patient, error) {
	var row patientDatamodel.Patient
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+patientColumns+` FROM patients WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
