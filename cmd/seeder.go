package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/mediscript/internal/auth"
	patientDatamodel "github.com/frahmantamala/mediscript/internal/core/datamodel/patient"
	templateDatamodel "github.com/frahmantamala/mediscript/internal/core/datamodel/template"
	userDatamodel "github.com/frahmantamala/mediscript/internal/core/datamodel/user"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with the demo staff accounts, patients and report templates.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		ctx := context.Background()

		if clearData {
			if err := clearSeedData(ctx, gormDB); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := seedUsers(ctx, gormDB, cfg.Security.BCryptCost); err != nil {
			log.Fatalf("failed to seed users: %v", err)
		}
		if err := seedPatients(ctx, db); err != nil {
			log.Fatalf("failed to seed patients: %v", err)
		}
		if err := seedTemplates(ctx, gormDB); err != nil {
			log.Fatalf("failed to seed templates: %v", err)
		}

		fmt.Println("Seeding finished")
	},
}

// children first, the foreign keys point at users and reports
var seedTables = []string{"report_versions", "reports", "report_templates", "patients", "users"}

func clearSeedData(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range seedTables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

type seedUser struct {
	Email string
	Name  string
	Role  auth.Role
}

var seedStaff = []seedUser{
	{Email: "admin@mediscript.com", Name: "Admin User", Role: auth.RoleAdmin},
	{Email: "medic@mediscript.com", Name: "Dr. Gregory House", Role: auth.RoleMedic},
	{Email: "secretary@mediscript.com", Name: "Sarah Secretary", Role: auth.RoleSecretary},
}

const seedPassword = "password"

func seedUsers(ctx context.Context, db *gorm.DB, bcryptCost int) error {
	hash, err := auth.HashPassword(seedPassword, bcryptCost)
	if err != nil {
		return err
	}

	for _, s := range seedStaff {
		perms := auth.DefaultPermissions(s.Role)
		encoded, err := userDatamodel.EncodePermissions(userDatamodel.PermissionSet{
			CanManageTemplates: perms.CanManageTemplates,
			CanManageStaff:     perms.CanManageStaff,
			CanWriteReports:    perms.CanWriteReports,
			CanManagePatients:  perms.CanManagePatients,
		})
		if err != nil {
			return err
		}

		row := &userDatamodel.User{
			Email:        s.Email,
			Name:         s.Name,
			PasswordHash: hash,
			Role:         string(s.Role),
			Permissions:  encoded,
			IsActive:     true,
		}
		res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
		if res.Error != nil {
			return fmt.Errorf("insert %s: %w", s.Email, res.Error)
		}
		if res.RowsAffected == 0 {
			fmt.Println("user already exists:", s.Email)
			continue
		}
		fmt.Printf("Seeded %s user: %s\n", s.Role, s.Email)
	}
	return nil
}

type seedPatient struct {
	Number    string
	Name      string
	DOB       string
	Gender    string
	LastVisit string
	Address   string
	Phone     string
	Email     string
	BloodType string
	Allergies []string
}

var seedDirectory = []seedPatient{
	{"P-10023", "John Doe", "1985-05-12", "Male", "2023-10-15", "123 Health St, Medical City, MC 54321", "+1 (555) 012-3456", "john.doe@email.com", "A+", []string{"Penicillin", "Peanuts"}},
	{"P-10045", "Jane Smith", "1992-08-22", "Female", "2023-11-02", "456 Wellness Ave, Caretown, CT 12345", "+1 (555) 987-6543", "jane.smith@email.com", "O-", []string{"Latex"}},
	{"P-10112", "Robert Wilson", "1970-03-10", "Male", "2023-09-28", "789 Recovery Ln, Healing Springs, HS 67890", "+1 (555) 456-7890", "r.wilson@email.com", "B+", []string{"None"}},
	{"P-10256", "Emily Chen", "1998-12-05", "Female", "2023-12-01", "321 Lotus Dr, Zen Garden, ZG 11223", "+1 (555) 111-2222", "emily.chen@email.com", "AB-", []string{"Dust", "Dairy"}},
}

const insertPatientSQL = `INSERT INTO patients
	(patient_number, name, date_of_birth, gender, last_visit, address, phone, email, blood_type, allergies)
VALUES
	(:patient_number, :name, :date_of_birth, :gender, :last_visit, :address, :phone, :email, :blood_type, :allergies)
ON CONFLICT (patient_number) DO NOTHING`

func seedPatients(ctx context.Context, db *sqlx.DB) error {
	for _, p := range seedDirectory {
		row, err := p.toDataModel()
		if err != nil {
			return err
		}
		res, err := db.NamedExecContext(ctx, insertPatientSQL, row)
		if err != nil {
			return fmt.Errorf("insert patient %s: %w", p.Number, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			fmt.Println("patient already exists:", p.Number)
			continue
		}
		fmt.Printf("Seeded patient %s (%s)\n", p.Name, p.Number)
	}
	return nil
}

func (p seedPatient) toDataModel() (*patientDatamodel.Patient, error) {
	dob, err := time.Parse(time.DateOnly, p.DOB)
	if err != nil {
		return nil, fmt.Errorf("patient %s dob: %w", p.Number, err)
	}
	lastVisit, err := time.Parse(time.DateOnly, p.LastVisit)
	if err != nil {
		return nil, fmt.Errorf("patient %s last visit: %w", p.Number, err)
	}
	allergies, err := json.Marshal(p.Allergies)
	if err != nil {
		return nil, err
	}

	return &patientDatamodel.Patient{
		PatientNumber: p.Number,
		Name:          p.Name,
		DateOfBirth:   dob,
		Gender:        p.Gender,
		LastVisit:     sql.NullTime{Time: lastVisit, Valid: true},
		Address:       p.Address,
		Phone:         p.Phone,
		Email:         p.Email,
		BloodType:     p.BloodType,
		Allergies:     sql.NullString{String: string(allergies), Valid: true},
	}, nil
}

var seedTemplateRows = []templateDatamodel.ReportTemplate{
	{
		ID:       "t1",
		Title:    "General Physical Exam",
		Category: "General",
		Content: `<h1>Physical Examination Report</h1>
<p><strong>Patient Name:</strong> [PATIENT_NAME]</p>
<p><strong>Date of Exam:</strong> [DATE]</p>
<hr/>
<h3>Chief Complaint</h3>
<p>Patient presents for a routine annual physical examination.</p>
<h3>Vital Signs</h3>
<p>BP: 120/80 mmHg | HR: 72 bpm | Temp: 98.6°F | SpO2: 98%</p>
<h3>Physical Findings</h3>
<ul>
  <li><strong>HEENT:</strong> Normocephalic, atraumatic. Pupils equal and reactive.</li>
  <li><strong>Neck:</strong> Supple, no lymphadenopathy.</li>
  <li><strong>Lungs:</strong> Clear to auscultation bilaterally.</li>
  <li><strong>Heart:</strong> Regular rate and rhythm, no murmurs.</li>
  <li><strong>Abdomen:</strong> Soft, non-tender, non-distended.</li>
</ul>
<h3>Assessment &amp; Plan</h3>
<p>Healthy individual. Recommended follow-up in 12 months.</p>`,
	},
	{
		ID:       "t2",
		Title:    "Cardiology Assessment",
		Category: "Specialty",
		Content: `<h1>Cardiology Consultation</h1>
<p><strong>Specialist:</strong> Dr. Sarah Vance</p>
<hr/>
<h3>Clinical Summary</h3>
<p>Patient referred for evaluation of intermittent palpitations.</p>
<h3>Diagnostic Results</h3>
<p>ECG shows normal sinus rhythm. No significant ST-segment changes noted during stress test.</p>
<h3>Impression</h3>
<p>Unremarkable cardiac evaluation. Palpitations likely secondary to excessive caffeine intake or stress.</p>`,
	},
	{
		ID:       "t3",
		Title:    "Radiology Report",
		Category: "Diagnostics",
		Content: `<h1>Radiology Report (Chest X-Ray)</h1>
<hr/>
<h3>Findings</h3>
<p>Bony thorax and soft tissues are unremarkable. Heart size is within normal limits. Lungs are clear without focal consolidation, effusion, or pneumothorax.</p>
<h3>Impression</h3>
<p>No acute cardiopulmonary disease.</p>`,
	},
}

func seedTemplates(ctx context.Context, db *gorm.DB) error {
	for i := range seedTemplateRows {
		row := seedTemplateRows[i]
		res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return fmt.Errorf("insert template %s: %w", row.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			fmt.Println("template already exists:", row.ID)
			continue
		}
		fmt.Printf("Seeded template %s: %s\n", row.ID, row.Title)
	}
	return nil
}
