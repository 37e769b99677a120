package reporttemplate

import (
	"html"
	"strings"
	"time"

	templateDatamodel "github.com/frahmantamala/mediscript/internal/core/datamodel/template"
)

type Category string

const (
	CategoryGeneral     Category = "General"
	CategorySpecialty   Category = "Specialty"
	CategoryDiagnostics Category = "Diagnostics"
)

// Categories in picker order.
var Categories = []Category{CategoryGeneral, CategorySpecialty, CategoryDiagnostics}

func (c Category) Valid() bool {
	switch c {
	case CategoryGeneral, CategorySpecialty, CategoryDiagnostics:
		return true
	}
	return false
}

const (
	TokenPatientName = "[PATIENT_NAME]"
	TokenDate        = "[DATE]"

	DefaultDateLayout = "1/2/2006"
)

type Template struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	Content   string    `json:"content"`
	CreatedBy *int64    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Template) ToDataModel() *templateDatamodel.ReportTemplate {
	return &templateDatamodel.ReportTemplate{
		ID:        t.ID,
		Title:     t.Title,
		Category:  string(t.Category),
		Content:   t.Content,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromDataModel(row *templateDatamodel.ReportTemplate) *Template {
	return &Template{
		ID:        row.ID,
		Title:     row.Title,
		Category:  Category(row.Category),
		Content:   row.Content,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// Resolver substitutes placeholder tokens in a template body.
type Resolver struct {
	DateLayout string
}

func NewResolver(dateLayout string) *Resolver {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	return &Resolver{DateLayout: dateLayout}
}

// Resolve replaces every occurrence of the known tokens. The name goes in
// first, so a date token carried in by the name is resolved as well.
// Anything else that looks like a token is left untouched.
func (r *Resolver) Resolve(body, patientName string, now time.Time) string {
	out := strings.ReplaceAll(body, TokenPatientName, html.EscapeString(patientName))
	return strings.ReplaceAll(out, TokenDate, now.Format(r.DateLayout))
}

// Resolve uses the default short date layout.
func Resolve(body, patientName string, now time.Time) string {
	return NewResolver(DefaultDateLayout).Resolve(body, patientName, now)
}
