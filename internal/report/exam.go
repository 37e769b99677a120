package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/frahmantamala/mediscript/internal"
)

type ExamTab string

const (
	ExamTabVitals     ExamTab = "vitals"
	ExamTabAssessment ExamTab = "assessment"
	ExamTabNotes      ExamTab = "notes"
)

func (t ExamTab) Valid() bool {
	switch t {
	case ExamTabVitals, ExamTabAssessment, ExamTabNotes:
		return true
	}
	return false
}

// Vitals are free text; the composer does not parse numbers.
type Vitals struct {
	BloodPressure string `json:"bp"`
	HeartRate     string `json:"hr"`
	Temperature   string `json:"temp"`
	SpO2          string `json:"spo2"`
	Weight        string `json:"weight"`
	Height        string `json:"height"`
}

type ExamData struct {
	Vitals    Vitals `json:"vitals"`
	Diagnosis string `json:"diagnosis"`
	Notes     string `json:"notes"`
}

// ExamForm is the in-progress exam entry of a session.
type ExamForm struct {
	Data      ExamData `json:"data"`
	ActiveTab ExamTab  `json:"active_tab"`
}

func NewExamForm() ExamForm {
	return ExamForm{ActiveTab: ExamTabVitals}
}

func (f ExamForm) Validate() *internal.AppError {
	if !f.ActiveTab.Valid() {
		return internal.NewValidationFieldError("active_tab", "active_tab must be one of vitals, assessment, notes", internal.ErrCodeInvalidFormat)
	}
	return nil
}

const emptyVital = "--"

func vital(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return emptyVital
	}
	return html.EscapeString(v)
}

// ComposeExamEntry renders an exam block dated with date. Diagnosis and notes
// sections are left out when blank.
func ComposeExamEntry(data ExamData, date string) string {
	var b strings.Builder

	b.WriteString(`<div class="exam-entry">`)
	fmt.Fprintf(&b, `<h4>Examination Entry - %s</h4>`, html.EscapeString(date))
	b.WriteString(`<div class="exam-vitals">`)
	fmt.Fprintf(&b, `<div><strong>BP:</strong> %s mmHg</div>`, vital(data.Vitals.BloodPressure))
	fmt.Fprintf(&b, `<div><strong>HR:</strong> %s bpm</div>`, vital(data.Vitals.HeartRate))
	fmt.Fprintf(&b, `<div><strong>Temp:</strong> %s °F</div>`, vital(data.Vitals.Temperature))
	fmt.Fprintf(&b, `<div><strong>SpO2:</strong> %s %%</div>`, vital(data.Vitals.SpO2))
	fmt.Fprintf(&b, `<div><strong>Weight:</strong> %s kg</div>`, vital(data.Vitals.Weight))
	fmt.Fprintf(&b, `<div><strong>Height:</strong> %s cm</div>`, vital(data.Vitals.Height))
	b.WriteString(`</div>`)

	if d := strings.TrimSpace(data.Diagnosis); d != "" {
		fmt.Fprintf(&b, `<div class="exam-diagnosis"><strong>Primary Diagnosis:</strong> %s</div>`, html.EscapeString(d))
	}
	if n := strings.TrimSpace(data.Notes); n != "" {
		fmt.Fprintf(&b, `<div class="exam-notes"><strong>Notes:</strong> %s</div>`, html.EscapeString(n))
	}

	b.WriteString(`</div><p><br/></p>`)
	return b.String()
}
