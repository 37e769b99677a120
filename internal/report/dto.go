package report

type OpenSessionDTO struct {
	PatientID int64 `json:"patient_id"`
}

type ContentDTO struct {
	Content string `json:"content"`
}

type ApplyTemplateDTO struct {
	TemplateID string `json:"template_id"`
}

// FormatDTO addresses a byte range of the HTML content.
type FormatDTO struct {
	Start int         `json:"start"`
	End   int         `json:"end"`
	Style FormatStyle `json:"style"`
}

type SignatureDTO struct {
	Name  *string `json:"name,omitempty"`
	Image *string `json:"image,omitempty"`
}

type RevertDTO struct {
	Confirm bool `json:"confirm"`
}

type SuggestDiagnosisDTO struct {
	Symptoms string `json:"symptoms"`
}

type VersionsResponse struct {
	Versions []Version `json:"versions"`
}

type SuggestionResponse struct {
	HTML string `json:"html"`
}
