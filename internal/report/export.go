package report

import (
	"bytes"
	"html/template"
	"time"

	"github.com/frahmantamala/mediscript/internal"
)

const (
	fallbackSignerName   = "Authorized Clinician"
	signaturePlaceholder = "Digital Signature Placeholder"
)

var exportTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 800px; margin: 40px auto; color: #0f172a; }
.exam-entry { border: 1px solid #e2e8f0; padding: 12px; margin: 16px 0; }
.signature { margin-top: 48px; padding-top: 32px; border-top: 1px solid #e2e8f0; display: flex; justify-content: flex-end; }
.signature-box { width: 256px; text-align: center; }
.signature-box img { max-height: 96px; }
.signature-placeholder { height: 96px; line-height: 96px; color: #cbd5e1; font-style: italic; font-size: 14px; }
.signer { border-top: 1px solid #0f172a; padding-top: 8px; }
.signer-name { font-weight: bold; }
.signer-label { font-size: 11px; text-transform: uppercase; letter-spacing: 0.2em; color: #64748b; }
.signed-at { font-size: 10px; color: #94a3b8; }
</style>
</head>
<body>
<article class="report">
{{.Content}}
</article>
<section class="signature">
<div class="signature-box">
{{if .SignatureImage}}<img src="{{.SignatureImage}}" alt="Signature">{{else}}<div class="signature-placeholder">{{.Placeholder}}</div>{{end}}
<div class="signer">
<div class="signer-name">{{.SignerName}}</div>
<div class="signer-label">Medical Signature</div>
<div class="signed-at">{{.SignedAt}}</div>
</div>
</div>
</section>
</body>
</html>
`))

type exportData struct {
	Title          string
	Content        template.HTML
	SignatureImage template.URL
	Placeholder    string
	SignerName     string
	SignedAt       string
}

// Export renders the working copy as a printable document with the
// signature block. It does not save a version.
func (s *Session) Export(at time.Time) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", internal.ErrNoActiveSession
	}
	data := exportData{
		Title: "Medical Report: " + s.patient.Name,
		// authored by the clinician; exam fragments are escaped on insertion
		Content:     template.HTML(s.content),
		Placeholder: signaturePlaceholder,
		SignerName:  s.signerName,
		SignedAt:    at.Format(s.dateLayout + " 15:04"),
	}
	if s.signerImage != "" {
		// validated as a data:image URL by SetSignature
		data.SignatureImage = template.URL(s.signerImage)
	}
	s.mu.Unlock()

	if data.SignerName == "" {
		data.SignerName = fallbackSignerName
	}

	var buf bytes.Buffer
	if err := exportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
