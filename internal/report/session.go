package report

import (
	"fmt"
	"html"
	"regexp"
	"sync"
	"time"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/google/uuid"
)

// PatientRef is the slice of patient data a report needs.
type PatientRef struct {
	ID            int64  `json:"id"`
	PatientNumber string `json:"patient_number"`
	Name          string `json:"name"`
}

type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SessionConfig struct {
	DateLayout string
	Now        func() time.Time
}

// Session is one live report document. All methods are safe for concurrent
// use; after Close every mutation fails with ErrNoActiveSession.
type Session struct {
	mu sync.Mutex

	reportID    string
	patient     PatientRef
	author      Author
	content     string
	signerName  string
	signerImage string
	ledger      *Ledger
	examForm    ExamForm
	formalizing bool
	closed      bool
	openedAt    time.Time

	dateLayout string
	now        func() time.Time
}

// View is a point-in-time copy of the session for callers.
type View struct {
	ReportID          string     `json:"report_id"`
	Patient           PatientRef `json:"patient"`
	Author            Author     `json:"author"`
	Content           string     `json:"content"`
	SignerName        string     `json:"signer_name"`
	SignerImage       string     `json:"signer_image,omitempty"`
	VersionCount      int        `json:"version_count"`
	LatestVersionID   string     `json:"latest_version_id"`
	HasUnsavedChanges bool       `json:"has_unsaved_changes"`
	Formalizing       bool       `json:"formalizing"`
	ExamForm          ExamForm   `json:"exam_form"`
	OpenedAt          time.Time  `json:"opened_at"`
}

func ReportHeader(p PatientRef, date string) string {
	return fmt.Sprintf("<h1>Medical Report: %s</h1><p>Patient ID: %s</p><p>Date: %s</p><hr/><p>Start typing report here...</p>",
		html.EscapeString(p.Name), html.EscapeString(p.PatientNumber), html.EscapeString(date))
}

// Open starts a report for patient. The seeded header is recorded as the
// first version and the author becomes the signer.
func Open(p PatientRef, author Author, cfg SessionConfig) *Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = "1/2/2006"
	}

	now := cfg.Now()
	s := &Session{
		reportID:   uuid.NewString(),
		patient:    p,
		author:     author,
		signerName: author.Name,
		ledger:     NewLedger(cfg.Now),
		examForm:   NewExamForm(),
		openedAt:   now,
		dateLayout: cfg.DateLayout,
		now:        cfg.Now,
	}
	s.content = ReportHeader(p, now.Format(cfg.DateLayout))
	s.ledger.Snapshot(s.content, author.Name)
	return s
}

func (s *Session) ReportID() string { return s.reportID }

func (s *Session) Patient() PatientRef { return s.patient }

func (s *Session) Author() Author { return s.author }

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		ReportID:          s.reportID,
		Patient:           s.patient,
		Author:            s.author,
		Content:           s.content,
		SignerName:        s.signerName,
		SignerImage:       s.signerImage,
		VersionCount:      s.ledger.Len(),
		HasUnsavedChanges: s.hasUnsavedLocked(),
		Formalizing:       s.formalizing,
		ExamForm:          s.examForm,
		OpenedAt:          s.openedAt,
	}
	if latest, ok := s.ledger.Latest(); ok {
		v.LatestVersionID = latest.ID
	}
	return v
}

func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Edit replaces the working copy. The ledger is untouched.
func (s *Session) Edit(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return internal.ErrNoActiveSession
	}
	s.content = content
	return nil
}

func (s *Session) ReplaceAll(content string) error {
	return s.Edit(content)
}

// InsertFragment appends fragment to the end of the document.
func (s *Session) InsertFragment(fragment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return internal.ErrNoActiveSession
	}
	s.content += fragment
	return nil
}

// ApplyFormatting wraps the byte range [start, end) of the HTML buffer.
func (s *Session) ApplyFormatting(start, end int, style FormatStyle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return internal.ErrNoActiveSession
	}
	out, err := applyFormatting(s.content, start, end, style)
	if err != nil {
		return err
	}
	s.content = out
	return nil
}

func (s *Session) ExamForm() ExamForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.examForm
}

func (s *Session) UpdateExamForm(form ExamForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return internal.ErrNoActiveSession
	}
	s.examForm = form
	return nil
}

// InsertExamEntry appends the composed exam block and resets the form.
func (s *Session) InsertExamEntry(data ExamData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return internal.ErrNoActiveSession
	}
	s.content += ComposeExamEntry(data, s.now().Format(s.dateLayout))
	s.examForm = NewExamForm()
	return nil
}

var dataImageURL = regexp.MustCompile(`^data:image/(png|jpeg|gif|webp);base64,[A-Za-z0-9+/]+=*$`)

// SetSignature updates the signer name and image independently; nil leaves a
// field as is and an empty image clears it.
func (s *Session) SetSignature(name, image *string) error {
	if image != nil && *image != "" && !dataImageURL.MatchString(*image) {
		return internal.NewValidationFieldError("image", "image must be a base64 data URL of a png, jpeg, gif or webp", internal.ErrCodeInvalidFormat)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return internal.ErrNoActiveSession
	}
	if name != nil {
		s.signerName = *name
	}
	if image != nil {
		s.signerImage = *image
	}
	return nil
}

// Save snapshots the working copy, attributed to the session author.
func (s *Session) Save() (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Version{}, internal.ErrNoActiveSession
	}
	return s.ledger.Snapshot(s.content, s.author.Name), nil
}

func (s *Session) Versions() []Version {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Versions()
}

// Revert replaces the working copy with a stored version. Unsaved edits are
// lost, so the caller must confirm.
func (s *Session) Revert(versionID string, confirm bool) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Version{}, internal.ErrNoActiveSession
	}

	content, err := s.ledger.Revert(versionID)
	if err != nil {
		return Version{}, err
	}
	if !confirm {
		return Version{}, internal.ErrRevertNotConfirmed
	}
	s.content = content

	v, _ := s.ledger.Find(versionID)
	return v, nil
}

func (s *Session) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasUnsavedLocked()
}

func (s *Session) hasUnsavedLocked() bool {
	latest, ok := s.ledger.Latest()
	if !ok {
		return s.content != ""
	}
	return s.content != latest.Content
}

// BeginFormalize marks a formalization as pending and returns the content to
// send. Only one may be pending at a time.
func (s *Session) BeginFormalize() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", internal.ErrNoActiveSession
	}
	if s.formalizing {
		return "", internal.ErrFormalizeInProgress
	}
	s.formalizing = true
	return s.content, nil
}

// FinishFormalize replaces the content with the formalized body.
func (s *Session) FinishFormalize(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formalizing = false
	if s.closed {
		return internal.ErrNoActiveSession
	}
	s.content = content
	return nil
}

// AbortFormalize clears the pending flag and keeps the content.
func (s *Session) AbortFormalize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formalizing = false
}

// Close discards the working copy, signature and ledger. It returns whether
// unsaved edits were dropped and how many versions the ledger held.
func (s *Session) Close() (discardedEdits bool, versions int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, 0
	}
	discardedEdits = s.hasUnsavedLocked()
	versions = s.ledger.Len()

	s.closed = true
	s.content = ""
	s.signerName = ""
	s.signerImage = ""
	s.ledger = NewLedger(s.now)
	s.examForm = NewExamForm()
	s.formalizing = false
	return discardedEdits, versions
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) signature() (name, image string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signerName, s.signerImage
}
