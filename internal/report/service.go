package report

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/auth"
	"github.com/frahmantamala/mediscript/internal/core/events"
	"github.com/frahmantamala/mediscript/internal/formalizer"
	"github.com/frahmantamala/mediscript/internal/patient"
	"github.com/frahmantamala/mediscript/internal/reporttemplate"
)

type PatientLookup interface {
	Get(ctx context.Context, id int64) (*patient.Patient, error)
}

type TemplateLookup interface {
	Get(ctx context.Context, id string) (*reporttemplate.Template, error)
}

type Formalizer interface {
	Formalize(ctx context.Context, notes string) (string, error)
	SuggestDiagnosis(ctx context.Context, symptoms string) (string, error)
}

type Config struct {
	DateLayout string
	Now        func() time.Time
}

type Service struct {
	store      *SessionStore
	patients   PatientLookup
	templates  TemplateLookup
	formalizer Formalizer
	resolver   *reporttemplate.Resolver
	publisher  events.Publisher
	logger     *slog.Logger
	dateLayout string
	now        func() time.Time
}

func NewService(
	store *SessionStore,
	patients PatientLookup,
	templates TemplateLookup,
	formalizer Formalizer,
	publisher events.Publisher,
	config Config,
	logger *slog.Logger,
) *Service {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.DateLayout == "" {
		config.DateLayout = reporttemplate.DefaultDateLayout
	}
	return &Service{
		store:      store,
		patients:   patients,
		templates:  templates,
		formalizer: formalizer,
		resolver:   reporttemplate.NewResolver(config.DateLayout),
		publisher:  publisher,
		logger:     logger,
		dateLayout: config.DateLayout,
		now:        config.Now,
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish report event", "event_type", event.EventType(), "error", err)
	}
}

// session resolves the caller's open session after the write-report check.
func (s *Service) session(u *auth.User) (*Session, error) {
	if !auth.Authorize(u, auth.ActionWriteReport) {
		return nil, internal.ErrAccessDenied
	}
	sess, ok := s.store.Get(u.ID)
	if !ok || sess.Closed() {
		return nil, internal.ErrNoActiveSession
	}
	return sess, nil
}

// Open starts a report for a patient, replacing any session the user had.
func (s *Service) Open(ctx context.Context, u *auth.User, patientID int64) (View, error) {
	if !auth.Authorize(u, auth.ActionWriteReport) {
		s.logger.Warn("report session denied", "user_id", userID(u), "patient_id", patientID)
		return View{}, internal.ErrAccessDenied
	}

	p, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return View{}, err
	}

	sess := Open(
		PatientRef{ID: p.ID, PatientNumber: p.PatientID, Name: p.Name},
		Author{ID: u.ID, Name: u.Name},
		SessionConfig{DateLayout: s.dateLayout, Now: s.now},
	)
	if prev := s.store.Put(u.ID, sess); prev != nil {
		s.closeSession(ctx, u.ID, prev)
	}

	s.logger.Info("report session opened", "report_id", sess.ReportID(), "patient_id", p.ID, "user_id", u.ID)
	s.publish(ctx, events.NewReportSessionOpenedEvent(sess.ReportID(), p.ID, u.ID))
	if first, ok := firstVersion(sess); ok {
		s.publishSaved(ctx, u, sess, first)
	}
	return sess.View(), nil
}

func firstVersion(sess *Session) (Version, bool) {
	versions := sess.Versions()
	if len(versions) == 0 {
		return Version{}, false
	}
	return versions[len(versions)-1], true
}

func (s *Service) Current(ctx context.Context, u *auth.User) (View, error) {
	sess, err := s.session(u)
	if err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

func (s *Service) Close(ctx context.Context, u *auth.User) error {
	if !auth.Authorize(u, auth.ActionWriteReport) {
		return internal.ErrAccessDenied
	}
	sess, ok := s.store.Remove(u.ID)
	if !ok {
		return internal.ErrNoActiveSession
	}
	s.closeSession(ctx, u.ID, sess)
	return nil
}

// CloseForUser discards the user's session without a permission check. It
// runs on logout.
func (s *Service) CloseForUser(ctx context.Context, uid int64) {
	if sess, ok := s.store.Remove(uid); ok {
		s.closeSession(ctx, uid, sess)
	}
}

func (s *Service) closeSession(ctx context.Context, uid int64, sess *Session) {
	discarded, versions := sess.Close()
	s.logger.Info("report session closed",
		"report_id", sess.ReportID(),
		"user_id", uid,
		"discarded_edits", discarded,
		"versions", versions)
	s.publish(ctx, events.NewReportSessionClosedEvent(sess.ReportID(), uid, discarded, versions))
}

func (s *Service) UpdateContent(ctx context.Context, u *auth.User, content string) (View, error) {
	sess, err := s.session(u)
	if err != nil {
		return View{}, err
	}
	if err := sess.Edit(content); err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

// ApplyTemplate resolves a template against the session patient and replaces
// the whole document with it.
func (s *Service) ApplyTemplate(ctx context.Context, u *auth.User, templateID string) (View, error) {
	sess, err := s.session(u)
	if err != nil {
		return View{}, err
	}

	t, err := s.templates.Get(ctx, templateID)
	if err != nil {
		return View{}, err
	}

	body := s.resolver.Resolve(t.Content, sess.Patient().Name, s.now())
	if err := sess.ReplaceAll(body); err != nil {
		return View{}, err
	}

	s.logger.Info("template applied", "report_id", sess.ReportID(), "template_id", t.ID, "user_id", u.ID)
	return sess.View(), nil
}

func (s *Service) Format(ctx context.Context, u *auth.User, dto FormatDTO) (View, error) {
	sess, err := s.session(u)
	if err != nil {
		return View{}, err
	}
	if err := sess.ApplyFormatting(dto.Start, dto.End, dto.Style); err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

func (s *Service) ExamForm(ctx context.Context, u *auth.User) (ExamForm, error) {
	sess, err := s.session(u)
	if err != nil {
		return ExamForm{}, err
	}
	return sess.ExamForm(), nil
}

func (s *Service) UpdateExamForm(ctx context.Context, u *auth.User, form ExamForm) (ExamForm, error) {
	sess, err := s.session(u)
	if err != nil {
		return ExamForm{}, err
	}
	if err := sess.UpdateExamForm(form); err != nil {
		return ExamForm{}, err
	}
	return sess.ExamForm(), nil
}

func (s *Service) InsertExamEntry(ctx context.Context, u *auth.User, data ExamData) (View, error) {
	sess, err := s.session(u)
	if err != nil {
		return View{}, err
	}
	if err := sess.InsertExamEntry(data); err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

func (s *Service) SetSignature(ctx context.Context, u *auth.User, dto SignatureDTO) (View, error) {
	sess, err := s.session(u)
	if err != nil {
		return View{}, err
	}
	if err := sess.SetSignature(dto.Name, dto.Image); err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

func (s *Service) SaveVersion(ctx context.Context, u *auth.User) (Version, error) {
	sess, err := s.session(u)
	if err != nil {
		return Version{}, err
	}
	v, err := sess.Save()
	if err != nil {
		return Version{}, err
	}

	s.logger.Info("report version saved", "report_id", sess.ReportID(), "version_id", v.ID, "user_id", u.ID)
	s.publishSaved(ctx, u, sess, v)
	return v, nil
}

func (s *Service) publishSaved(ctx context.Context, u *auth.User, sess *Session, v Version) {
	p := sess.Patient()
	s.publish(ctx, events.NewReportVersionSavedEvent(sess.ReportID(), p.ID, p.Name, u.ID, v.ID, v.Content, v.AuthorName, v.Timestamp))
}

func (s *Service) Versions(ctx context.Context, u *auth.User) ([]Version, error) {
	sess, err := s.session(u)
	if err != nil {
		return nil, err
	}
	return sess.Versions(), nil
}

func (s *Service) Revert(ctx context.Context, u *auth.User, versionID string, confirm bool) (View, error) {
	sess, err := s.session(u)
	if err != nil {
		return View{}, err
	}
	v, err := sess.Revert(versionID, confirm)
	if err != nil {
		return View{}, err
	}

	s.logger.Info("report reverted", "report_id", sess.ReportID(), "version_id", v.ID, "user_id", u.ID)
	s.publish(ctx, events.NewReportRevertedEvent(sess.ReportID(), v.ID, u.ID))
	return sess.View(), nil
}

// Formalize sends the plain text of the report to the language model and
// replaces the content with its answer. The call runs without holding the
// session lock; a failure leaves the content as it was.
func (s *Service) Formalize(ctx context.Context, u *auth.User) (View, error) {
	sess, err := s.session(u)
	if err != nil {
		return View{}, err
	}
	if s.formalizer == nil {
		return View{}, internal.ErrFormalizeFailed.WithCause(formalizer.ErrNotConfigured)
	}

	content, err := sess.BeginFormalize()
	if err != nil {
		return View{}, err
	}

	formal, err := s.formalizer.Formalize(ctx, formalizer.PlainText(content))
	if err != nil {
		sess.AbortFormalize()
		s.logger.Error("formalization failed", "report_id", sess.ReportID(), "user_id", u.ID, "error", err)
		s.publish(ctx, events.NewReportFormalizedEvent(sess.ReportID(), u.ID, false, err.Error()))
		return View{}, internal.ErrFormalizeFailed.WithCause(err)
	}

	if err := sess.FinishFormalize(formal); err != nil {
		return View{}, err
	}

	s.publish(ctx, events.NewReportFormalizedEvent(sess.ReportID(), u.ID, true, ""))
	return sess.View(), nil
}

// SuggestDiagnosis never touches the session.
func (s *Service) SuggestDiagnosis(ctx context.Context, u *auth.User, symptoms string) (string, error) {
	if !auth.Authorize(u, auth.ActionWriteReport) {
		return "", internal.ErrAccessDenied
	}
	if strings.TrimSpace(symptoms) == "" {
		return "", internal.NewValidationFieldError("symptoms", "symptoms is required", internal.ErrCodeValidationFailed)
	}
	if s.formalizer == nil {
		return "", internal.ErrFormalizeFailed.WithCause(formalizer.ErrNotConfigured)
	}

	out, err := s.formalizer.SuggestDiagnosis(ctx, symptoms)
	if err != nil {
		s.logger.Error("diagnosis suggestion failed", "user_id", u.ID, "error", err)
		return "", internal.ErrFormalizeFailed.WithCause(err)
	}
	return out, nil
}

func (s *Service) Export(ctx context.Context, u *auth.User) (string, error) {
	sess, err := s.session(u)
	if err != nil {
		return "", err
	}

	doc, err := sess.Export(s.now())
	if err != nil {
		return "", err
	}

	name, image := sess.signature()
	s.publish(ctx, events.NewReportExportedEvent(sess.ReportID(), sess.Patient().ID, u.ID, name, image != ""))
	return doc, nil
}

func userID(u *auth.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}
