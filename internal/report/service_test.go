package report_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/auth"
	"github.com/frahmantamala/mediscript/internal/core/events"
	"github.com/frahmantamala/mediscript/internal/patient"
	"github.com/frahmantamala/mediscript/internal/report"
	"github.com/frahmantamala/mediscript/internal/reporttemplate"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubPatients struct{}

func (stubPatients) Get(ctx context.Context, id int64) (*patient.Patient, error) {
	if id != 2 {
		return nil, internal.ErrPatientNotFound
	}
	return &patient.Patient{ID: 2, PatientID: "P-10045", Name: "Jane Smith"}, nil
}

type stubTemplates struct{}

func (stubTemplates) Get(ctx context.Context, id string) (*reporttemplate.Template, error) {
	if id != "t1" {
		return nil, internal.ErrTemplateNotFound
	}
	return &reporttemplate.Template{
		ID:       "t1",
		Title:    "General Physical Exam",
		Category: reporttemplate.CategoryGeneral,
		Content:  "<p><strong>Patient Name:</strong> [PATIENT_NAME]</p><p><strong>Date of Exam:</strong> [DATE]</p>",
	}, nil
}

type fakeFormalizer struct {
	out     string
	err     error
	gotText string
	block   chan struct{}
	started chan struct{}
}

func (f *fakeFormalizer) Formalize(ctx context.Context, notes string) (string, error) {
	f.gotText = notes
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return f.out, f.err
}

func (f *fakeFormalizer) SuggestDiagnosis(ctx context.Context, symptoms string) (string, error) {
	return "<p>Differential: influenza</p>", f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

var _ = Describe("Report Service", func() {
	var (
		service   *report.Service
		store     *report.SessionStore
		fz        *fakeFormalizer
		pub       *recordingPublisher
		medic     *auth.User
		secretary *auth.User
		ctx       context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		store = report.NewSessionStore()
		fz = &fakeFormalizer{out: "<h2>Formal report</h2>"}
		pub = &recordingPublisher{}
		service = report.NewService(store, stubPatients{}, stubTemplates{}, fz, pub, report.Config{
			Now: tickingClock(time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC)),
		}, logger)

		medic = &auth.User{ID: 7, Name: "Dr. X", Role: auth.RoleMedic, Permissions: auth.DefaultPermissions(auth.RoleMedic)}
		secretary = &auth.User{ID: 8, Name: "Sarah Secretary", Role: auth.RoleSecretary, Permissions: auth.DefaultPermissions(auth.RoleSecretary)}
		ctx = context.Background()
	})

	Describe("Open", func() {
		It("opens Jane Smith's report for Dr. X", func() {
			view, err := service.Open(ctx, medic, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Content).To(HavePrefix("<h1>Medical Report: Jane Smith</h1><p>Patient ID: P-10045</p>"))
			Expect(view.SignerName).To(Equal("Dr. X"))
			Expect(view.VersionCount).To(Equal(1))
			Expect(pub.types()).To(Equal([]string{events.EventTypeReportSessionOpened, events.EventTypeReportVersionSaved}))
		})

		It("denies users without write-report", func() {
			_, err := service.Open(ctx, secretary, 2)
			Expect(errors.Is(err, internal.ErrAccessDenied)).To(BeTrue())
			Expect(store.Len()).To(Equal(0))
		})

		It("denies an admin whose write-report flag is off", func() {
			admin := &auth.User{ID: 1, Role: auth.RoleAdmin, Permissions: auth.Permissions{CanManageStaff: true}}
			_, err := service.Open(ctx, admin, 2)
			Expect(errors.Is(err, internal.ErrAccessDenied)).To(BeTrue())
		})

		It("propagates unknown patients", func() {
			_, err := service.Open(ctx, medic, 99)
			Expect(errors.Is(err, internal.ErrPatientNotFound)).To(BeTrue())
		})

		It("closes the previous session when reopening", func() {
			_, err := service.Open(ctx, medic, 2)
			Expect(err).NotTo(HaveOccurred())
			first, _ := store.Get(medic.ID)

			_, err = service.Open(ctx, medic, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Closed()).To(BeTrue())
			Expect(pub.types()).To(ContainElement(events.EventTypeReportSessionClosed))
		})
	})

	Context("with an open session", func() {
		BeforeEach(func() {
			_, err := service.Open(ctx, medic, 2)
			Expect(err).NotTo(HaveOccurred())
		})

		It("applies a template by replacing the whole content", func() {
			_, err := service.UpdateContent(ctx, medic, "<p>old text</p>")
			Expect(err).NotTo(HaveOccurred())

			view, err := service.ApplyTemplate(ctx, medic, "t1")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Content).To(MatchRegexp(`^<p><strong>Patient Name:</strong> Jane Smith</p><p><strong>Date of Exam:</strong> \d+/\d+/2024</p>$`))
			Expect(view.Content).NotTo(ContainSubstring("old text"))
			Expect(view.Content).NotTo(ContainSubstring("[PATIENT_NAME]"))
			Expect(view.Content).NotTo(ContainSubstring("[DATE]"))
		})

		It("returns not found for unknown templates and keeps content", func() {
			before, _ := service.Current(ctx, medic)
			_, err := service.ApplyTemplate(ctx, medic, "t9")
			Expect(errors.Is(err, internal.ErrTemplateNotFound)).To(BeTrue())
			after, _ := service.Current(ctx, medic)
			Expect(after.Content).To(Equal(before.Content))
		})

		It("saves twice and reverts to the middle version", func() {
			_, _ = service.UpdateContent(ctx, medic, "<p>v2</p>")
			_, err := service.SaveVersion(ctx, medic)
			Expect(err).NotTo(HaveOccurred())
			_, _ = service.UpdateContent(ctx, medic, "<p>v3</p>")
			_, err = service.SaveVersion(ctx, medic)
			Expect(err).NotTo(HaveOccurred())

			versions, err := service.Versions(ctx, medic)
			Expect(err).NotTo(HaveOccurred())
			Expect(versions).To(HaveLen(3))

			view, err := service.Revert(ctx, medic, versions[1].ID, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Content).To(Equal("<p>v2</p>"))
			Expect(view.VersionCount).To(Equal(3))
			Expect(pub.types()).To(ContainElement(events.EventTypeReportReverted))
		})

		It("refuses an unconfirmed revert", func() {
			versions, _ := service.Versions(ctx, medic)
			_, err := service.Revert(ctx, medic, versions[0].ID, false)
			Expect(errors.Is(err, internal.ErrRevertNotConfirmed)).To(BeTrue())
		})

		It("formalizes the plain text of the report", func() {
			view, err := service.Formalize(ctx, medic)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Content).To(Equal("<h2>Formal report</h2>"))
			Expect(fz.gotText).To(HavePrefix("Medical Report: Jane Smith\nPatient ID: P-10045"))
			Expect(view.Formalizing).To(BeFalse())
		})

		It("keeps content and clears the pending flag when formalization fails", func() {
			before, _ := service.Current(ctx, medic)
			fz.err = errors.New("upstream timeout")

			_, err := service.Formalize(ctx, medic)
			Expect(errors.Is(err, internal.ErrFormalizeFailed)).To(BeTrue())

			after, _ := service.Current(ctx, medic)
			Expect(after.Content).To(Equal(before.Content))
			Expect(after.Formalizing).To(BeFalse())
		})

		It("rejects a second formalization while one is pending", func() {
			fz.block = make(chan struct{})
			fz.started = make(chan struct{})

			done := make(chan error, 1)
			go func() {
				_, err := service.Formalize(ctx, medic)
				done <- err
			}()
			Eventually(fz.started).Should(BeClosed())

			_, err := service.Formalize(ctx, medic)
			Expect(errors.Is(err, internal.ErrFormalizeInProgress)).To(BeTrue())

			close(fz.block)
			Eventually(done).Should(Receive(BeNil()))
		})

		It("suggests diagnoses without touching the session", func() {
			before, _ := service.Current(ctx, medic)
			out, err := service.SuggestDiagnosis(ctx, medic, "fever, cough")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("influenza"))
			after, _ := service.Current(ctx, medic)
			Expect(after).To(Equal(before))
		})

		It("inserts exam entries through the session", func() {
			view, err := service.InsertExamEntry(ctx, medic, report.ExamData{Diagnosis: "Migraine"})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Content).To(ContainSubstring("Primary Diagnosis:</strong> Migraine"))
			Expect(view.HasUnsavedChanges).To(BeTrue())
		})

		It("exports and publishes whether the report was signed", func() {
			doc, err := service.Export(ctx, medic)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc).To(ContainSubstring("Medical Signature"))

			last := pub.events[len(pub.events)-1].(*events.ReportExportedEvent)
			Expect(last.Signed).To(BeFalse())
			Expect(last.SignerName).To(Equal("Dr. X"))
		})

		It("denies the session to a medic whose permission was revoked", func() {
			medic.Permissions.CanWriteReports = false
			_, err := service.Current(ctx, medic)
			Expect(errors.Is(err, internal.ErrAccessDenied)).To(BeTrue())
		})

		It("closes on logout", func() {
			service.CloseForUser(ctx, medic.ID)
			_, err := service.Current(ctx, medic)
			Expect(errors.Is(err, internal.ErrNoActiveSession)).To(BeTrue())
		})
	})

	It("reports no active session", func() {
		_, err := service.SaveVersion(ctx, medic)
		Expect(errors.Is(err, internal.ErrNoActiveSession)).To(BeTrue())
		Expect(errors.Is(service.Close(ctx, medic), internal.ErrNoActiveSession)).To(BeTrue())
	})
})
