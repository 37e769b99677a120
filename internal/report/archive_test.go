package report_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/mediscript/internal/core/events"
	"github.com/frahmantamala/mediscript/internal/report"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeArchive struct {
	headers   []report.Header
	versions  []report.Version
	finalized []string
	err       error
}

func (f *fakeArchive) SaveVersion(ctx context.Context, header report.Header, v report.Version) error {
	if f.err != nil {
		return f.err
	}
	f.headers = append(f.headers, header)
	f.versions = append(f.versions, v)
	return nil
}

func (f *fakeArchive) MarkFinalized(ctx context.Context, reportID string, at time.Time) error {
	f.finalized = append(f.finalized, reportID)
	return f.err
}

var _ = Describe("ArchiveHandler", func() {
	var (
		archive *fakeArchive
		handler *report.ArchiveHandler
		saved   *events.ReportVersionSavedEvent
	)

	BeforeEach(func() {
		archive = &fakeArchive{}
		handler = report.NewArchiveHandler(archive, slog.New(slog.NewTextHandler(io.Discard, nil)))
		saved = events.NewReportVersionSavedEvent("r-1", 2, "Jane Smith", 7, "v-1", "<p>body</p>", "Dr. X", time.Now())
	})

	It("archives saved versions with a titled header", func() {
		Expect(handler.HandleVersionSaved(context.Background(), saved)).To(Succeed())
		Expect(archive.headers[0]).To(Equal(report.Header{ReportID: "r-1", PatientID: 2, AuthorID: 7, Title: "Medical Report: Jane Smith"}))
		Expect(archive.versions[0].ID).To(Equal("v-1"))
		Expect(archive.versions[0].AuthorName).To(Equal("Dr. X"))
	})

	It("wraps archive failures", func() {
		archive.err = errors.New("db down")
		err := handler.HandleVersionSaved(context.Background(), saved)
		Expect(err).To(MatchError(ContainSubstring("db down")))
	})

	It("rejects other event types", func() {
		other := events.NewReportRevertedEvent("r-1", "v-1", 7)
		Expect(handler.HandleVersionSaved(context.Background(), other)).NotTo(Succeed())
	})

	It("finalizes only signed exports", func() {
		Expect(handler.HandleExported(context.Background(), events.NewReportExportedEvent("r-1", 2, 7, "Dr. X", false))).To(Succeed())
		Expect(archive.finalized).To(BeEmpty())

		Expect(handler.HandleExported(context.Background(), events.NewReportExportedEvent("r-1", 2, 7, "Dr. X", true))).To(Succeed())
		Expect(archive.finalized).To(Equal([]string{"r-1"}))
	})

	It("receives events through the bus and leaves the session alone on failure", func() {
		bus := events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
		handler.RegisterEventHandlers(bus)
		report.NewAuditHandler(slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterEventHandlers(bus)
		archive.err = errors.New("db down")

		Expect(bus.Publish(context.Background(), saved)).To(Succeed())
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(bus.Drain(ctx)).To(Succeed())
		Expect(archive.versions).To(BeEmpty())
	})
})
