package report_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/mediscript/internal/auth"
	"github.com/frahmantamala/mediscript/internal/report"
	"github.com/frahmantamala/mediscript/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Report Handler", func() {
	var (
		router chi.Router
		caller *auth.User
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := report.NewService(report.NewSessionStore(), stubPatients{}, stubTemplates{}, &fakeFormalizer{err: context.DeadlineExceeded}, nil, report.Config{
			Now: tickingClock(time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC)),
		}, logger)
		h := report.NewHandler(transport.NewBaseHandler(logger), service)
		caller = &auth.User{ID: 7, Name: "Dr. X", Role: auth.RoleMedic, Permissions: auth.DefaultPermissions(auth.RoleMedic)}

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), caller)))
			})
		})
		router.Route("/reports/session", func(r chi.Router) {
			r.Post("/", h.OpenSession)
			r.Get("/", h.GetSession)
			r.Delete("/", h.CloseSession)
			r.Put("/content", h.UpdateContent)
			r.Post("/versions", h.SaveVersion)
			r.Get("/versions", h.ListVersions)
			r.Post("/versions/{versionID}/revert", h.RevertVersion)
			r.Post("/formalize", h.Formalize)
			r.Get("/export", h.Export)
		})
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var rdr io.Reader
		if body != "" {
			rdr = strings.NewReader(body)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, rdr))
		return rec
	}

	It("walks a report through edit, save, revert and export", func() {
		rec := do(http.MethodPost, "/reports/session/", `{"patient_id":2}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec = do(http.MethodPut, "/reports/session/content", `{"content":"<p>edited</p>"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"has_unsaved_changes":true`))

		rec = do(http.MethodPost, "/reports/session/versions", "")
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec = do(http.MethodGet, "/reports/session/versions", "")
		var versions report.VersionsResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &versions)).To(Succeed())
		Expect(versions.Versions).To(HaveLen(2))

		rec = do(http.MethodPost, "/reports/session/versions/"+versions.Versions[1].ID+"/revert", `{"confirm":false}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("REVERT_NOT_CONFIRMED"))

		rec = do(http.MethodPost, "/reports/session/versions/"+versions.Versions[1].ID+"/revert", `{"confirm":true}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("Medical Report: Jane Smith"))

		rec = do(http.MethodGet, "/reports/session/export", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/html"))
		Expect(rec.Body.String()).To(ContainSubstring("Digital Signature Placeholder"))
	})

	It("answers 403 to a secretary", func() {
		caller = &auth.User{ID: 8, Role: auth.RoleSecretary, Permissions: auth.DefaultPermissions(auth.RoleSecretary)}
		rec := do(http.MethodPost, "/reports/session/", `{"patient_id":2}`)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("answers 404 when no session is open", func() {
		rec := do(http.MethodGet, "/reports/session/", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(rec.Body.String()).To(ContainSubstring("NO_ACTIVE_SESSION"))
	})

	It("answers 502 when the formalizer fails", func() {
		Expect(do(http.MethodPost, "/reports/session/", `{"patient_id":2}`).Code).To(Equal(http.StatusCreated))
		rec := do(http.MethodPost, "/reports/session/formalize", "")
		Expect(rec.Code).To(Equal(http.StatusBadGateway))
		Expect(rec.Body.String()).To(ContainSubstring("FORMALIZE_FAILED"))
	})

	It("requires a patient id", func() {
		rec := do(http.MethodPost, "/reports/session/", `{}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("closes the session", func() {
		Expect(do(http.MethodPost, "/reports/session/", `{"patient_id":2}`).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodDelete, "/reports/session/", "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodGet, "/reports/session/", "").Code).To(Equal(http.StatusNotFound))
	})
})
