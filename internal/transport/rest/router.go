package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/auth"
	"github.com/frahmantamala/mediscript/internal/patient"
	"github.com/frahmantamala/mediscript/internal/report"
	"github.com/frahmantamala/mediscript/internal/reporttemplate"
	"github.com/frahmantamala/mediscript/internal/transport/middleware"
	"github.com/frahmantamala/mediscript/internal/transport/swagger"
	"github.com/frahmantamala/mediscript/internal/user"
	"github.com/go-chi/chi"
)

// Handlers groups everything the router mounts. Nil handlers are skipped so
// tests can register a partial API.
type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	User       *user.Handler
	Patient    *patient.Handler
	Template   *reporttemplate.Handler
	Report     *report.Handler
	RBAC       *auth.RBACAuthorization
	OpenAPIDoc []byte
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, cfg internal.ServerConfig, logger *slog.Logger) {
	healthHandler := h.Health
	if healthHandler == nil {
		healthHandler = NewHealthHandler(nil)
	}

	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if h.OpenAPIDoc != nil {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(h.OpenAPIDoc)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/signup", h.Auth.Signup)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)

				pr.Group(func(sr chi.Router) {
					sr.Use(h.RBAC.RequireManageStaff())
					sr.Get("/staff", h.User.ListStaff)
					sr.Patch("/staff/{id}/permissions", h.User.UpdatePermissions)
				})
			}

			if h.Patient != nil {
				pr.Group(func(dr chi.Router) {
					dr.Use(h.RBAC.RequireManagePatients())
					dr.Get("/patients", h.Patient.ListPatients)
					dr.Get("/patients/{id}", h.Patient.GetPatient)
				})
			}

			if h.Template != nil {
				pr.Route("/templates", func(tr chi.Router) {
					tr.Get("/", h.Template.ListTemplates)
					tr.Get("/{id}", h.Template.GetTemplate)

					tr.Group(func(mr chi.Router) {
						mr.Use(h.RBAC.RequireManageTemplates())
						mr.Post("/", h.Template.CreateTemplate)
						mr.Put("/{id}", h.Template.UpdateTemplate)
						mr.Delete("/{id}", h.Template.DeleteTemplate)
					})
				})
			}

			if h.Report != nil {
				pr.Route("/reports/session", func(rr chi.Router) {
					rr.Use(h.RBAC.RequireWriteReport())

					rr.Post("/", h.Report.OpenSession)
					rr.Get("/", h.Report.GetSession)
					rr.Delete("/", h.Report.CloseSession)
					rr.Put("/content", h.Report.UpdateContent)
					rr.Post("/template", h.Report.ApplyTemplate)
					rr.Post("/format", h.Report.Format)
					rr.Get("/exam-form", h.Report.GetExamForm)
					rr.Put("/exam-form", h.Report.UpdateExamForm)
					rr.Post("/exam-entries", h.Report.InsertExamEntry)
					rr.Put("/signature", h.Report.SetSignature)
					rr.Post("/versions", h.Report.SaveVersion)
					rr.Get("/versions", h.Report.ListVersions)
					rr.Post("/versions/{versionID}/revert", h.Report.RevertVersion)
					rr.Post("/formalize", h.Report.Formalize)
					rr.Post("/suggest-diagnosis", h.Report.SuggestDiagnosis)
					rr.Get("/export", h.Report.Export)
				})
			}
		})
	})
}
