package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/auth"
	"github.com/frahmantamala/mediscript/internal/reporttemplate"
	"github.com/frahmantamala/mediscript/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Suite")
}

// tokenAuth treats the bearer token as a role name.
type tokenAuth struct{}

var staffByToken = map[string]*auth.User{
	"admin":     {ID: 1, Name: "Dr. Sarah Smith", Role: auth.RoleAdmin, Permissions: auth.DefaultPermissions(auth.RoleAdmin)},
	"medic":     {ID: 2, Name: "Dr. James Wilson", Role: auth.RoleMedic, Permissions: auth.DefaultPermissions(auth.RoleMedic)},
	"secretary": {ID: 3, Name: "Emily Blunt", Role: auth.RoleSecretary, Permissions: auth.DefaultPermissions(auth.RoleSecretary)},
}

func (tokenAuth) Authenticate(auth.LoginDTO) (auth.AuthTokens, error) {
	return auth.AuthTokens{}, errors.New("not used")
}

func (tokenAuth) RefreshTokens(string) (auth.AuthTokens, error) {
	return auth.AuthTokens{}, errors.New("not used")
}

func (tokenAuth) ValidateAccessToken(token string) (*auth.Claims, error) {
	u, ok := staffByToken[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &auth.Claims{UserID: strconv.FormatInt(u.ID, 10), Email: u.Email, TokenType: "access"}, nil
}

func (tokenAuth) GetUserWithPermissions(id int64) (*auth.User, error) {
	for _, u := range staffByToken {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (tokenAuth) Signup(auth.SignupDTO) (*auth.User, error) {
	return nil, errors.New("not used")
}

type stubTemplates struct {
	created int
}

func (s *stubTemplates) List(context.Context) ([]*reporttemplate.Template, error) {
	return []*reporttemplate.Template{{ID: "t1", Title: "General Checkup", Category: reporttemplate.CategoryGeneral}}, nil
}

func (s *stubTemplates) ListGrouped(context.Context) ([]reporttemplate.CategoryGroup, error) {
	return nil, nil
}

func (s *stubTemplates) Get(_ context.Context, id string) (*reporttemplate.Template, error) {
	return nil, internal.ErrTemplateNotFound
}

func (s *stubTemplates) Create(_ context.Context, _ *auth.User, dto reporttemplate.CreateTemplateDTO) (*reporttemplate.Template, error) {
	s.created++
	return &reporttemplate.Template{ID: "t9", Title: dto.Title, Category: dto.Category, Content: dto.Content}, nil
}

func (s *stubTemplates) Update(context.Context, *auth.User, string, reporttemplate.UpdateTemplateDTO) (*reporttemplate.Template, error) {
	return nil, internal.ErrTemplateNotFound
}

func (s *stubTemplates) Delete(context.Context, *auth.User, string) error {
	return internal.ErrTemplateNotFound
}

var _ = Describe("RegisterAllRoutes", func() {
	var (
		router    *chi.Mux
		templates *stubTemplates
	)

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		base := transport.NewBaseHandler(lg)
		templates = &stubTemplates{}

		router = chi.NewRouter()
		RegisterAllRoutes(router, Handlers{
			Auth:       auth.NewHandler(base, tokenAuth{}),
			Template:   reporttemplate.NewHandler(base, templates),
			RBAC:       auth.NewRBACAuthorization(auth.NewPermissionChecker(), lg),
			OpenAPIDoc: []byte("openapi: 3.0.3\n"),
		}, internal.ServerConfig{AllowedOrigins: "*"}, lg)
	})

	serve := func(method, path, token, body string) *httptest.ResponseRecorder {
		var rd io.Reader
		if body != "" {
			rd = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, rd)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("serves the liveness probe without a token", func() {
		rec := serve(http.MethodGet, "/api/v1/ping", "", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("OK"))
	})

	It("serves the OpenAPI document", func() {
		rec := serve(http.MethodGet, "/openapi.yml", "", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("openapi:"))
	})

	It("rejects protected routes without a token", func() {
		rec := serve(http.MethodGet, "/api/v1/templates", "", "")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("lets any authenticated user read templates", func() {
		rec := serve(http.MethodGet, "/api/v1/templates", "secretary", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("General Checkup"))
	})

	It("forbids template writes without manage-templates", func() {
		body := `{"title":"Cardio","category":"Specialty","content":"<p>x</p>"}`
		rec := serve(http.MethodPost, "/api/v1/templates", "medic", body)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(rec.Header().Get("Content-Type")).To(HavePrefix("application/json"))
		Expect(rec.Body.String()).To(ContainSubstring(`"code":"ACCESS_DENIED"`))
		Expect(templates.created).To(BeZero())
	})

	It("allows template writes for admins", func() {
		body := `{"title":"Cardio","category":"Specialty","content":"<p>x</p>"}`
		rec := serve(http.MethodPost, "/api/v1/templates", "admin", body)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(templates.created).To(Equal(1))
	})

	It("does not mount handlers that were not provided", func() {
		rec := serve(http.MethodGet, "/api/v1/patients", "admin", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})
})

var _ = Describe("HealthHandler", func() {
	It("reports healthy when there are no failing checks", func() {
		h := NewHealthHandler(nil)
		h.AddCheck("formalizer", func(context.Context) (map[string]any, error) {
			return map[string]any{"enabled": false}, nil
		})

		rec := httptest.NewRecorder()
		h.healthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Status).To(Equal(HealthHealthy))
		Expect(resp.Components).To(HaveKey("formalizer"))
	})

	It("answers 503 when any component fails", func() {
		h := NewHealthHandler(nil)
		h.AddCheck("postgres", func(context.Context) (map[string]any, error) {
			return nil, errors.New("connection refused")
		})

		rec := httptest.NewRecorder()
		h.healthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(rec.Body.String()).To(ContainSubstring("connection refused"))
	})
})
