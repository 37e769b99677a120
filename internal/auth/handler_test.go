package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/mediscript/internal/transport"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

type failingAuthorizer struct{}

func (failingAuthorizer) Allowed(context.Context, *User, Action) (bool, error) {
	return false, errors.New("permission store down")
}

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		handler *Handler
		service *Service
		rbac    *RBACAuthorization
	)

	ginkgo.BeforeEach(func() {
		tokenGen := NewJWTTokenGenerator("handler-access-secret", "handler-refresh-secret", time.Minute, time.Hour)
		service = NewService(newMockUserRepository(), tokenGen, bcrypt.MinCost, testLogger())
		handler = NewHandler(transport.NewBaseHandler(testLogger()), service)
		rbac = NewRBACAuthorization(NewPermissionChecker(), testLogger())
	})

	login := func(email string) string {
		body, _ := json.Marshal(LoginDTO{Email: email, Password: "correct_password"})
		rec := httptest.NewRecorder()
		handler.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

		var tokens AuthTokens
		gomega.Expect(json.NewDecoder(rec.Body).Decode(&tokens)).To(gomega.Succeed())
		return tokens.AccessToken
	}

	ginkgo.It("rejects bad credentials with 401", func() {
		body, _ := json.Marshal(LoginDTO{Email: "medic@mediscript.com", Password: "nope"})
		rec := httptest.NewRecorder()
		handler.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("puts the authenticated user into the request context", func() {
		token := login("medic@mediscript.com")

		var seen *User
		protected := handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = UserFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(seen).NotTo(gomega.BeNil())
		gomega.Expect(seen.Name).To(gomega.Equal("Dr. Gregory House"))
	})

	ginkgo.It("rejects requests without a bearer token", func() {
		protected := handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("returns 403 when the gate denies the action", func() {
		token := login("secretary@mediscript.com")
		chain := handler.AuthMiddleware(rbac.RequireWriteReport()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

		req := httptest.NewRequest(http.MethodPost, "/reports/session", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(rec.Header().Get("Content-Type")).To(gomega.HavePrefix("application/json"))

		var body struct {
			Error struct {
				Type string `json:"type"`
				Code string `json:"code"`
			} `json:"error"`
		}
		gomega.Expect(json.NewDecoder(rec.Body).Decode(&body)).To(gomega.Succeed())
		gomega.Expect(body.Error.Code).To(gomega.Equal("ACCESS_DENIED"))
	})

	ginkgo.It("answers 401 with an error envelope when no user reached the gate", func() {
		guarded := rbac.RequireWriteReport()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/session", nil))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(rec.Header().Get("Content-Type")).To(gomega.HavePrefix("application/json"))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"code":"INVALID_TOKEN"`))
	})

	ginkgo.It("hides authorizer failures behind an internal error", func() {
		failing := NewRBACAuthorization(failingAuthorizer{}, testLogger())
		guarded := failing.RequireManageStaff()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/staff", nil)
		req = req.WithContext(ContextWithUser(req.Context(), &User{ID: 1, Role: RoleAdmin}))
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"code":"INTERNAL_ERROR"`))
		gomega.Expect(rec.Body.String()).NotTo(gomega.ContainSubstring("permission store down"))
	})

	ginkgo.It("lets admins through template management", func() {
		token := login("admin@mediscript.com")
		chain := handler.AuthMiddleware(rbac.RequireManageTemplates()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

		req := httptest.NewRequest(http.MethodPost, "/templates", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("runs logout hooks for the token owner", func() {
		token := login("medic@mediscript.com")
		var loggedOut int64
		handler.OnLogout(func(ctx context.Context, userID int64) { loggedOut = userID })

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.Logout(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
		gomega.Expect(loggedOut).To(gomega.Equal(int64(1)))
	})

	ginkgo.It("maps signup validation errors to 400", func() {
		body, _ := json.Marshal(SignupDTO{Name: "N", Email: "n@mediscript.com", Password: "abcdefgh", ConfirmPassword: "abcdefgX"})
		rec := httptest.NewRecorder()
		handler.Signup(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body)))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("PASSWORD_MISMATCH"))
	})
})
