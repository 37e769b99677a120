package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/transport"
)

type PermissionAuthorizer interface {
	Allowed(ctx context.Context, u *User, action Action) (bool, error)
}

type RBACAuthorization struct {
	*transport.BaseHandler
	authorizer PermissionAuthorizer
	logger     *slog.Logger
}

func NewRBACAuthorization(authorizer PermissionAuthorizer, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		authorizer:  authorizer,
		logger:      logger,
	}
}

// Require rejects requests whose user may not perform action.
func (ra *RBACAuthorization) Require(action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				ra.logger.Warn("authorization check failed: user not found in context")
				ra.HandleServiceError(w, internal.NewUnauthorizedError("Authentication required", internal.ErrCodeInvalidToken))
				return
			}

			allowed, err := ra.authorizer.Allowed(r.Context(), user, action)
			if err != nil {
				ra.logger.ErrorContext(r.Context(), "authorization check failed", "error", err, "user_id", user.ID, "action", action)
				ra.HandleServiceError(w, internal.NewInternalError("authorization check failed", err))
				return
			}

			if !allowed {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", user.ID,
					"role", user.Role,
					"action", action)
				ra.HandleServiceError(w, internal.ErrAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireWriteReport() func(http.Handler) http.Handler {
	return ra.Require(ActionWriteReport)
}

func (ra *RBACAuthorization) RequireManageTemplates() func(http.Handler) http.Handler {
	return ra.Require(ActionManageTemplates)
}

func (ra *RBACAuthorization) RequireManageStaff() func(http.Handler) http.Handler {
	return ra.Require(ActionManageStaff)
}

func (ra *RBACAuthorization) RequireManagePatients() func(http.Handler) http.Handler {
	return ra.Require(ActionManagePatients)
}
