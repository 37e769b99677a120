package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/auth"
	userDatamodel "github.com/frahmantamala/mediscript/internal/core/datamodel/user"
)

type Repository interface {
	GetByID(ctx context.Context, userID int64) (*userDatamodel.User, error)
	List(ctx context.Context) ([]*userDatamodel.User, error)
	UpdatePermissions(ctx context.Context, userID int64, set userDatamodel.PermissionSet) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Me returns the caller with the navigation their role sees.
func (s *Service) Me(ctx context.Context, u *auth.User) *auth.CurrentUserResponse {
	return &auth.CurrentUserResponse{
		User:       u,
		Navigation: auth.Navigation(u),
	}
}

func (s *Service) List(ctx context.Context, u *auth.User) ([]*StaffMember, error) {
	if !auth.Authorize(u, auth.ActionManageStaff) {
		return nil, internal.ErrAccessDenied
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list staff", "error", err)
		return nil, internal.NewInternalError("failed to list staff", err)
	}

	staff := make([]*StaffMember, 0, len(rows))
	for _, row := range rows {
		m, err := FromDataModel(row)
		if err != nil {
			s.logger.Error("skipping staff member with unreadable permissions", "user_id", row.ID, "error", err)
			continue
		}
		staff = append(staff, m)
	}
	return staff, nil
}

// UpdatePermissions edits flags one by one; the role is never changed.
func (s *Service) UpdatePermissions(ctx context.Context, u *auth.User, staffID int64, dto UpdatePermissionsDTO) (*StaffMember, error) {
	if !auth.Authorize(u, auth.ActionManageStaff) {
		return nil, internal.ErrAccessDenied
	}
	if dto.Empty() {
		return nil, internal.NewValidationError("at least one permission must be provided", internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(ctx, staffID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load staff member", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	member, err := FromDataModel(row)
	if err != nil {
		return nil, internal.NewInternalError("failed to read permissions", err)
	}

	member.Permissions = dto.Apply(member.Permissions)
	if err := s.repo.UpdatePermissions(ctx, staffID, toPermissionSet(member.Permissions)); err != nil {
		s.logger.Error("failed to update permissions", "staff_id", staffID, "error", err)
		return nil, internal.NewInternalError("failed to update permissions", err)
	}

	s.logger.Info("staff permissions updated",
		"staff_id", staffID,
		"by_user_id", u.ID,
		"permissions", member.Permissions)
	return member, nil
}
