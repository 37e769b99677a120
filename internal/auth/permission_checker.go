package auth

import "context"

type PermissionChecker interface {
	CanWriteReports(u *User) bool
	CanManageTemplates(u *User) bool
	CanManageStaff(u *User) bool
	CanManagePatients(u *User) bool
	Allowed(ctx context.Context, u *User, action Action) (bool, error)
}

// DefaultPermissionChecker answers from the in-memory user; the
// context-aware variant exists so a remote policy store can be swapped in.
type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) Allowed(_ context.Context, u *User, action Action) (bool, error) {
	return Authorize(u, action), nil
}

func (c *DefaultPermissionChecker) CanWriteReports(u *User) bool {
	return Authorize(u, ActionWriteReport)
}

func (c *DefaultPermissionChecker) CanManageTemplates(u *User) bool {
	return Authorize(u, ActionManageTemplates)
}

func (c *DefaultPermissionChecker) CanManageStaff(u *User) bool {
	return Authorize(u, ActionManageStaff)
}

func (c *DefaultPermissionChecker) CanManagePatients(u *User) bool {
	return Authorize(u, ActionManagePatients)
}
