package user

import (
	"time"

	"github.com/frahmantamala/mediscript/internal/auth"
	userDatamodel "github.com/frahmantamala/mediscript/internal/core/datamodel/user"
)

// StaffMember is a user as seen from the admin panel.
type StaffMember struct {
	ID          int64            `json:"id"`
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	Role        auth.Role        `json:"role"`
	Permissions auth.Permissions `json:"permissions"`
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (m *StaffMember) IsActiveUser() bool {
	return m.IsActive
}

func FromDataModel(row *userDatamodel.User) (*StaffMember, error) {
	set, err := row.DecodePermissions()
	if err != nil {
		return nil, err
	}
	return &StaffMember{
		ID:    row.ID,
		Email: row.Email,
		Name:  row.Name,
		Role:  auth.Role(row.Role),
		Permissions: auth.Permissions{
			CanManageTemplates: set.CanManageTemplates,
			CanManageStaff:     set.CanManageStaff,
			CanWriteReports:    set.CanWriteReports,
			CanManagePatients:  set.CanManagePatients,
		},
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func toPermissionSet(p auth.Permissions) userDatamodel.PermissionSet {
	return userDatamodel.PermissionSet{
		CanManageTemplates: p.CanManageTemplates,
		CanManageStaff:     p.CanManageStaff,
		CanWriteReports:    p.CanWriteReports,
		CanManagePatients:  p.CanManagePatients,
	}
}
