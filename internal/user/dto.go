package user

import "github.com/frahmantamala/mediscript/internal/auth"

// UpdatePermissionsDTO toggles individual flags; nil leaves a flag unchanged.
type UpdatePermissionsDTO struct {
	CanManageTemplates *bool `json:"canManageTemplates,omitempty"`
	CanManageStaff     *bool `json:"canManageStaff,omitempty"`
	CanWriteReports    *bool `json:"canWriteReports,omitempty"`
	CanManagePatients  *bool `json:"canManagePatients,omitempty"`
}

func (d UpdatePermissionsDTO) Empty() bool {
	return d.CanManageTemplates == nil && d.CanManageStaff == nil && d.CanWriteReports == nil && d.CanManagePatients == nil
}

func (d UpdatePermissionsDTO) Apply(p auth.Permissions) auth.Permissions {
	if d.CanManageTemplates != nil {
		p.CanManageTemplates = *d.CanManageTemplates
	}
	if d.CanManageStaff != nil {
		p.CanManageStaff = *d.CanManageStaff
	}
	if d.CanWriteReports != nil {
		p.CanWriteReports = *d.CanWriteReports
	}
	if d.CanManagePatients != nil {
		p.CanManagePatients = *d.CanManagePatients
	}
	return p
}

type StaffResponse struct {
	Staff []*StaffMember `json:"staff"`
}
