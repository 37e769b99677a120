package auth

// Action is a capability the gate can be asked about.
type Action string

const (
	ActionWriteReport     Action = "write-report"
	ActionManageTemplates Action = "manage-templates"
	ActionManageStaff     Action = "manage-staff"
	ActionManagePatients  Action = "manage-patients"
)

func (a Action) Valid() bool {
	switch a {
	case ActionWriteReport, ActionManageTemplates, ActionManageStaff, ActionManagePatients:
		return true
	}
	return false
}

// Authorize decides whether u may perform a. Admins always pass staff and
// template management; every other answer comes from the permission set,
// never from the role alone. A nil user or unknown action is denied.
func Authorize(u *User, a Action) bool {
	if u == nil {
		return false
	}

	switch a {
	case ActionWriteReport:
		return u.Permissions.CanWriteReports
	case ActionManageTemplates:
		return u.IsAdmin() || u.Permissions.CanManageTemplates
	case ActionManageStaff:
		return u.IsAdmin() || u.Permissions.CanManageStaff
	case ActionManagePatients:
		return u.Permissions.CanManagePatients
	default:
		return false
	}
}

type NavItem string

const (
	NavPatients   NavItem = "patients"
	NavEditor     NavItem = "editor"
	NavAdminPanel NavItem = "admin"
)

// Navigation is the role-keyed menu shown to a user. It is a display hint
// only; access decisions go through Authorize.
func Navigation(u *User) []NavItem {
	if u == nil {
		return nil
	}
	items := []NavItem{NavPatients, NavEditor}
	if u.Role == RoleAdmin {
		items = append(items, NavAdminPanel)
	}
	return items
}
