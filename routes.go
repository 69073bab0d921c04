package sessionkit

import "strings"

// Dashboard identifies which dashboard entry a signed-in user lands on.
type Dashboard uint8

const (
	// DashboardAdmin is the default company-admin view and the fallback for
	// unrecognized roles.
	DashboardAdmin Dashboard = iota
	// DashboardSaaSSuperAdmin is an exported constant or variable used by the session engine.
	DashboardSaaSSuperAdmin
	// DashboardHOD is an exported constant or variable used by the session engine.
	DashboardHOD
	// DashboardManager is an exported constant or variable used by the session engine.
	DashboardManager
	// DashboardMember is an exported constant or variable used by the session engine.
	DashboardMember
	// DashboardHR is an exported constant or variable used by the session engine.
	DashboardHR
	// DashboardHRManager is an exported constant or variable used by the session engine.
	DashboardHRManager
)

// String describes the string operation and its observable behavior.
//
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d Dashboard) String() string {
	switch d {
	case DashboardAdmin:
		return "admin"
	case DashboardSaaSSuperAdmin:
		return "saas_super_admin"
	case DashboardHOD:
		return "hod"
	case DashboardManager:
		return "manager"
	case DashboardMember:
		return "member"
	case DashboardHR:
		return "hr"
	case DashboardHRManager:
		return "hr_manager"
	default:
		return "unknown"
	}
}

// DashboardRouter maps a role and email to a dashboard entry. The decision is
// an explicit precedence table, first match wins, not a permission engine.
type DashboardRouter struct {
	OwnerEmail string
}

// Route describes the route operation and its observable behavior.
//
// Route does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r DashboardRouter) Route(role Role, email string) Dashboard {
	switch {
	case role == RoleSuperAdmin && r.OwnerEmail != "" && strings.EqualFold(email, r.OwnerEmail):
		return DashboardSaaSSuperAdmin
	case role == RoleAdmin || role == RoleSuperAdmin:
		return DashboardAdmin
	case role == RoleDepartmentHead:
		return DashboardHOD
	case role == RoleManager:
		return DashboardManager
	case role == RoleMember:
		return DashboardMember
	case role == RoleHR:
		return DashboardHR
	case role == RoleHRManager:
		return DashboardHRManager
	default:
		// Unrecognized roles get the default admin view. Deliberate, not an
		// error path.
		return DashboardAdmin
	}
}
