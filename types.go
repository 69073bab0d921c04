package sessionkit

import (
	"github.com/peopleops-io/sessionkit/store"
)

// Role represents the platform role carried in a user record and token.
type Role string

const (
	// RoleAdmin is an exported constant or variable used by the session engine.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin is an exported constant or variable used by the session engine.
	RoleSuperAdmin Role = "super_admin"
	// RoleDepartmentHead is an exported constant or variable used by the session engine.
	RoleDepartmentHead Role = "department_head"
	// RoleManager is an exported constant or variable used by the session engine.
	RoleManager Role = "manager"
	// RoleMember is an exported constant or variable used by the session engine.
	RoleMember Role = "member"
	// RoleHR is an exported constant or variable used by the session engine.
	RoleHR Role = "hr"
	// RoleHRManager is an exported constant or variable used by the session engine.
	RoleHRManager Role = "hr_manager"
)

// User is the signed-in user profile, re-exported from the store package so
// callers depend on one type.
type User = store.User

// Device is the persisted login-time fingerprint.
type Device = store.Device

// TokenPair is the access/refresh pair.
type TokenPair = store.TokenPair

// Domain selects which of the two independent sessions an Engine manages.
type Domain = store.Domain

const (
	// DomainTenant is the session domain of a regular company user.
	DomainTenant = store.DomainTenant
	// DomainPlatform is the session domain of the SaaS platform operator.
	DomainPlatform = store.DomainPlatform
)

// State represents the session lifecycle state of an [Engine].
type State uint8

const (
	// StateLoading is the state before [Engine.Restore] has run.
	StateLoading State = iota
	// StateUnauthenticated is an exported constant or variable used by the session engine.
	StateUnauthenticated
	// StateAuthenticated is an exported constant or variable used by the session engine.
	StateAuthenticated
)

// String describes the string operation and its observable behavior.
//
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
