package store

// Domain defines a public type used by sessionkit APIs.
//
// Domain instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Domain string

const (
	// DomainTenant is the session domain of a regular company user.
	DomainTenant Domain = "tenant"
	// DomainPlatform is the session domain of the SaaS platform operator.
	DomainPlatform Domain = "platform"
)

// TokenPair defines a public type used by sessionkit APIs.
//
// TokenPair instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// User is the persisted profile of the signed-in user. Name is derived at the
// engine boundary (first+last, falling back to the email local-part) and is
// always populated before the record reaches this package.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	IsActive     bool   `json:"isActive"`
	DepartmentID string `json:"departmentId,omitempty"`
	CompanyID    string `json:"companyId,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
}

// Device is the fingerprint captured at login time. It is immutable once
// stored and regenerated on every login.
type Device struct {
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
	DeviceType string `json:"deviceType"`
	Browser    string `json:"browser"`
	OS         string `json:"os"`
	IsTrusted  bool   `json:"isTrusted"`
}
