package api

import (
	"errors"
	"time"
)

// DevicePayload is the fingerprint sent with a login call and echoed back in
// the login response once the backend has registered the device.
type DevicePayload struct {
	DeviceID         string `json:"deviceId,omitempty"`
	DeviceName       string `json:"deviceName"`
	DeviceType       string `json:"deviceType"`
	Browser          string `json:"browser"`
	OS               string `json:"os"`
	Platform         string `json:"platform"`
	ScreenResolution string `json:"screenResolution,omitempty"`
	TouchSupport     bool   `json:"touchSupport"`
	IsTrusted        bool   `json:"isTrusted,omitempty"`
}

// UserPayload defines a public type used by sessionkit APIs.
//
// UserPayload instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type UserPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	IsActive     bool   `json:"isActive"`
	DepartmentID string `json:"departmentId,omitempty"`
	CompanyID    string `json:"companyId,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
}

// LoginRequest defines a public type used by sessionkit APIs.
//
// LoginRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginRequest struct {
	Identifier string        `json:"email"`
	Password   string        `json:"password"`
	Device     DevicePayload `json:"device"`
}

// LoginResponse defines a public type used by sessionkit APIs.
//
// LoginResponse instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginResponse struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         UserPayload    `json:"user"`
	Device       *DevicePayload `json:"device,omitempty"`
}

func (r *LoginResponse) validate() error {
	if r.AccessToken == "" {
		return errors.New("api: login response missing access token")
	}
	if r.RefreshToken == "" {
		return errors.New("api: login response missing refresh token")
	}
	if r.User.ID == "" {
		return errors.New("api: login response missing user id")
	}
	if r.User.Email == "" {
		return errors.New("api: login response missing user email")
	}
	if r.User.Role == "" {
		return errors.New("api: login response missing user role")
	}
	return nil
}

// LogoutRequest defines a public type used by sessionkit APIs.
//
// LogoutRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LogoutRequest struct {
	DeviceID string `json:"deviceId,omitempty"`
}

// RefreshRequest defines a public type used by sessionkit APIs.
//
// RefreshRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
	DeviceID     string `json:"deviceId,omitempty"`
}

// TokenPairResponse defines a public type used by sessionkit APIs.
//
// TokenPairResponse instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (r *TokenPairResponse) validate() error {
	if r.AccessToken == "" || r.RefreshToken == "" {
		return errors.New("api: refresh response missing token pair")
	}
	return nil
}

// WorkspaceRecord is the raw workspace-lookup payload. The tenant package
// maps it into its Tenant shape and fills plan-derived defaults.
type WorkspaceRecord struct {
	ID                 string     `json:"id"`
	CompanyName        string     `json:"companyName"`
	Subdomain          string     `json:"subdomain"`
	Domain             string     `json:"domain,omitempty"`
	SubscriptionPlan   string     `json:"subscriptionPlan"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	Status             string     `json:"status"`
	TrialEndsAt        *time.Time `json:"trialEndsAt,omitempty"`
	MaxUsers           int        `json:"maxUsers"`
	CurrentUsers       int        `json:"currentUsers"`
	Features           []string   `json:"features,omitempty"`
}

func (r *WorkspaceRecord) validate() error {
	if r.ID == "" {
		return errors.New("api: workspace record missing id")
	}
	if r.Subdomain == "" {
		return errors.New("api: workspace record missing subdomain")
	}
	return nil
}

// RegisterCompanyRequest defines a public type used by sessionkit APIs.
//
// RegisterCompanyRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RegisterCompanyRequest struct {
	CompanyName   string `json:"companyName"`
	Subdomain     string `json:"subdomain"`
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
	Plan          string `json:"plan,omitempty"`
}

// RegisterCompanyResponse defines a public type used by sessionkit APIs.
//
// RegisterCompanyResponse instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RegisterCompanyResponse struct {
	CompanyID string `json:"companyId"`
	Subdomain string `json:"subdomain"`
}

func (r *RegisterCompanyResponse) validate() error {
	if r.CompanyID == "" {
		return errors.New("api: register response missing company id")
	}
	return nil
}

// Notification is a single entry from the notification feed.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type errorBody struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}
