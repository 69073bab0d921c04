package tenant

import "time"

const (
	// StatusActive is an exported constant or variable used by the session engine.
	StatusActive = "active"
	// StatusInactive is an exported constant or variable used by the session engine.
	StatusInactive = "inactive"

	// SubscriptionTrial is an exported constant or variable used by the session engine.
	SubscriptionTrial = "trial"
	// SubscriptionActive is an exported constant or variable used by the session engine.
	SubscriptionActive = "active"
	// SubscriptionExpired is an exported constant or variable used by the session engine.
	SubscriptionExpired = "expired"
	// SubscriptionCancelled is an exported constant or variable used by the session engine.
	SubscriptionCancelled = "cancelled"
)

// Tenant is the active company record. It is replaced or partially merged,
// never deleted locally.
type Tenant struct {
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
	PlanPriceCents     int        `json:"planPriceCents,omitempty"`
	Features           []string   `json:"features,omitempty"`
}

// IsActive reports whether the tenant may use the platform at the given
// instant. Trial expiry gates activity only while the subscription is still
// tagged as a trial; an upgraded subscription ignores the old trial window.
func (t *Tenant) IsActive(now time.Time) bool {
	if t == nil || t.Status != StatusActive {
		return false
	}
	switch t.SubscriptionStatus {
	case SubscriptionActive:
		return true
	case SubscriptionTrial:
		return t.TrialEndsAt != nil && t.TrialEndsAt.After(now)
	default:
		return false
	}
}

// Branding holds the strings the shell renders before any data loads.
type Branding struct {
	DisplayName string
	Subdomain   string
	Domain      string
}

// Branding describes the branding operation and its observable behavior.
//
// Branding does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (t *Tenant) Branding() Branding {
	if t == nil {
		return Branding{DisplayName: defaultDisplayName}
	}
	b := Branding{
		DisplayName: t.CompanyName,
		Subdomain:   t.Subdomain,
		Domain:      t.Domain,
	}
	if b.DisplayName == "" {
		b.DisplayName = defaultDisplayName
	}
	return b
}

const defaultDisplayName = "Workspace"

// defaultTenant is the inert record consumers see before a real tenant is
// known. It renders, and it is never active.
func defaultTenant() *Tenant {
	return &Tenant{
		CompanyName:        defaultDisplayName,
		Status:             StatusInactive,
		SubscriptionStatus: SubscriptionTrial,
	}
}
