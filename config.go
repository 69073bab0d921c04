package sessionkit

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/peopleops-io/sessionkit/store"
)

// Config defines a public type used by sessionkit APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API     APIConfig
	Session SessionConfig
	Device  DeviceConfig
	Routing RoutingConfig
	Events  EventConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by sessionkit APIs.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by sessionkit APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	Namespace      string
	Domain         Domain
	LegacyUserKeys []string

	// SentinelEmails and ReservedIDPrefix identify placeholder identities
	// left behind by seeded demo data. Restore treats them as corrupt state
	// and purges the session.
	SentinelEmails   []string
	ReservedIDPrefix string

	// TokenLeeway widens token liveness to tolerate clock skew against the
	// backend. Zero by default: a token whose exp claim is in the past is
	// dead. Opt in only when client clocks are known to drift.
	TokenLeeway time.Duration
}

/*
====================================
DEVICE CONFIG
====================================
*/

// DeviceConfig defines a public type used by sessionkit APIs.
//
// DeviceConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type DeviceConfig struct {
	ClientName      string
	TrustNewDevices bool
}

/*
====================================
ROUTING CONFIG
====================================
*/

// RoutingConfig defines a public type used by sessionkit APIs.
//
// RoutingConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RoutingConfig struct {
	// PlatformOwnerEmail is the designated operator address that, combined
	// with the super_admin role, unlocks the cross-tenant dashboard.
	PlatformOwnerEmail string
}

/*
====================================
EVENTS CONFIG
====================================
*/

// EventConfig defines a public type used by sessionkit APIs.
//
// EventConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EventConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by sessionkit APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:   30 * time.Second,
			UserAgent: "sessionkit",
		},
		Session: SessionConfig{
			Namespace:        "pk",
			Domain:           DomainTenant,
			LegacyUserKeys:   []string{"currentUser", "authUser"},
			SentinelEmails:   []string{"demo@placeholder.local"},
			ReservedIDPrefix: "mock-",
			TokenLeeway:      0,
		},
		Device: DeviceConfig{
			ClientName:      "sessionkit",
			TrustNewDevices: false,
		},
		Routing: RoutingConfig{
			PlatformOwnerEmail: "admin@demo.com",
		},
		Events: EventConfig{
			Enabled:    true,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.LegacyUserKeys = append([]string(nil), cfg.Session.LegacyUserKeys...)
	out.Session.SentinelEmails = append([]string(nil), cfg.Session.SentinelEmails...)
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("API BaseURL required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("API BaseURL invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("API BaseURL must be http or https")
	}
	if c.API.Timeout < 0 {
		return errors.New("API Timeout must not be negative")
	}

	if strings.TrimSpace(c.Session.Namespace) == "" {
		return errors.New("Session Namespace required")
	}
	if strings.ContainsAny(c.Session.Namespace, ": ") {
		return errors.New("Session Namespace must not contain ':' or spaces")
	}
	if c.Session.Domain != store.DomainTenant && c.Session.Domain != store.DomainPlatform {
		return fmt.Errorf("Session Domain %q unknown", c.Session.Domain)
	}
	if c.Session.TokenLeeway < 0 || c.Session.TokenLeeway > 2*time.Minute {
		return errors.New("Session TokenLeeway out of range")
	}
	for _, k := range c.Session.LegacyUserKeys {
		if strings.ContainsRune(k, ':') {
			return fmt.Errorf("Session LegacyUserKey %q must not contain ':'", k)
		}
	}

	if c.Events.Enabled && c.Events.BufferSize <= 0 {
		return errors.New("Events BufferSize must be positive when events are enabled")
	}

	return nil
}
