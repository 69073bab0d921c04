package sessionkit

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/peopleops-io/sessionkit/api"
	"github.com/peopleops-io/sessionkit/jwt"
	"github.com/peopleops-io/sessionkit/store"
	"github.com/peopleops-io/sessionkit/tenant"
)

// Engine defines a public type used by sessionkit APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config  Config
	log     *zap.Logger
	store   *store.Store
	decoder *jwt.Decoder
	client  *api.Client
	tenants *tenant.Provider
	router  DashboardRouter
	events  *eventDispatcher
	metrics *Metrics
	flight  singleflight.Group

	mu    sync.RWMutex
	state State
	user  *store.User
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.events != nil {
		e.events.Close()
	}
}

// Domain describes the domain operation and its observable behavior.
//
// Domain does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Domain() Domain {
	return e.config.Session.Domain
}

// State reports the session lifecycle state. Before [Engine.Restore] has run
// it is [StateLoading].
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.state
}

// CurrentUser returns a copy of the signed-in user, or nil when the session
// is not authenticated.
func (e *Engine) CurrentUser() *User {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.user == nil {
		return nil
	}
	cp := *e.user
	return &cp
}

// Tenants exposes the tenant provider bound to this engine's keyspace.
func (e *Engine) Tenants() *tenant.Provider {
	return e.tenants
}

// DashboardFor resolves the dashboard entry for a user through the configured
// routing table.
func (e *Engine) DashboardFor(u *User) Dashboard {
	if u == nil {
		return DashboardAdmin
	}
	return e.router.Route(Role(u.Role), u.Email)
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// EventsDropped describes the eventsdropped operation and its observable behavior.
//
// EventsDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) EventsDropped() uint64 {
	if e == nil || e.events == nil {
		return 0
	}
	return e.events.Dropped()
}

// RegisterCompany submits a company onboarding request. No session is
// required; registration precedes the first login.
func (e *Engine) RegisterCompany(ctx context.Context, req api.RegisterCompanyRequest) (*api.RegisterCompanyResponse, error) {
	resp, err := e.client.RegisterCompany(ctx, req)
	if err != nil {
		return nil, Classify(err)
	}
	return resp, nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emitEvent(ctx context.Context, eventType EventType, success bool, userID, email string, cause error, metadata map[string]string) {
	if e == nil || e.events == nil {
		return
	}
	event := Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Domain:    e.config.Session.Domain,
		UserID:    userID,
		Email:     email,
		Success:   success,
		Metadata:  metadata,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	e.events.Emit(ctx, event)
}

func (e *Engine) setSession(state State, u *store.User) {
	e.mu.Lock()
	e.state = state
	e.user = u
	e.mu.Unlock()
}

// normalizeUser maps a wire payload into the persisted user shape, deriving
// the display name from first+last and falling back to the email local-part.
func normalizeUser(p api.UserPayload) store.User {
	u := store.User{
		ID:           p.ID,
		Name:         strings.TrimSpace(p.Name),
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		Role:         p.Role,
		IsActive:     p.IsActive,
		DepartmentID: p.DepartmentID,
		CompanyID:    p.CompanyID,
		Avatar:       p.Avatar,
	}
	if u.Name == "" {
		u.Name = deriveName(u.FirstName, u.LastName, u.Email)
	}
	return u
}

func deriveName(first, last, email string) string {
	full := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if full != "" {
		return full
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
