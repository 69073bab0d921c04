package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/peopleops-io/sessionkit/api"
	"github.com/peopleops-io/sessionkit/store"
)

const persistKey = "tenant:current"

// Provider loads, resolves, and persists the active tenant. It never returns
// an error from read paths; consumers always get a renderable record.
type Provider struct {
	backend store.Backend
	client  *api.Client
	log     *zap.Logger
	key     string

	mu      sync.RWMutex
	current *Tenant
}

// NewProvider describes the newprovider operation and its observable behavior.
//
// NewProvider may return an error when input validation, dependency calls, or security checks fail.
// NewProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewProvider(backend store.Backend, client *api.Client, namespace string, logger *zap.Logger) (*Provider, error) {
	if backend == nil {
		return nil, errors.New("tenant: backend required")
	}
	if namespace == "" {
		return nil, errors.New("tenant: namespace required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		backend: backend,
		client:  client,
		log:     logger,
		key:     namespace + ":" + persistKey,
	}, nil
}

// Load restores the persisted tenant. Absent or corrupt state yields the
// inert default; it is never an error.
func (p *Provider) Load(ctx context.Context) *Tenant {
	raw, err := p.backend.Get(ctx, p.key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			p.log.Warn("tenant load failed, using default", zap.Error(err))
		}
		return p.setCurrent(nil)
	}

	var t Tenant
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		p.log.Warn("persisted tenant corrupt, using default", zap.Error(err))
		return p.setCurrent(nil)
	}
	return p.setCurrent(&t)
}

// Current returns the active tenant, or the inert default when none is
// loaded. The returned value is a copy; mutate via [Provider.UpdateUsage].
func (p *Provider) Current() *Tenant {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.current == nil {
		return defaultTenant()
	}
	cp := *p.current
	return &cp
}

// Loaded reports whether a real tenant record is held.
func (p *Provider) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.current != nil
}

// FromSubdomain resolves a tenant through the workspace-lookup endpoint,
// fills plan-derived defaults from the static plan table, stores and persists
// the result. Any failure returns nil; the caller decides the fallback UI.
func (p *Provider) FromSubdomain(ctx context.Context, subdomain string) *Tenant {
	if p.client == nil {
		return nil
	}
	rec, err := p.client.LookupWorkspace(ctx, subdomain)
	if err != nil {
		p.log.Warn("workspace lookup failed",
			zap.String("subdomain", subdomain),
			zap.Error(err),
		)
		return nil
	}

	t := mapWorkspace(rec)
	p.setCurrent(t)
	p.persist(ctx)
	return p.Current()
}

// UpdateUsage merges the non-nil fields of the patch into the current tenant
// and persists the result. Without a loaded tenant it is a no-op.
func (p *Provider) UpdateUsage(ctx context.Context, patch UsagePatch) {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return
	}
	if patch.CurrentUsers != nil {
		p.current.CurrentUsers = *patch.CurrentUsers
	}
	if patch.MaxUsers != nil {
		p.current.MaxUsers = *patch.MaxUsers
	}
	if patch.SubscriptionStatus != nil {
		p.current.SubscriptionStatus = *patch.SubscriptionStatus
	}
	if patch.SubscriptionPlan != nil {
		p.current.SubscriptionPlan = *patch.SubscriptionPlan
	}
	if patch.TrialEndsAt != nil {
		p.current.TrialEndsAt = patch.TrialEndsAt
	}
	p.mu.Unlock()

	p.persist(ctx)
}

// Replace swaps in a freshly resolved tenant record and persists it. Tenants
// are only ever replaced, never locally deleted.
func (p *Provider) Replace(ctx context.Context, t *Tenant) {
	if t == nil {
		return
	}
	p.setCurrent(t)
	p.persist(ctx)
}

// UsagePatch defines a public type used by sessionkit APIs.
//
// UsagePatch instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type UsagePatch struct {
	CurrentUsers       *int
	MaxUsers           *int
	SubscriptionStatus *string
	SubscriptionPlan   *string
	TrialEndsAt        *time.Time
}

func (p *Provider) setCurrent(t *Tenant) *Tenant {
	p.mu.Lock()
	p.current = t
	p.mu.Unlock()

	return p.Current()
}

func (p *Provider) persist(ctx context.Context) {
	p.mu.RLock()
	t := p.current
	p.mu.RUnlock()

	if t == nil {
		return
	}
	raw, err := json.Marshal(t)
	if err != nil {
		p.log.Warn("tenant encode failed", zap.Error(err))
		return
	}
	if err := p.backend.Set(ctx, p.key, string(raw)); err != nil {
		p.log.Warn("tenant persist failed", zap.Error(err))
	}
}

func mapWorkspace(rec *api.WorkspaceRecord) *Tenant {
	plan := PlanByID(rec.SubscriptionPlan)

	t := &Tenant{
		ID:                 rec.ID,
		CompanyName:        rec.CompanyName,
		Subdomain:          rec.Subdomain,
		Domain:             rec.Domain,
		SubscriptionPlan:   rec.SubscriptionPlan,
		SubscriptionStatus: rec.SubscriptionStatus,
		Status:             rec.Status,
		TrialEndsAt:        rec.TrialEndsAt,
		MaxUsers:           rec.MaxUsers,
		CurrentUsers:       rec.CurrentUsers,
		PlanPriceCents:     plan.PriceCents,
		Features:           rec.Features,
	}
	if t.SubscriptionPlan == "" {
		t.SubscriptionPlan = plan.ID
	}
	if t.MaxUsers == 0 {
		t.MaxUsers = plan.MaxUsers
	}
	if len(t.Features) == 0 {
		t.Features = append([]string(nil), plan.Features...)
	}
	if t.Status == "" {
		t.Status = StatusActive
	}
	return t
}
