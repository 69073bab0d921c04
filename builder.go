package sessionkit

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/peopleops-io/sessionkit/api"
	"github.com/peopleops-io/sessionkit/jwt"
	"github.com/peopleops-io/sessionkit/store"
	"github.com/peopleops-io/sessionkit/tenant"
)

// Builder defines a public type used by sessionkit APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	redis      *redis.Client
	backend    store.Backend
	httpClient *http.Client
	logger     *zap.Logger
	sink       EventSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL describes the withbaseurl operation and its observable behavior.
//
// WithBaseURL does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithDomain describes the withdomain operation and its observable behavior.
//
// WithDomain does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithDomain(domain Domain) *Builder {
	b.config.Session.Domain = domain
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithBackend overrides the persistence backend. Takes precedence over
// WithRedis.
func (b *Builder) WithBackend(backend store.Backend) *Builder {
	b.backend = backend
	return b
}

// WithHTTPClient describes the withhttpclient operation and its observable behavior.
//
// WithHTTPClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithEventSink describes the witheventsink operation and its observable behavior.
//
// WithEventSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.sink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend := b.backend
	if backend == nil {
		if b.redis == nil {
			return nil, errors.New("persistence backend required: provide WithRedis or WithBackend")
		}
		backend = store.NewRedisBackend(b.redis)
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session_domain", string(cfg.Session.Domain)))

	sessions, err := store.New(backend, cfg.Session.Namespace, cfg.Session.Domain, cfg.Session.LegacyUserKeys)
	if err != nil {
		return nil, err
	}

	decoder, err := jwt.NewDecoder(cfg.Session.TokenLeeway)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	}, b.httpClient, logger)
	if err != nil {
		return nil, err
	}

	tenants, err := tenant.NewProvider(backend, client, cfg.Session.Namespace, logger)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:  cfg,
		log:     logger,
		store:   sessions,
		decoder: decoder,
		client:  client,
		tenants: tenants,
		router:  DashboardRouter{OwnerEmail: cfg.Routing.PlatformOwnerEmail},
		events:  newEventDispatcher(cfg.Events, b.sink),
		metrics: NewMetrics(cfg.Metrics),
		state:   StateLoading,
	}

	b.built = true

	return engine, nil
}
