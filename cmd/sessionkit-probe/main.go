// Command sessionkit-probe exercises a live backend through the session
// engine: login, session restore, tenant lookup, an authenticated request,
// and logout, printing what it observed at every step. Useful for checking
// an environment's auth endpoints without a frontend.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	sessionkit "github.com/peopleops-io/sessionkit"
	"github.com/peopleops-io/sessionkit/store"
)

func main() {
	_ = godotenv.Load()

	var (
		baseURL   = flag.String("base-url", os.Getenv("SESSIONKIT_API_URL"), "backend base URL (or SESSIONKIT_API_URL)")
		email     = flag.String("email", os.Getenv("SESSIONKIT_EMAIL"), "login identifier (or SESSIONKIT_EMAIL)")
		password  = flag.String("password", os.Getenv("SESSIONKIT_PASSWORD"), "login password (or SESSIONKIT_PASSWORD)")
		domain    = flag.String("domain", "tenant", "session domain: tenant or platform")
		subdomain = flag.String("subdomain", "", "workspace subdomain to resolve (optional)")
		path      = flag.String("path", "", "authenticated GET to issue after login (optional)")
		redisAddr = flag.String("redis-addr", os.Getenv("REDIS_ADDR"), "redis address; in-memory storage when empty")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *baseURL == "" || *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "base-url, email, and password are required")
		flag.Usage()
		os.Exit(2)
	}

	logger, err := buildLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	builder := sessionkit.New().
		WithBaseURL(*baseURL).
		WithDomain(sessionkit.Domain(*domain)).
		WithHTTPClient(&http.Client{Timeout: 30 * time.Second}).
		WithLogger(logger).
		WithEventSink(sessionkit.NewJSONWriterSink(os.Stderr))

	if *redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer func() { _ = client.Close() }()
		builder = builder.WithRedis(client)
		fmt.Printf("storage: redis at %s\n", *redisAddr)
	} else {
		builder = builder.WithBackend(store.NewMemoryBackend())
		fmt.Println("storage: in-memory")
	}

	engine, err := builder.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	ctx := context.Background()

	fmt.Printf("login as %s against %s (%s domain)\n", *email, *baseURL, *domain)
	user, err := engine.Login(ctx, *email, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("signed in: %s <%s> role=%s dashboard=%s\n",
		user.Name, user.Email, user.Role, engine.DashboardFor(user))

	if state := engine.Restore(ctx); state != sessionkit.StateAuthenticated {
		fmt.Fprintf(os.Stderr, "restore after login landed in %s\n", state)
		os.Exit(1)
	}
	fmt.Println("restore: session survives a cold start")

	if *subdomain != "" {
		if tn := engine.Tenants().FromSubdomain(ctx, *subdomain); tn != nil {
			fmt.Printf("workspace %q: plan=%s active=%v\n",
				tn.Subdomain, tn.SubscriptionPlan, tn.IsActive(time.Now()))
		} else {
			fmt.Printf("workspace %q: lookup failed\n", *subdomain)
		}
	}

	if *path != "" {
		probeRequest(ctx, engine, *path)
	}

	engine.Logout(ctx)
	fmt.Println("logged out")

	snap := engine.MetricsSnapshot()
	raw, _ := json.Marshal(snap.Counters)
	fmt.Printf("metrics: %s\n", raw)
}

func probeRequest(ctx context.Context, engine *sessionkit.Engine, path string) {
	resp, err := engine.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		fmt.Printf("GET %s: %v\n", path, err)
		return
	}
	defer func() { _ = resp.Body.Close() }()
	fmt.Printf("GET %s: %s\n", path, resp.Status)
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
