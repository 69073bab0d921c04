package sessionkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/peopleops-io/sessionkit/api"
	"github.com/peopleops-io/sessionkit/store"
)

func TestDoWithoutTokenFailsFast(t *testing.T) {
	var hits int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	})
	engine, _ := newTestEngine(t, DomainTenant, handler)

	_, err := engine.Do(context.Background(), http.MethodGet, "/employees", nil)
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("Do error = %v, want %v", err, ErrNoToken)
	}
	if atomic.LoadInt64(&hits) != 0 {
		t.Errorf("request without a token reached the server %d times", hits)
	}
	if v := engine.MetricsSnapshot().Counters[MetricRequestNoToken]; v != 1 {
		t.Errorf("no-token counter = %d, want 1", v)
	}
}

func TestDoStorageFailureIsNotNoToken(t *testing.T) {
	engine, err := New().
		WithBaseURL("https://api.acme.test").
		WithBackend(faultyBackend{}).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	_, err = engine.Do(context.Background(), http.MethodGet, "/employees", nil)
	if err == nil {
		t.Fatal("Do succeeded against a broken backend")
	}
	if errors.Is(err, ErrNoToken) {
		t.Fatalf("Do error = %v; a storage outage must not read as a missing token", err)
	}
	if v := engine.MetricsSnapshot().Counters[MetricRequestNoToken]; v != 0 {
		t.Errorf("no-token counter = %d, want 0 for a storage failure", v)
	}
}

// faultyBackend fails every operation, standing in for an unreachable Redis.
type faultyBackend struct{}

func (faultyBackend) Get(context.Context, string) (string, error) {
	return "", errors.New("backend unavailable")
}

func (faultyBackend) Set(context.Context, string, string) error {
	return errors.New("backend unavailable")
}

func (faultyBackend) Delete(context.Context, ...string) error {
	return errors.New("backend unavailable")
}

func TestDoAttachesBearerAndPassesResponsesThrough(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			t.Errorf("authorization header = %q", r.Header.Get("Authorization"))
		}
		writeJSON(t, w, http.StatusForbidden, map[string]string{"message": "forbidden"})
	})
	engine, _ := newTestEngine(t, DomainTenant, handler)
	seedSession(t, engine, "access-1", store.User{ID: "user-1", Email: "pat@acme.test", Role: "member"})

	resp, err := engine.Do(context.Background(), http.MethodGet, "/employees", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Non-401 failures are the caller's to interpret, not the engine's.
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestDoRefreshesOnceAndRetries(t *testing.T) {
	var refreshCalls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req api.RefreshRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.RefreshToken != "refresh-0" {
			t.Errorf("refresh token = %q, want refresh-0", req.RefreshToken)
		}
		if req.DeviceID != "dev-1" {
			t.Errorf("device id = %q, want dev-1", req.DeviceID)
		}
		atomic.AddInt64(&refreshCalls, 1)
		writeJSON(t, w, http.StatusOK, api.TokenPairResponse{
			AccessToken:  "access-2",
			RefreshToken: "refresh-2",
		})
	})
	mux.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "expired"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "ok"})
	})

	engine, _ := newTestEngine(t, DomainTenant, mux)
	seedSession(t, engine, "access-1", store.User{ID: "user-1", Email: "pat@acme.test", Role: "member"})

	resp, err := engine.Do(context.Background(), http.MethodGet, "/employees", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status after retry = %d, want 200", resp.StatusCode)
	}
	if n := atomic.LoadInt64(&refreshCalls); n != 1 {
		t.Errorf("refresh calls = %d, want 1", n)
	}

	ctx := context.Background()
	if got, _ := engine.store.AccessToken(ctx); got != "access-2" {
		t.Errorf("rotated access token = %q, want access-2", got)
	}
	if got, _ := engine.store.RefreshToken(ctx); got != "refresh-2" {
		t.Errorf("rotated refresh token = %q, want refresh-2", got)
	}
	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricRefreshSuccess] != 1 || snap.Counters[MetricRequestRetried] != 1 {
		t.Errorf("refresh/retry counters = %d/%d, want 1/1",
			snap.Counters[MetricRefreshSuccess], snap.Counters[MetricRequestRetried])
	}
}

func TestDoSecondUnauthorizedPassesThrough(t *testing.T) {
	var refreshCalls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		writeJSON(t, w, http.StatusOK, api.TokenPairResponse{
			AccessToken:  "access-2",
			RefreshToken: "refresh-2",
		})
	})
	mux.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
		// Unauthorized regardless of the token: a revoked permission, not an
		// expired session.
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "nope"})
	})

	engine, _ := newTestEngine(t, DomainTenant, mux)
	seedSession(t, engine, "access-1", store.User{ID: "user-1", Email: "pat@acme.test", Role: "member"})

	resp, err := engine.Do(context.Background(), http.MethodGet, "/employees", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 passed through", resp.StatusCode)
	}
	if n := atomic.LoadInt64(&refreshCalls); n != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", n)
	}
}

func TestDoFailedRefreshExpiresSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "refresh token revoked"})
	})
	mux.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "expired"})
	})

	engine, backend := newTestEngine(t, DomainTenant, mux)
	seedSession(t, engine, "access-1", store.User{ID: "user-1", Email: "pat@acme.test", Role: "member"})
	engine.setSession(StateAuthenticated, &store.User{ID: "user-1"})

	_, err := engine.Do(context.Background(), http.MethodGet, "/employees", nil)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Do error = %v, want %v", err, ErrSessionExpired)
	}
	if backend.Len() != 0 {
		t.Errorf("expired session left %d keys in storage", backend.Len())
	}
	if engine.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", engine.State())
	}
	if v := engine.MetricsSnapshot().Counters[MetricSessionExpired]; v != 1 {
		t.Errorf("session expired counter = %d, want 1", v)
	}
}

func TestConcurrentUnauthorizedSharesOneRefresh(t *testing.T) {
	const callers = 8

	var refreshCalls, staleServed int64
	allStale := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		// Hold the refresh open until every caller has been handed its 401,
		// so all of them join the same flight.
		<-allStale
		time.Sleep(100 * time.Millisecond)
		atomic.AddInt64(&refreshCalls, 1)
		writeJSON(t, w, http.StatusOK, api.TokenPairResponse{
			AccessToken:  "access-2",
			RefreshToken: "refresh-2",
		})
	})
	mux.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "expired"})
			if atomic.AddInt64(&staleServed, 1) == callers {
				close(allStale)
			}
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "ok"})
	})

	engine, _ := newTestEngine(t, DomainTenant, mux)
	seedSession(t, engine, "access-1", store.User{ID: "user-1", Email: "pat@acme.test", Role: "member"})

	var wg sync.WaitGroup
	errs := make([]error, callers)
	statuses := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := engine.Do(context.Background(), http.MethodGet, "/employees", nil)
			errs[i] = err
			if err == nil {
				statuses[i] = resp.StatusCode
				_ = resp.Body.Close()
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Errorf("caller %d: %v", i, errs[i])
		} else if statuses[i] != http.StatusOK {
			t.Errorf("caller %d: status %d, want 200", i, statuses[i])
		}
	}
	if n := atomic.LoadInt64(&refreshCalls); n != 1 {
		t.Errorf("refresh calls = %d, want exactly 1 for %d concurrent callers", n, callers)
	}
	if v := engine.MetricsSnapshot().Counters[MetricRefreshShared]; v == 0 {
		t.Error("no caller was recorded as sharing the in-flight refresh")
	}
}

func TestNotifications(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "expired"})
			return
		}
		writeJSON(t, w, http.StatusOK, []api.Notification{
			{ID: "n-1", Title: "Leave approved", Read: false},
			{ID: "n-2", Title: "Payslip ready", Read: true},
		})
	})

	engine, _ := newTestEngine(t, DomainTenant, mux)
	seedSession(t, engine, "access-1", store.User{ID: "user-1", Email: "pat@acme.test", Role: "member"})

	got, err := engine.Notifications(context.Background())
	if err != nil {
		t.Fatalf("Notifications: %v", err)
	}
	if len(got) != 2 || got[0].ID != "n-1" || got[1].Title != "Payslip ready" {
		t.Errorf("notifications = %+v", got)
	}
}
