package sessionkit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/peopleops-io/sessionkit/api"
	"github.com/peopleops-io/sessionkit/store"
)

func newTestEngine(t *testing.T, domain Domain, handler http.Handler) (*Engine, *store.MemoryBackend) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := store.NewMemoryBackend()
	engine, err := New().
		WithBaseURL(srv.URL).
		WithDomain(domain).
		WithBackend(backend).
		WithHTTPClient(srv.Client()).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, backend
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"sub":   "user-1",
		"email": "pat@acme.test",
		"iat":   time.Now().Add(-time.Minute).Unix(),
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte("unit-test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func testUserPayload() api.UserPayload {
	return api.UserPayload{
		ID:        "user-1",
		FirstName: "Pat",
		LastName:  "Singh",
		Email:     "pat@acme.test",
		Role:      "member",
		IsActive:  true,
		CompanyID: "co-1",
	}
}

// seedSession writes a complete persisted session directly, bypassing login.
func seedSession(t *testing.T, e *Engine, accessToken string, user store.User) {
	t.Helper()

	ctx := context.Background()
	if err := e.store.SetTokens(ctx, store.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: "refresh-0",
	}); err != nil {
		t.Fatalf("seed tokens: %v", err)
	}
	if err := e.store.SetUser(ctx, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := e.store.SetDevice(ctx, store.Device{DeviceID: "dev-1", DeviceName: "test"}); err != nil {
		t.Fatalf("seed device: %v", err)
	}
}

func waitForEvent(t *testing.T, sink *ChannelSink, want EventType) Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-sink.Events():
			if event.Type == want {
				return event
			}
		case <-deadline:
			t.Fatalf("no %q event within deadline", want)
		}
	}
}
