package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c, srv
}

func TestResolve(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "https://api.acme.test"}, nil, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	cases := map[string]string{
		"/v1/users":                   "https://api.acme.test/v1/users",
		"https://elsewhere.test/ping": "https://elsewhere.test/ping",
		"http://plain.test/x":         "http://plain.test/x",
	}
	for in, want := range cases {
		if got := c.Resolve(in); got != want {
			t.Fatalf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	if _, err := NewClient(Config{}, nil, nil); err == nil {
		t.Fatal("expected error for empty base URL")
	}
	if _, err := NewClient(Config{BaseURL: "ftp://host"}, nil, nil); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

func TestLoginParsesResponse(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode login request: %v", err)
		}
		if req.Device.OS == "" {
			t.Error("login request missing device fingerprint")
		}
		_ = json.NewEncoder(w).Encode(LoginResponse{
			AccessToken:  "acc",
			RefreshToken: "ref",
			User:         UserPayload{ID: "u1", Email: "alice@acme.test", Role: "member", IsActive: true},
		})
	}))

	resp, err := c.Login(context.Background(), LoginRequest{
		Identifier: "alice@acme.test",
		Password:   "pw",
		Device:     DevicePayload{OS: "linux", DeviceType: "desktop"},
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.AccessToken != "acc" || resp.User.ID != "u1" {
		t.Fatalf("unexpected login response: %+v", resp)
	}
}

func TestLoginRejectsPartialResponse(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Access token present but no user record: must fail at the boundary.
		_, _ = w.Write([]byte(`{"accessToken":"acc","refreshToken":"ref"}`))
	}))

	if _, err := c.Login(context.Background(), LoginRequest{Identifier: "a", Password: "b"}); err == nil {
		t.Fatal("expected parse failure for partial login response")
	}
}

func TestServerErrorSurfacesMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusLocked)
		_, _ = w.Write([]byte(`{"message":"account locked"}`))
	}))

	_, err := c.Login(context.Background(), LoginRequest{Identifier: "a", Password: "b"})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusLocked || apiErr.Message != "account locked" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestRefreshRejectsMissingPair(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"accessToken":"only-access"}`))
	}))

	if _, err := c.Refresh(context.Background(), RefreshRequest{RefreshToken: "r"}); err == nil {
		t.Fatal("expected parse failure for refresh response without pair")
	}
}

func TestLookupWorkspace(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workspaces/acme" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(WorkspaceRecord{
			ID:                 "c1",
			CompanyName:        "Acme",
			Subdomain:          "acme",
			SubscriptionPlan:   "growth",
			SubscriptionStatus: "active",
			Status:             "active",
		})
	}))

	rec, err := c.LookupWorkspace(context.Background(), "acme")
	if err != nil {
		t.Fatalf("LookupWorkspace failed: %v", err)
	}
	if rec.ID != "c1" || rec.SubscriptionPlan != "growth" {
		t.Fatalf("unexpected workspace record: %+v", rec)
	}
}

func TestLogoutBearerAttached(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := c.Logout(context.Background(), "tok-1", LogoutRequest{DeviceID: "d1"}); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
}

func TestRegisterCompany(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/companies/register" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(RegisterCompanyResponse{CompanyID: "c9", Subdomain: "newco"})
	}))

	resp, err := c.RegisterCompany(context.Background(), RegisterCompanyRequest{
		CompanyName: "NewCo",
		Subdomain:   "newco",
		AdminEmail:  "owner@newco.test",
	})
	if err != nil {
		t.Fatalf("RegisterCompany failed: %v", err)
	}
	if resp.CompanyID != "c9" {
		t.Fatalf("unexpected register response: %+v", resp)
	}
}
