package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxErrorBody = 8 << 10

// Error carries a non-2xx backend response: the HTTP status and whatever
// message the server reported. The engine classifies it; this package does not.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

// Error describes the error operation and its observable behavior.
//
// Error does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: backend returned status %d: %s", e.StatusCode, e.Message)
}

// Config defines a public type used by sessionkit APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client defines a public type used by sessionkit APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	baseURL   *url.URL
	userAgent string
	http      *http.Client
	log       *zap.Logger
}

// NewClient describes the newclient operation and its observable behavior.
//
// NewClient may return an error when input validation, dependency calls, or security checks fail.
// NewClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("api: base URL required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api: base URL must be http or https, got %q", base.Scheme)
	}

	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:   base,
		userAgent: cfg.UserAgent,
		http:      httpClient,
		log:       logger,
	}, nil
}

// Resolve turns a request path into an absolute URL. Paths that are already
// absolute pass through untouched.
func (c *Client) Resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return c.baseURL.String() + path
	}
	return c.baseURL.ResolveReference(ref).String()
}

// NewRequest builds a JSON request against the configured base URL. A nil
// body yields a body-less request.
func (c *Client) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Resolve(path), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// Send executes a prepared request. Transport failures come back as wrapped
// errors; HTTP status interpretation is left to the caller.
func (c *Client) Send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: request to %s failed: %w", req.URL.Path, err)
	}
	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out interface{ validate() error }) error {
	req, err := c.NewRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	resp, err := c.Send(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s response: %w", path, err)
	}
	return out.validate()
}

// Login authenticates the credentials and registered device fingerprint.
func (c *Client) Login(ctx context.Context, reqBody LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.postJSON(ctx, "/auth/login", reqBody, &out); err != nil {
		return nil, err
	}
	c.log.Debug("login accepted by backend",
		zap.String("user_id", out.User.ID),
		zap.String("role", out.User.Role),
	)
	return &out, nil
}

// Logout revokes the session server-side. The caller treats failures as
// best-effort; local state is cleared regardless.
func (c *Client) Logout(ctx context.Context, accessToken string, reqBody LogoutRequest) error {
	req, err := c.NewRequest(ctx, http.MethodPost, "/auth/logout", reqBody)
	if err != nil {
		return err
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := c.Send(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}
	return nil
}

// Refresh exchanges the refresh token for a rotated pair. The previous
// refresh token is invalid after a successful call.
func (c *Client) Refresh(ctx context.Context, reqBody RefreshRequest) (*TokenPairResponse, error) {
	var out TokenPairResponse
	if err := c.postJSON(ctx, "/auth/refresh", reqBody, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LookupWorkspace resolves a workspace record by subdomain.
func (c *Client) LookupWorkspace(ctx context.Context, subdomain string) (*WorkspaceRecord, error) {
	if subdomain == "" {
		return nil, errors.New("api: subdomain required")
	}
	req, err := c.NewRequest(ctx, http.MethodGet, "/workspaces/"+url.PathEscape(subdomain), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Send(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.decodeError(resp)
	}
	var out WorkspaceRecord
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("api: decode workspace response: %w", err)
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterCompany submits the company onboarding request.
func (c *Client) RegisterCompany(ctx context.Context, reqBody RegisterCompanyRequest) (*RegisterCompanyResponse, error) {
	var out RegisterCompanyResponse
	if err := c.postJSON(ctx, "/companies/register", reqBody, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Code = body.Code
		if body.Message != "" {
			apiErr.Message = body.Message
		} else {
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
