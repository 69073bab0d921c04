package sessionkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/peopleops-io/sessionkit/api"
	"github.com/peopleops-io/sessionkit/store"
)

const refreshFlightKey = "refresh"

// Do issues an authenticated JSON request against the backend. Relative
// paths resolve against the configured base URL. On a 401 the engine runs
// exactly one shared refresh and retries the request once with the rotated
// token; a 401 on the retry is returned to the caller unmodified. Any other
// response, success or failure, passes through for the caller to interpret.
func (e *Engine) Do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	token, err := e.store.AccessToken(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound), err == nil && token == "":
		e.metricInc(MetricRequestNoToken)
		return nil, ErrNoToken
	case err != nil:
		// A storage outage is not a logged-out user.
		return nil, fmt.Errorf("read access token: %w", err)
	}

	resp, err := e.send(ctx, method, path, body, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	drain(resp)

	newToken, refreshErr := e.refreshShared(ctx)
	if refreshErr != nil {
		e.purgeSession(ctx, refreshErr)
		return nil, ErrSessionExpired
	}

	e.metricInc(MetricRequestRetried)
	return e.send(ctx, method, path, body, newToken)
}

// DoJSON runs [Engine.Do] and decodes a 2xx response body into out. Non-2xx
// responses are classified into the error taxonomy.
func (e *Engine) DoJSON(ctx context.Context, method, path string, body []byte, out any) error {
	resp, err := e.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return Classify(&api.Error{StatusCode: resp.StatusCode, Message: string(raw)})
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// Notifications reads the signed-in user's notification feed through the
// authenticated request path.
func (e *Engine) Notifications(ctx context.Context) ([]api.Notification, error) {
	var out []api.Notification
	if err := e.DoJSON(ctx, http.MethodGet, "/notifications", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) send(ctx context.Context, method, path string, body []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, e.client.Resolve(path), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return e.client.Send(req)
}

// refreshShared exchanges the refresh token for a rotated pair. Concurrent
// callers share one in-flight network call; the flight is forgotten after
// resolution so the next 401 triggers a fresh refresh. Sharing matters
// because the backend rotates refresh tokens: a second concurrent refresh
// with the already-consumed token would be rejected and kill the session.
func (e *Engine) refreshShared(ctx context.Context) (string, error) {
	v, err, shared := e.flight.Do(refreshFlightKey, func() (any, error) {
		refreshToken, err := e.store.RefreshToken(ctx)
		if err != nil || refreshToken == "" {
			return nil, ErrNoToken
		}

		var deviceID string
		if device, derr := e.store.Device(ctx); derr == nil {
			deviceID = device.DeviceID
		}

		pair, err := e.client.Refresh(ctx, api.RefreshRequest{
			RefreshToken: refreshToken,
			DeviceID:     deviceID,
		})
		if err != nil {
			e.metricInc(MetricRefreshFailure)
			return nil, err
		}

		if err := e.store.SetTokens(ctx, store.TokenPair{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		}); err != nil {
			e.metricInc(MetricRefreshFailure)
			return nil, fmt.Errorf("persist rotated tokens: %w", err)
		}

		e.metricInc(MetricRefreshSuccess)
		e.emitEvent(ctx, EventTokenRefreshed, true, "", "", nil, nil)
		return pair.AccessToken, nil
	})
	e.flight.Forget(refreshFlightKey)

	if shared {
		e.metricInc(MetricRefreshShared)
	}
	if err != nil {
		return "", err
	}

	token, ok := v.(string)
	if !ok {
		return "", errors.New("refresh flight returned unexpected value")
	}
	return token, nil
}

// purgeSession clears local state after a failed refresh. The session is
// gone either way; all that is left is making the local view agree.
func (e *Engine) purgeSession(ctx context.Context, cause error) {
	if err := e.store.Clear(ctx); err != nil {
		e.log.Warn("session storage clear failed after refresh failure", zap.Error(err))
	}
	e.setSession(StateUnauthenticated, nil)
	e.metricInc(MetricSessionExpired)
	e.emitEvent(ctx, EventSessionExpired, false, "", "", cause, nil)
	e.log.Debug("session expired after failed refresh", zap.Error(cause))
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}
