package sessionkit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/peopleops-io/sessionkit/api"
	"github.com/peopleops-io/sessionkit/internal/fingerprint"
	"github.com/peopleops-io/sessionkit/store"
)

// Login authenticates the credentials against the backend, enforces the
// engine's session domain on the returned role, persists the session, and
// returns the normalized user. Classified failures come back as sentinel
// errors from the taxonomy; nothing is persisted on any failure path.
func (e *Engine) Login(ctx context.Context, identifier, password string) (*User, error) {
	fp := fingerprint.Collect(e.config.Device.ClientName)

	resp, err := e.client.Login(ctx, api.LoginRequest{
		Identifier: identifier,
		Password:   password,
		Device: api.DevicePayload{
			DeviceID:     fp.DeviceID,
			DeviceName:   fp.DeviceName,
			DeviceType:   fp.DeviceType,
			Browser:      fp.Client,
			OS:           fp.OS,
			Platform:     fp.Platform,
			TouchSupport: fp.TouchSupport,
		},
	})
	if err != nil {
		classified := Classify(err)
		e.metricInc(MetricLoginFailure)
		e.emitEvent(ctx, EventLoginRejected, false, "", identifier, classified, nil)
		e.log.Debug("login rejected", zap.String("identifier", identifier), zap.Error(err))
		return nil, classified
	}

	if !e.roleAllowed(Role(resp.User.Role)) {
		e.metricInc(MetricLoginAccessDenied)
		e.emitEvent(ctx, EventLoginRejected, false, resp.User.ID, resp.User.Email, ErrAccessDenied, map[string]string{
			"role": resp.User.Role,
		})
		return nil, ErrAccessDenied
	}

	user := normalizeUser(resp.User)
	device := e.deviceFromLogin(resp.Device, fp)

	if err := e.store.SetTokens(ctx, store.TokenPair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}); err != nil {
		return nil, fmt.Errorf("persist tokens: %w", err)
	}
	if err := e.store.SetUser(ctx, user); err != nil {
		return nil, fmt.Errorf("persist user: %w", err)
	}
	if err := e.store.SetDevice(ctx, device); err != nil {
		return nil, fmt.Errorf("persist device: %w", err)
	}

	e.setSession(StateAuthenticated, &user)
	e.metricInc(MetricLoginSuccess)
	e.emitEvent(ctx, EventLoggedIn, true, user.ID, user.Email, nil, map[string]string{
		"role":      user.Role,
		"device_id": device.DeviceID,
	})
	e.log.Debug("login succeeded", zap.String("user_id", user.ID), zap.String("role", user.Role))

	return &user, nil
}

// Logout revokes the session server-side on a best-effort basis and always
// clears local state. A failed server call is logged, never surfaced: stale
// local credentials are worse than a lost revocation audit event.
func (e *Engine) Logout(ctx context.Context) {
	accessToken, _ := e.store.AccessToken(ctx)

	var deviceID string
	if device, err := e.store.Device(ctx); err == nil {
		deviceID = device.DeviceID
	}

	if accessToken != "" {
		if err := e.client.Logout(ctx, accessToken, api.LogoutRequest{DeviceID: deviceID}); err != nil {
			e.metricInc(MetricLogoutLocalOnly)
			e.log.Warn("server logout failed, clearing local session anyway", zap.Error(err))
		}
	}

	user := e.CurrentUser()
	var userID, email string
	if user != nil {
		userID, email = user.ID, user.Email
	}

	if err := e.store.Clear(ctx); err != nil {
		e.log.Warn("session storage clear failed", zap.Error(err))
	}
	e.setSession(StateUnauthenticated, nil)
	e.metricInc(MetricLogout)
	e.emitEvent(ctx, EventLoggedOut, true, userID, email, nil, nil)
}

// IsAuthenticated reports whether a usable session exists: token and user
// both present, the token's exp claim still in the future, and, for the
// platform domain, the stored role equal to super_admin. Malformed tokens
// report false, never an error.
func (e *Engine) IsAuthenticated(ctx context.Context) bool {
	token, err := e.store.AccessToken(ctx)
	if err != nil || token == "" {
		return false
	}
	user, err := e.store.User(ctx)
	if err != nil || user == nil {
		return false
	}
	if !e.decoder.Alive(token) {
		return false
	}
	if e.config.Session.Domain == DomainPlatform && Role(user.Role) != RoleSuperAdmin {
		return false
	}
	return true
}

// UpdateCurrentUser normalizes and persists an edited profile locally. It
// does not call the server; profile mutation endpoints are the caller's
// responsibility.
func (e *Engine) UpdateCurrentUser(ctx context.Context, u User) (*User, error) {
	if u.Name == "" {
		u.Name = deriveName(u.FirstName, u.LastName, u.Email)
	}
	if err := e.store.SetUser(ctx, u); err != nil {
		return nil, fmt.Errorf("persist user: %w", err)
	}

	e.mu.Lock()
	if e.state == StateAuthenticated {
		cp := u
		e.user = &cp
	}
	e.mu.Unlock()

	e.emitEvent(ctx, EventProfileUpdated, true, u.ID, u.Email, nil, nil)
	return &u, nil
}

func (e *Engine) roleAllowed(role Role) bool {
	if e.config.Session.Domain == DomainPlatform {
		return role == RoleSuperAdmin
	}
	return role != ""
}

func (e *Engine) deviceFromLogin(echoed *api.DevicePayload, fp fingerprint.Fingerprint) store.Device {
	device := store.Device{
		DeviceID:   fp.DeviceID,
		DeviceName: fp.DeviceName,
		DeviceType: fp.DeviceType,
		Browser:    fp.Client,
		OS:         fp.OS,
		IsTrusted:  e.config.Device.TrustNewDevices,
	}
	if echoed == nil {
		return device
	}
	// The backend may assign its own device id and trust decision.
	if echoed.DeviceID != "" {
		device.DeviceID = echoed.DeviceID
	}
	if echoed.DeviceName != "" {
		device.DeviceName = echoed.DeviceName
	}
	if echoed.DeviceType != "" {
		device.DeviceType = echoed.DeviceType
	}
	device.IsTrusted = echoed.IsTrusted
	return device
}
