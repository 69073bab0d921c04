package sessionkit

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the session engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked is an exported constant or variable used by the session engine.
	ErrAccountLocked = errors.New("account locked")
	// ErrDeviceLimitReached is an exported constant or variable used by the session engine.
	ErrDeviceLimitReached = errors.New("device limit reached")
	// ErrAccountInactive is an exported constant or variable used by the session engine.
	ErrAccountInactive = errors.New("account inactive")
	// ErrValidationFailed is an exported constant or variable used by the session engine.
	ErrValidationFailed = errors.New("request validation failed")
	// ErrRateLimited is an exported constant or variable used by the session engine.
	ErrRateLimited = errors.New("rate limited")
	// ErrNetwork is an exported constant or variable used by the session engine.
	ErrNetwork = errors.New("network failure")
	// ErrAccessDenied is an exported constant or variable used by the session engine.
	ErrAccessDenied = errors.New("role not permitted in this session domain")
	// ErrSessionExpired is an exported constant or variable used by the session engine.
	ErrSessionExpired = errors.New("session expired")
	// ErrNoToken is an exported constant or variable used by the session engine.
	ErrNoToken = errors.New("no access token")
	// ErrUnknown is an exported constant or variable used by the session engine.
	ErrUnknown = errors.New("unknown backend failure")
)
