package sessionkit

import (
	"errors"
	"net/http"
	"strings"

	"github.com/peopleops-io/sessionkit/api"
)

// Classify maps a backend or transport failure into the engine's error
// taxonomy so the UI layer can render a specific message per kind. Already
// classified errors pass through unchanged; anything that never reached the
// backend is a network failure.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		ErrInvalidCredentials, ErrAccountLocked, ErrDeviceLimitReached,
		ErrAccountInactive, ErrValidationFailed, ErrRateLimited,
		ErrNetwork, ErrAccessDenied, ErrSessionExpired, ErrNoToken, ErrUnknown,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return ErrNetwork
	}

	msg := strings.ToLower(apiErr.Message + " " + apiErr.Code)
	switch {
	case apiErr.StatusCode == http.StatusTooManyRequests,
		strings.Contains(msg, "too many"),
		strings.Contains(msg, "rate limit"):
		return ErrRateLimited
	case strings.Contains(msg, "locked"):
		return ErrAccountLocked
	case strings.Contains(msg, "device limit"),
		strings.Contains(msg, "device_limit"),
		strings.Contains(msg, "maximum devices"):
		return ErrDeviceLimitReached
	case strings.Contains(msg, "inactive"),
		strings.Contains(msg, "deactivated"),
		strings.Contains(msg, "disabled"):
		return ErrAccountInactive
	case strings.Contains(msg, "validation"),
		apiErr.StatusCode == http.StatusUnprocessableEntity,
		apiErr.StatusCode == http.StatusBadRequest:
		return ErrValidationFailed
	case strings.Contains(msg, "invalid credential"),
		strings.Contains(msg, "invalid email or password"),
		strings.Contains(msg, "wrong password"),
		apiErr.StatusCode == http.StatusUnauthorized:
		return ErrInvalidCredentials
	default:
		return ErrUnknown
	}
}
