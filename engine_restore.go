package sessionkit

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Restore initializes the session from persisted storage. A candidate
// session is accepted only when the authenticated flag, access token, and
// user record are all present and the user is not a placeholder identity;
// anything else purges every related storage key and lands in
// [StateUnauthenticated]. Restore never fails: the worst outcome is an
// unauthenticated engine.
func (e *Engine) Restore(ctx context.Context) State {
	flag := e.store.Authenticated(ctx)
	token, tokenErr := e.store.AccessToken(ctx)
	user, userErr := e.store.User(ctx)

	present := flag || tokenErr == nil || userErr == nil
	valid := flag &&
		tokenErr == nil && token != "" &&
		userErr == nil && user != nil &&
		!e.isPlaceholder(user.ID, user.Email)

	if !valid {
		if present {
			if err := e.store.Clear(ctx); err != nil {
				e.log.Warn("session purge failed during restore", zap.Error(err))
			}
			e.metricInc(MetricSessionPurged)
			e.emitEvent(ctx, EventSessionPurged, false, "", "", nil, map[string]string{
				"reason": purgeReason(flag, tokenErr == nil && token != "", userErr == nil && user != nil),
			})
		}
		e.setSession(StateUnauthenticated, nil)
		return StateUnauthenticated
	}

	e.setSession(StateAuthenticated, user)
	e.metricInc(MetricSessionRestored)
	e.emitEvent(ctx, EventSessionRestored, true, user.ID, user.Email, nil, nil)
	e.log.Debug("session restored", zap.String("user_id", user.ID))
	return StateAuthenticated
}

// isPlaceholder flags seeded demo identities that must never survive a
// restore: a known sentinel email or an ID carrying the reserved prefix.
func (e *Engine) isPlaceholder(id, email string) bool {
	prefix := e.config.Session.ReservedIDPrefix
	if prefix != "" && strings.HasPrefix(id, prefix) {
		return true
	}
	for _, sentinel := range e.config.Session.SentinelEmails {
		if sentinel != "" && strings.EqualFold(email, sentinel) {
			return true
		}
	}
	return false
}

func purgeReason(flag, token, user bool) string {
	switch {
	case flag && token && user:
		return "placeholder_identity"
	case !flag:
		return "missing_auth_flag"
	case !token:
		return "missing_access_token"
	default:
		return "missing_user"
	}
}
