// Package tenant resolves and caches the active company record: the
// workspace the signed-in user belongs to, its subscription plan and status,
// and the branding strings the shell UI renders before anything else loads.
//
// Activity is never stored; [Tenant.IsActive] recomputes it from the
// subscription fields on every read so a lapsed trial can not be masked by a
// stale flag.
package tenant
