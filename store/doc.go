// Package store provides namespaced key-value persistence for client session
// state: token pairs, the signed-in user profile, the device fingerprint, and
// legacy alias copies kept for older readers of the same keyspace.
//
// # Domains
//
// Two session domains coexist in one keyspace: the tenant-user session and the
// platform-operator session. Every key a [Store] touches is prefixed with both
// the configured namespace and the [Domain], so the two sessions can never
// collide or observe each other.
//
// # Architecture boundaries
//
// This package owns raw persistence only. It performs no validation of what it
// stores — token expiry, role checks, and placeholder detection belong to the
// Engine.
//
// # What this package must NOT do
//
//   - Import sessionkit, jwt, or api (no upward imports).
//   - Interpret token contents or enforce authentication policy.
//   - Swallow backend errors; callers decide whether persistence failure is fatal.
package store
