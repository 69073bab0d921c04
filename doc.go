// Package sessionkit implements the client-side session engine for a
// multi-tenant HR/operations platform: token persistence, login/logout against
// the platform's REST backend, authenticated request issuing with a
// single-flight 401 refresh, session restoration, tenant resolution, and
// role-based dashboard routing.
//
// The package is designed for concurrent callers: Engine methods are safe to
// call from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// sessionkit is the public surface. It exposes [Engine], [Builder], [Config],
// the error taxonomy, and value types (Event, MetricsSnapshot, Dashboard).
// Persistence lives in the store package, wire schemas in api, token decoding
// in jwt, tenant resolution in tenant.
//
// # What this package must NOT do
//
//   - Verify token signatures; the backend is the sole verifier and the
//     client only inspects the exp claim.
//   - Hold session state in package-level variables: every session lives in
//     an [Engine] built explicitly, so tests and multi-domain callers can run
//     isolated instances side by side.
//   - Issue more than one refresh network call for any burst of concurrent
//     401 responses.
//
// # Session domains
//
// A regular company user and the SaaS platform operator authenticate into
// independent sessions. Build one Engine per domain; the two never share
// storage keys or refresh flights.
package sessionkit
