// Package api is the JSON/REST boundary to the platform backend. It owns the
// wire schemas for login, logout, refresh, workspace lookup, and company
// registration, and it parses every response into a typed record at the
// boundary so malformed backend payloads fail loudly here instead of leaking
// zero values into session state.
//
// # What this package must NOT do
//
//   - Persist anything; storage belongs to the store package.
//   - Classify failures into the engine's error taxonomy; it reports raw
//     [Error] values (status + server message) and lets the engine decide.
//   - Retry or refresh; the 401 path is the engine's responsibility.
package api
