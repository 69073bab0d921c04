// Package jwt decodes access-token claims on the client side without
// signature verification. The platform backend is the sole verifier; this
// package only answers "has this token's exp claim lapsed" so the engine can
// avoid a server round trip. Malformed input is reported as an error, never a
// panic, and callers must treat any decode failure as "not authenticated".
package jwt
