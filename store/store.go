package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	keyAccess  = "access"
	keyRefresh = "refresh"
	keyUser    = "user"
	keyDevice  = "device"
	keyFlag    = "authed"
)

// Store persists one session domain's state under a namespaced key layout:
//
//	<namespace>:<domain>:access
//	<namespace>:<domain>:refresh
//	<namespace>:<domain>:user
//	<namespace>:<domain>:device
//	<namespace>:<domain>:authed
//
// plus one copy of the user record per configured legacy alias key. The store
// performs no validation; it is a thin, synchronous wrapper over [Backend].
type Store struct {
	backend Backend
	prefix  string
	aliases []string
	domain  Domain
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(backend Backend, namespace string, domain Domain, legacyUserKeys []string) (*Store, error) {
	if backend == nil {
		return nil, errors.New("store: backend required")
	}
	if namespace == "" {
		return nil, errors.New("store: namespace required")
	}
	if domain != DomainTenant && domain != DomainPlatform {
		return nil, fmt.Errorf("store: unknown session domain %q", domain)
	}

	s := &Store{
		backend: backend,
		prefix:  namespace + ":" + string(domain) + ":",
		domain:  domain,
	}
	for _, alias := range legacyUserKeys {
		if alias == "" {
			continue
		}
		s.aliases = append(s.aliases, namespace+":"+string(domain)+":"+alias)
	}
	return s, nil
}

// Domain describes the domain operation and its observable behavior.
//
// Domain does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Domain() Domain {
	return s.domain
}

func (s *Store) key(suffix string) string {
	return s.prefix + suffix
}

// SetTokens persists the token pair and raises the authenticated flag.
func (s *Store) SetTokens(ctx context.Context, pair TokenPair) error {
	if err := s.backend.Set(ctx, s.key(keyAccess), pair.AccessToken); err != nil {
		return err
	}
	if err := s.backend.Set(ctx, s.key(keyRefresh), pair.RefreshToken); err != nil {
		return err
	}
	return s.backend.Set(ctx, s.key(keyFlag), "1")
}

// AccessToken describes the accesstoken operation and its observable behavior.
//
// AccessToken may return an error when input validation, dependency calls, or security checks fail.
// AccessToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	return s.backend.Get(ctx, s.key(keyAccess))
}

// RefreshToken describes the refreshtoken operation and its observable behavior.
//
// RefreshToken may return an error when input validation, dependency calls, or security checks fail.
// RefreshToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	return s.backend.Get(ctx, s.key(keyRefresh))
}

// Authenticated reports whether the authenticated flag is raised. It says
// nothing about token validity.
func (s *Store) Authenticated(ctx context.Context) bool {
	v, err := s.backend.Get(ctx, s.key(keyFlag))
	return err == nil && v == "1"
}

// SetUser persists the user record under the canonical key and every
// configured legacy alias key.
func (s *Store) SetUser(ctx context.Context, u User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, s.key(keyUser), string(raw)); err != nil {
		return err
	}
	for _, alias := range s.aliases {
		if err := s.backend.Set(ctx, alias, string(raw)); err != nil {
			return err
		}
	}
	return nil
}

// User describes the user operation and its observable behavior.
//
// User may return an error when input validation, dependency calls, or security checks fail.
// User does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) User(ctx context.Context) (*User, error) {
	raw, err := s.backend.Get(ctx, s.key(keyUser))
	if err != nil {
		return nil, err
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("store: corrupt user record: %w", err)
	}
	return &u, nil
}

// SetDevice describes the setdevice operation and its observable behavior.
//
// SetDevice may return an error when input validation, dependency calls, or security checks fail.
// SetDevice does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) SetDevice(ctx context.Context, d Device) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, s.key(keyDevice), string(raw))
}

// Device describes the device operation and its observable behavior.
//
// Device may return an error when input validation, dependency calls, or security checks fail.
// Device does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Device(ctx context.Context) (*Device, error) {
	raw, err := s.backend.Get(ctx, s.key(keyDevice))
	if err != nil {
		return nil, err
	}
	var d Device
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("store: corrupt device record: %w", err)
	}
	return &d, nil
}

// Clear removes every key this store owns, legacy aliases included.
// Clearing an already-empty store is a no-op, not an error.
func (s *Store) Clear(ctx context.Context) error {
	keys := []string{
		s.key(keyAccess),
		s.key(keyRefresh),
		s.key(keyUser),
		s.key(keyDevice),
		s.key(keyFlag),
	}
	keys = append(keys, s.aliases...)
	return s.backend.Delete(ctx, keys...)
}
