package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is an exported constant or variable used by the session engine.
var ErrMalformed = errors.New("jwt: malformed token")

// ErrNoExpiry is an exported constant or variable used by the session engine.
var ErrNoExpiry = errors.New("jwt: token carries no exp claim")

// Claims is the subset of access-token claims the client inspects. Values are
// taken on trust; nothing here is signature-checked.
type Claims struct {
	Subject   string
	Email     string
	Role      string
	CompanyID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type accessClaims struct {
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
	jwt.RegisteredClaims
}

// Decoder defines a public type used by sessionkit APIs.
//
// Decoder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Decoder struct {
	leeway time.Duration
	now    func() time.Time
}

// NewDecoder describes the newdecoder operation and its observable behavior.
//
// NewDecoder may return an error when input validation, dependency calls, or security checks fail.
// NewDecoder does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewDecoder(leeway time.Duration) (*Decoder, error) {
	if leeway < 0 || leeway > 2*time.Minute {
		return nil, errors.New("jwt: invalid leeway configuration")
	}
	return &Decoder{leeway: leeway, now: time.Now}, nil
}

// WithClock replaces the decoder's time source. Test hook.
func (d *Decoder) WithClock(now func() time.Time) *Decoder {
	d.now = now
	return d
}

// Decode parses the token payload without verifying the signature and returns
// the claims the client cares about.
func (d *Decoder) Decode(token string) (*Claims, error) {
	var raw accessClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &raw); err != nil {
		return nil, ErrMalformed
	}

	c := &Claims{
		Subject:   raw.Subject,
		Email:     raw.Email,
		Role:      raw.Role,
		CompanyID: raw.CompanyID,
	}
	if raw.IssuedAt != nil {
		c.IssuedAt = raw.IssuedAt.Time
	}
	if raw.ExpiresAt != nil {
		c.ExpiresAt = raw.ExpiresAt.Time
	}
	return c, nil
}

// ExpiresAt returns the token's expiry instant. A token without an exp claim
// fails with [ErrNoExpiry].
func (d *Decoder) ExpiresAt(token string) (time.Time, error) {
	c, err := d.Decode(token)
	if err != nil {
		return time.Time{}, err
	}
	if c.ExpiresAt.IsZero() {
		return time.Time{}, ErrNoExpiry
	}
	return c.ExpiresAt, nil
}

// Alive reports whether the token decodes and its exp claim, widened by the
// configured leeway, is still in the future. Any decode failure or missing
// exp claim reports false.
func (d *Decoder) Alive(token string) bool {
	if d == nil || token == "" {
		return false
	}
	exp, err := d.ExpiresAt(token)
	if err != nil {
		return false
	}
	return d.now().Before(exp.Add(d.leeway))
}
