// Package jwtx wraps github.com/golang-jwt/jwt/v5 for service-to-service
// bearer tokens. The entitlement service does not mint end-user tokens; the
// storefront backend authenticates to it with short-lived HS256 tokens
// signed with a shared secret.
package jwtx

import (
	"errors"
	"time"
)

// DefaultServiceTokenTTL is the default lifetime for service tokens.
// Short-lived since callers can mint new ones cheaply.
const DefaultServiceTokenTTL = 15 * time.Minute

// Verifier validates a JWT and returns the claims if it is legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)
