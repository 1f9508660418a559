package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// minSecretLen guards against accidentally deploying with a trivial secret.
// 32 bytes matches the HMAC-SHA256 block recommendation.
const minSecretLen = 32

// HS256Signer signs service tokens with a shared secret. Lives mostly in
// tests and tooling; production callers keep their own signing code.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 creates an HS256 signer from the shared secret.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("jwtx: HS256 secret must be at least %d bytes", minSecretLen)
	}
	return &HS256Signer{secret: secret}, nil
}

// Sign turns claims into a signed compact JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// HS256Verifier validates JWTs signed with the shared HS256 secret and
// enforces issuer/audience expectations.
type HS256Verifier struct {
	secret []byte
	issuer string
	aud    []string
}

// NewVerifierHS256 creates a verifier for tokens signed with secret.
func NewVerifierHS256(secret []byte, issuer string, aud []string) (*HS256Verifier, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("jwtx: HS256 secret must be at least %d bytes", minSecretLen)
	}
	return &HS256Verifier{secret: secret, issuer: issuer, aud: aud}, nil
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		default:
			return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.aud); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}
