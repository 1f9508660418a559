package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "entitlements-test"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func signerVerifier(t *testing.T) (*HS256Signer, *HS256Verifier) {
	t.Helper()

	signer, err := NewSignerHS256(testSecret)
	require.NoError(t, err)

	verifier, err := NewVerifierHS256(testSecret, testIssuer, []string{"entitlements"})
	require.NoError(t, err)

	return signer, verifier
}

func TestHS256RoundTrip(t *testing.T) {
	t.Parallel()

	signer, verifier := signerVerifier(t)

	claims := NewServiceClaims(
		"storefront",
		[]string{"licenses:write", "downloads:record"},
		time.Minute,
		testIssuer,
		[]string{"entitlements"},
		time.Now(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "storefront", got.Subject)
	require.Equal(t, []string{"licenses:write", "downloads:record"}, got.Scopes)
}

func TestHS256RejectsExpired(t *testing.T) {
	t.Parallel()

	signer, verifier := signerVerifier(t)

	claims := NewServiceClaims(
		"storefront", nil, time.Minute, testIssuer, []string{"entitlements"},
		time.Now().Add(-2*time.Minute),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestHS256RejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer, verifier := signerVerifier(t)

	claims := NewServiceClaims(
		"storefront", nil, time.Minute, "someone-else", []string{"entitlements"},
		time.Now(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestHS256RejectsTamperedToken(t *testing.T) {
	t.Parallel()

	signer, verifier := signerVerifier(t)

	claims := NewServiceClaims(
		"storefront", nil, time.Minute, testIssuer, []string{"entitlements"},
		time.Now(),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = verifier.Verify(tampered)
	require.Error(t, err)
}

func TestHS256RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewSignerHS256([]byte("too-short"))
	require.Error(t, err)

	_, err = NewVerifierHS256([]byte("too-short"), testIssuer, nil)
	require.Error(t, err)
}
