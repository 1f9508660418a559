package linktoken

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("link-signing-secret-for-tests-0123456789")

func newSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(testSecret)
	require.NoError(t, err)
	return s
}

func TestNewSignerRejectsEmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewSigner(nil)
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	s := newSigner(t)
	token := s.Generate("user-1", "product-9", "license-42")

	res := s.Verify(token)
	require.True(t, res.Valid)
	require.False(t, res.Expired)
	require.Equal(t, "user-1", res.UserID)
	require.Equal(t, "product-9", res.ProductID)
	require.Equal(t, "license-42", res.LicenseID)
}

func TestExpiryWindow(t *testing.T) {
	t.Parallel()

	s := newSigner(t)
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token := s.GenerateAt("user-1", "product-9", "license-42", issued)

	t.Run("valid just inside 24h", func(t *testing.T) {
		res := s.VerifyAt(token, issued.Add(24*time.Hour-time.Second))
		require.True(t, res.Valid)
		require.False(t, res.Expired)
	})

	t.Run("expired at 25h", func(t *testing.T) {
		res := s.VerifyAt(token, issued.Add(25*time.Hour))
		require.False(t, res.Valid)
		require.True(t, res.Expired)
		require.Equal(t, issued, res.IssuedAt)
	})
}

func TestTamperedPayloadRejected(t *testing.T) {
	t.Parallel()

	s := newSigner(t)
	token := s.Generate("user-1", "product-9", "license-42")

	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)

	// Swap the user ID but keep the original signature.
	tampered := strings.Replace(string(raw), "user-1", "user-2", 1)
	forged := base64.RawURLEncoding.EncodeToString([]byte(tampered))

	res := s.Verify(forged)
	require.False(t, res.Valid)
	require.False(t, res.Expired)
	require.Empty(t, res.UserID)
}

func TestWrongSecretRejected(t *testing.T) {
	t.Parallel()

	s := newSigner(t)
	other, err := NewSigner([]byte("a-completely-different-signing-secret"))
	require.NoError(t, err)

	token := s.Generate("user-1", "product-9", "license-42")
	res := other.Verify(token)
	require.False(t, res.Valid)
}

func TestMalformedInputRejected(t *testing.T) {
	t.Parallel()

	s := newSigner(t)

	for _, input := range []string{
		"",
		"not-base64!!!",
		base64.RawURLEncoding.EncodeToString([]byte("only:three:parts")),
		base64.RawURLEncoding.EncodeToString([]byte("a:b:c:not-a-timestamp:deadbeef")),
	} {
		res := s.Verify(input)
		require.False(t, res.Valid, "input %q", input)
		require.False(t, res.Expired, "input %q", input)
	}
}
