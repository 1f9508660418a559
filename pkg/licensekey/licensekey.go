// Package licensekey generates and validates the human-displayable license
// keys handed to customers. Keys look like XXXX-XXXX-XXXX-XXXX where X is an
// uppercase letter or digit, giving a 36^16 keyspace. Uniqueness against the
// store is the caller's job (see service.LicenseService).
package licensekey

import (
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// charset is the unambiguous-enough alphanumeric alphabet keys are
	// drawn from. 36 characters, so rejection sampling below keeps the
	// draw unbiased.
	charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	groups    = 4
	groupSize = 4
)

// ErrInvalid reports a string that is not a well-formed license key.
var ErrInvalid = errors.New("licensekey: invalid key")

var keyPattern = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// New generates a fresh random license key.
func New() (string, error) {
	chars := make([]byte, groups*groupSize)
	if err := fillUnbiased(chars); err != nil {
		return "", fmt.Errorf("licensekey: %w", err)
	}

	var b strings.Builder
	b.Grow(groups*groupSize + groups - 1)
	for i, c := range chars {
		if i > 0 && i%groupSize == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// fillUnbiased fills dst with random charset characters. Bytes >= 252 are
// discarded rather than folded, since 256 is not a multiple of 36.
func fillUnbiased(dst []byte) error {
	const limit = byte(len(charset) * (256 / len(charset))) // 252

	filled := 0
	buf := make([]byte, len(dst)*2)
	for filled < len(dst) {
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			dst[filled] = charset[int(b)%len(charset)]
			filled++
			if filled == len(dst) {
				break
			}
		}
	}
	return nil
}

// Valid reports whether s is a well-formed license key.
func Valid(s string) bool {
	return keyPattern.MatchString(s)
}

// Normalize uppercases and re-hyphenates user input (customers paste keys
// with stray whitespace, lowercase, or missing dashes) and validates the
// result. Returns ErrInvalid if the input cannot be a key.
func Normalize(s string) (string, error) {
	stripped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return -1 // drop dashes, spaces, everything else
		}
	}, s)

	if len(stripped) != groups*groupSize {
		return "", ErrInvalid
	}

	var b strings.Builder
	b.Grow(groups*groupSize + groups - 1)
	for i := 0; i < len(stripped); i += groupSize {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(stripped[i : i+groupSize])
	}

	key := b.String()
	if !Valid(key) {
		return "", ErrInvalid
	}
	return key, nil
}
