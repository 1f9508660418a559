package domain

import "time"

// LicenseType tiers. access_pass is accepted on order items but never
// materialises as a License row; it routes to AccessPass creation instead.
type LicenseType string

const (
	LicenseTypeBasic      LicenseType = "basic"
	LicenseTypeExtended   LicenseType = "extended"
	LicenseTypeAccessPass LicenseType = "access_pass"
)

// LicenseStatus values. Only active licenses authorize downloads; expiry is
// additionally checked against ExpiresAt at read time, so a lapsed license
// can still carry status "active" until housekeeping catches up.
type LicenseStatus string

const (
	LicenseStatusActive    LicenseStatus = "active"
	LicenseStatusSuspended LicenseStatus = "suspended"
	LicenseStatusExpired   LicenseStatus = "expired"
	LicenseStatusRevoked   LicenseStatus = "revoked"
)

// License is one grant of download rights for one product to one user.
type License struct {
	ID         string
	LicenseKey string // human-displayable, XXXX-XXXX-XXXX-XXXX
	UserID     string
	ProductID  string
	OrderID    string

	LicenseType LicenseType
	Status      LicenseStatus

	DownloadCount  int64
	DownloadLimit  *int64 // nil = unlimited
	IssuedAt       time.Time
	ExpiresAt      *time.Time // nil = perpetual
	LastDownloadAt *time.Time

	// Purchase metadata carried over from the order. PaymentRef is the
	// payment provider's reference (e.g. a Stripe payment intent ID);
	// opaque to this service.
	PriceCents int64
	Currency   string
	PaymentRef string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the license has lapsed by time, independent of its
// stored status.
func (l License) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// LimitReached reports whether the download quota is exhausted. Unlimited
// licenses never reach a limit.
func (l License) LimitReached() bool {
	return l.DownloadLimit != nil && l.DownloadCount >= *l.DownloadLimit
}

// ValidLicenseType reports whether t is a known license type.
func ValidLicenseType(t LicenseType) bool {
	switch t {
	case LicenseTypeBasic, LicenseTypeExtended, LicenseTypeAccessPass:
		return true
	}
	return false
}
