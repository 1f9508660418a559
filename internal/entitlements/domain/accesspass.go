package domain

import "time"

type PassType string

const (
	PassTypeMonthly  PassType = "monthly"
	PassTypeYearly   PassType = "yearly"
	PassTypeLifetime PassType = "lifetime"
)

type PassStatus string

const (
	PassStatusActive    PassStatus = "active"
	PassStatusCancelled PassStatus = "cancelled"
	PassStatusExpired   PassStatus = "expired"
	PassStatusPastDue   PassStatus = "past_due"
	PassStatusPaused    PassStatus = "paused"
)

// AccessPass is a subscription granting unlimited downloads across all
// products for a billing period (or permanently, for lifetime passes).
// At most one active pass per user, enforced by query filtering.
type AccessPass struct {
	ID     string
	UserID string

	PassType PassType
	Status   PassStatus

	CurrentPeriodStart time.Time
	CurrentPeriodEnd   *time.Time // nil = lifetime
	CancelAtPeriodEnd  bool

	// Pricing as agreed at checkout.
	AmountCents int64
	Currency    string
	Interval    string // "month", "year", or "" for lifetime

	// Usage counters. DownloadsThisPeriod is monotonic; there is no
	// rollover reset (the billing collaborator owns period transitions).
	TotalDownloads      int64
	DownloadsThisPeriod int64
	LastDownloadAt      *time.Time

	// PaymentRef is the provider's subscription reference (e.g. a Stripe
	// subscription ID); opaque to this service.
	PaymentRef string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CurrentlyValid reports whether the pass period covers now: lifetime passes
// always do, otherwise the period end must be in the future.
func (p AccessPass) CurrentlyValid(now time.Time) bool {
	if p.PassType == PassTypeLifetime {
		return true
	}
	return p.CurrentPeriodEnd != nil && p.CurrentPeriodEnd.After(now)
}

// ValidPassType reports whether t is a known pass type.
func ValidPassType(t PassType) bool {
	switch t {
	case PassTypeMonthly, PassTypeYearly, PassTypeLifetime:
		return true
	}
	return false
}
