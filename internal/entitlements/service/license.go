package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/assetdeck/entitlements/internal/entitlements/store"
	"github.com/assetdeck/entitlements/pkg/idx"
	"github.com/assetdeck/entitlements/pkg/licensekey"
	"github.com/assetdeck/entitlements/pkg/slogx"
)

const (
	// BasicDownloadLimit is the quota assigned to basic-tier licenses.
	BasicDownloadLimit int64 = 10

	// BasicValidity is how long a basic-tier license lives after issuance.
	// Extended licenses are perpetual.
	BasicValidity = 365 * 24 * time.Hour

	// maxKeyAttempts bounds the key generation retry loop. The keyspace is
	// 36^16, so more than one retry is already extraordinary.
	maxKeyAttempts = 5
)

var (
	ErrInvalidLicenseType = errors.New("invalid_license_type")
	ErrNotALicense        = errors.New("access_pass_is_not_a_license")
	ErrKeySpaceExhausted  = errors.New("license_key_generation_exhausted")
	ErrInvalidTransition  = errors.New("invalid_status_transition")
	ErrEmptyOrder         = errors.New("order_has_no_items")
)

// LicenseService issues licenses at order completion and handles
// administrative status transitions.
type LicenseService struct {
	Store store.Store
	Clock Clock

	// Passes handles order items of type access_pass, which create a
	// subscription pass instead of a license row.
	Passes *AccessPassService
}

// GenerateLicenseParams are the inputs for a single license issuance.
type GenerateLicenseParams struct {
	UserID      string
	ProductID   string
	OrderID     string
	LicenseType domain.LicenseType

	PriceCents int64
	Currency   string
	PaymentRef string
}

// GenerateLicense creates one license, applying the tier policy at
// issuance: basic gets a download quota and a one-year expiry, extended is
// unlimited and perpetual. The access_pass type never materialises as a
// license; callers route those through GenerateOrderLicenses or
// AccessPassService directly.
func (s *LicenseService) GenerateLicense(ctx context.Context, p GenerateLicenseParams) (*domain.License, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	if !domain.ValidLicenseType(p.LicenseType) {
		return nil, ErrInvalidLicenseType
	}
	if p.LicenseType == domain.LicenseTypeAccessPass {
		return nil, ErrNotALicense
	}

	lic := domain.License{
		ID:          idx.New().String(),
		UserID:      p.UserID,
		ProductID:   p.ProductID,
		OrderID:     p.OrderID,
		LicenseType: p.LicenseType,
		Status:      domain.LicenseStatusActive,
		IssuedAt:    now,
		PriceCents:  p.PriceCents,
		Currency:    p.Currency,
		PaymentRef:  p.PaymentRef,
	}

	if p.LicenseType == domain.LicenseTypeBasic {
		limit := BasicDownloadLimit
		expires := now.Add(BasicValidity)
		lic.DownloadLimit = &limit
		lic.ExpiresAt = &expires
	}

	// Key uniqueness is probabilistic at generation time, so check and
	// retry. The UNIQUE constraint on license_key backstops the race
	// between the check and the insert.
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key, err := licensekey.New()
		if err != nil {
			return nil, err
		}

		taken, err := s.Store.Licenses().KeyExists(ctx, key)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		lic.LicenseKey = key
		err = s.Store.Licenses().CreateLicense(ctx, lic)
		if errors.Is(err, store.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return nil, err
		}

		l.Info("license issued",
			slog.String("license_id", lic.ID),
			slog.String("user_id", lic.UserID),
			slog.String("product_id", lic.ProductID),
			slog.String("type", string(lic.LicenseType)),
		)
		return &lic, nil
	}

	return nil, ErrKeySpaceExhausted
}

// OrderItem is one purchased line of an order.
type OrderItem struct {
	ProductID   string
	LicenseType domain.LicenseType
	Quantity    int

	// PassType is required when LicenseType is access_pass.
	PassType domain.PassType

	PriceCents int64
	Currency   string
}

// GenerateOrderLicensesParams cover one completed order.
type GenerateOrderLicensesParams struct {
	UserID     string
	OrderID    string
	PaymentRef string
	Items      []OrderItem
}

// GenerateOrderLicenses issues entitlements for a completed order: one
// license per item unit (quantity N yields N licenses), and an access pass
// for subscription items. Issuance stops at the first failure; licenses
// already created for earlier items remain (the order processor re-runs
// completion on retry and the storefront reconciles duplicates by order ID).
func (s *LicenseService) GenerateOrderLicenses(ctx context.Context, p GenerateOrderLicensesParams) ([]domain.License, error) {
	if len(p.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var issued []domain.License
	for _, item := range p.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}

		if item.LicenseType == domain.LicenseTypeAccessPass {
			_, err := s.Passes.Create(ctx, CreatePassParams{
				UserID:      p.UserID,
				PassType:    item.PassType,
				AmountCents: item.PriceCents,
				Currency:    item.Currency,
				PaymentRef:  p.PaymentRef,
			})
			if err != nil {
				return issued, err
			}
			continue
		}

		for i := 0; i < qty; i++ {
			lic, err := s.GenerateLicense(ctx, GenerateLicenseParams{
				UserID:      p.UserID,
				ProductID:   item.ProductID,
				OrderID:     p.OrderID,
				LicenseType: item.LicenseType,
				PriceCents:  item.PriceCents,
				Currency:    item.Currency,
				PaymentRef:  p.PaymentRef,
			})
			if err != nil {
				return issued, err
			}
			issued = append(issued, *lic)
		}
	}

	return issued, nil
}

// GetUserLicenses returns all of a user's licenses, newest first.
func (s *LicenseService) GetUserLicenses(ctx context.Context, userID string) ([]domain.License, error) {
	return s.Store.Licenses().ListLicensesByUser(ctx, userID)
}

// GetLicenseByKey looks up a license by its displayable key, tolerating
// whatever casing and separators the user typed.
func (s *LicenseService) GetLicenseByKey(ctx context.Context, key string) (*domain.License, error) {
	normalized, err := licensekey.Normalize(key)
	if err != nil {
		return nil, ErrLicenseNotFound
	}
	lic, err := s.Store.Licenses().GetLicenseByKey(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLicenseNotFound
		}
		return nil, err
	}
	return &lic, nil
}

// RevokeLicense permanently disables a license. Terminal; a revoked license
// cannot be reinstated.
func (s *LicenseService) RevokeLicense(ctx context.Context, licenseID, userID string) error {
	return s.transition(ctx, licenseID, userID, domain.LicenseStatusRevoked, func(cur domain.LicenseStatus) bool {
		return cur != domain.LicenseStatusRevoked
	})
}

// SuspendLicense temporarily disables an active license.
func (s *LicenseService) SuspendLicense(ctx context.Context, licenseID, userID string) error {
	return s.transition(ctx, licenseID, userID, domain.LicenseStatusSuspended, func(cur domain.LicenseStatus) bool {
		return cur == domain.LicenseStatusActive
	})
}

// ReinstateLicense restores a suspended license to active. Time-based
// expiry still applies at authorization, so reinstating a lapsed license
// does not resurrect it.
func (s *LicenseService) ReinstateLicense(ctx context.Context, licenseID, userID string) error {
	return s.transition(ctx, licenseID, userID, domain.LicenseStatusActive, func(cur domain.LicenseStatus) bool {
		return cur == domain.LicenseStatusSuspended
	})
}

func (s *LicenseService) transition(ctx context.Context, licenseID, userID string, to domain.LicenseStatus, allowed func(domain.LicenseStatus) bool) error {
	l := slogx.FromContext(ctx)

	lic, err := s.Store.Licenses().GetLicenseForUser(ctx, licenseID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrLicenseNotFound
		}
		return err
	}
	if !allowed(lic.Status) {
		return ErrInvalidTransition
	}

	if err := s.Store.Licenses().UpdateStatus(ctx, licenseID, to); err != nil {
		return err
	}

	l.Info("license status changed",
		slog.String("license_id", licenseID),
		slog.String("from", string(lic.Status)),
		slog.String("to", string(to)),
	)
	return nil
}
