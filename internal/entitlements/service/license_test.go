package service

import (
	"context"
	"testing"
	"time"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/assetdeck/entitlements/pkg/licensekey"
	"github.com/stretchr/testify/require"
)

func TestGenerateLicenseTierDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &LicenseService{Store: s}

	t.Run("basic", func(t *testing.T) {
		lic, err := svc.GenerateLicense(ctx, GenerateLicenseParams{
			UserID:      "user-1",
			ProductID:   "product-1",
			OrderID:     "order-1",
			LicenseType: domain.LicenseTypeBasic,
			PriceCents:  2900,
			Currency:    "USD",
		})
		require.NoError(t, err)

		require.True(t, licensekey.Valid(lic.LicenseKey))
		require.Equal(t, domain.LicenseStatusActive, lic.Status)
		require.NotNil(t, lic.DownloadLimit)
		require.Equal(t, int64(10), *lic.DownloadLimit)
		require.NotNil(t, lic.ExpiresAt)
		require.WithinDuration(t, time.Now().Add(365*24*time.Hour), *lic.ExpiresAt, time.Minute)

		// Issuance persists, not just returns.
		stored, err := s.Licenses().GetLicenseForUser(ctx, lic.ID, "user-1")
		require.NoError(t, err)
		require.Equal(t, lic.LicenseKey, stored.LicenseKey)
	})

	t.Run("extended is unlimited and perpetual", func(t *testing.T) {
		lic, err := svc.GenerateLicense(ctx, GenerateLicenseParams{
			UserID:      "user-1",
			ProductID:   "product-2",
			OrderID:     "order-1",
			LicenseType: domain.LicenseTypeExtended,
		})
		require.NoError(t, err)
		require.Nil(t, lic.DownloadLimit)
		require.Nil(t, lic.ExpiresAt)
	})

	t.Run("access_pass is not a license", func(t *testing.T) {
		_, err := svc.GenerateLicense(ctx, GenerateLicenseParams{
			UserID:      "user-1",
			LicenseType: domain.LicenseTypeAccessPass,
		})
		require.ErrorIs(t, err, ErrNotALicense)
	})

	t.Run("unknown tier", func(t *testing.T) {
		_, err := svc.GenerateLicense(ctx, GenerateLicenseParams{
			UserID:      "user-1",
			LicenseType: domain.LicenseType("platinum"),
		})
		require.ErrorIs(t, err, ErrInvalidLicenseType)
	})
}

func TestGenerateOrderLicenses(t *testing.T) {
	ctx := context.Background()

	t.Run("one license per item", func(t *testing.T) {
		s := newTestStore(t)
		passes := &AccessPassService{Store: s}
		svc := &LicenseService{Store: s, Passes: passes}

		issued, err := svc.GenerateOrderLicenses(ctx, GenerateOrderLicensesParams{
			UserID:  "user-1",
			OrderID: "order-7",
			Items: []OrderItem{
				{ProductID: "product-1", LicenseType: domain.LicenseTypeBasic, Quantity: 1, PriceCents: 2900, Currency: "USD"},
				{ProductID: "product-2", LicenseType: domain.LicenseTypeExtended, Quantity: 1, PriceCents: 9900, Currency: "USD"},
			},
		})
		require.NoError(t, err)
		require.Len(t, issued, 2)

		require.NotNil(t, issued[0].DownloadLimit)
		require.Nil(t, issued[1].DownloadLimit)
		for _, lic := range issued {
			require.Equal(t, "order-7", lic.OrderID)
			require.True(t, licensekey.Valid(lic.LicenseKey))
		}
	})

	t.Run("quantity expands to one license per unit", func(t *testing.T) {
		s := newTestStore(t)
		svc := &LicenseService{Store: s, Passes: &AccessPassService{Store: s}}

		issued, err := svc.GenerateOrderLicenses(ctx, GenerateOrderLicensesParams{
			UserID:  "user-1",
			OrderID: "order-8",
			Items: []OrderItem{
				{ProductID: "product-1", LicenseType: domain.LicenseTypeBasic, Quantity: 3},
			},
		})
		require.NoError(t, err)
		require.Len(t, issued, 3)

		keys := map[string]bool{}
		for _, lic := range issued {
			keys[lic.LicenseKey] = true
		}
		require.Len(t, keys, 3)
	})

	t.Run("subscription item creates a pass instead", func(t *testing.T) {
		s := newTestStore(t)
		passes := &AccessPassService{Store: s}
		svc := &LicenseService{Store: s, Passes: passes}

		issued, err := svc.GenerateOrderLicenses(ctx, GenerateOrderLicensesParams{
			UserID:     "user-1",
			OrderID:    "order-9",
			PaymentRef: "sub_123",
			Items: []OrderItem{
				{LicenseType: domain.LicenseTypeAccessPass, PassType: domain.PassTypeYearly, PriceCents: 19900, Currency: "USD"},
			},
		})
		require.NoError(t, err)
		require.Empty(t, issued)

		pass, err := passes.GetActive(ctx, "user-1")
		require.NoError(t, err)
		require.Equal(t, domain.PassTypeYearly, pass.PassType)
		require.Equal(t, "sub_123", pass.PaymentRef)
	})

	t.Run("empty order", func(t *testing.T) {
		s := newTestStore(t)
		svc := &LicenseService{Store: s, Passes: &AccessPassService{Store: s}}

		_, err := svc.GenerateOrderLicenses(ctx, GenerateOrderLicensesParams{UserID: "user-1", OrderID: "order-0"})
		require.ErrorIs(t, err, ErrEmptyOrder)
	})
}

func TestGetUserLicenses(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &LicenseService{Store: s}

	seedLicense(t, s, func(l *domain.License) { l.ProductID = "product-1" })
	seedLicense(t, s, func(l *domain.License) { l.ProductID = "product-2" })
	seedLicense(t, s, func(l *domain.License) { l.UserID = "someone-else" })

	licenses, err := svc.GetUserLicenses(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, licenses, 2)
}

func TestGetLicenseByKey(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &LicenseService{Store: s}
	lic := seedLicense(t, s, nil)

	t.Run("exact key", func(t *testing.T) {
		got, err := svc.GetLicenseByKey(ctx, lic.LicenseKey)
		require.NoError(t, err)
		require.Equal(t, lic.ID, got.ID)
	})

	t.Run("messy input is normalized", func(t *testing.T) {
		messy := "  " + lic.LicenseKey[:9] + lic.LicenseKey[10:] + " " // drop a dash, pad
		got, err := svc.GetLicenseByKey(ctx, messy)
		require.NoError(t, err)
		require.Equal(t, lic.ID, got.ID)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := svc.GetLicenseByKey(ctx, "AAAA-BBBB-CCCC-DDDD")
		require.ErrorIs(t, err, ErrLicenseNotFound)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := svc.GetLicenseByKey(ctx, "not a key")
		require.ErrorIs(t, err, ErrLicenseNotFound)
	})
}

func TestLicenseStatusTransitions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &LicenseService{Store: s}

	t.Run("suspend then reinstate", func(t *testing.T) {
		lic := seedLicense(t, s, func(l *domain.License) { l.ProductID = "product-s" })

		require.NoError(t, svc.SuspendLicense(ctx, lic.ID, lic.UserID))
		got, err := s.Licenses().GetLicenseForUser(ctx, lic.ID, lic.UserID)
		require.NoError(t, err)
		require.Equal(t, domain.LicenseStatusSuspended, got.Status)

		require.NoError(t, svc.ReinstateLicense(ctx, lic.ID, lic.UserID))
		got, err = s.Licenses().GetLicenseForUser(ctx, lic.ID, lic.UserID)
		require.NoError(t, err)
		require.Equal(t, domain.LicenseStatusActive, got.Status)
	})

	t.Run("revoked is terminal", func(t *testing.T) {
		lic := seedLicense(t, s, func(l *domain.License) { l.ProductID = "product-r" })

		require.NoError(t, svc.RevokeLicense(ctx, lic.ID, lic.UserID))
		require.ErrorIs(t, svc.ReinstateLicense(ctx, lic.ID, lic.UserID), ErrInvalidTransition)
		require.ErrorIs(t, svc.SuspendLicense(ctx, lic.ID, lic.UserID), ErrInvalidTransition)
		require.ErrorIs(t, svc.RevokeLicense(ctx, lic.ID, lic.UserID), ErrInvalidTransition)
	})

	t.Run("unknown license", func(t *testing.T) {
		require.ErrorIs(t, svc.RevokeLicense(ctx, "nope", "user-1"), ErrLicenseNotFound)
	})

	t.Run("wrong owner", func(t *testing.T) {
		lic := seedLicense(t, s, func(l *domain.License) { l.ProductID = "product-w" })
		require.ErrorIs(t, svc.SuspendLicense(ctx, lic.ID, "intruder"), ErrLicenseNotFound)
	})
}
