package service

import (
	"context"
	"testing"
	"time"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/assetdeck/entitlements/internal/entitlements/store"
	"github.com/assetdeck/entitlements/internal/entitlements/store/drivers/sqlite"
	"github.com/assetdeck/entitlements/pkg/idx"
	"github.com/assetdeck/entitlements/pkg/licensekey"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

// seedLicense inserts a license with sensible defaults, letting tests tweak
// individual fields.
func seedLicense(t *testing.T, s store.Store, mutate func(*domain.License)) domain.License {
	t.Helper()

	limit := int64(10)
	expires := time.Now().Add(30 * 24 * time.Hour)
	lic := domain.License{
		ID:            idx.New().String(),
		LicenseKey:    mustKey(t),
		UserID:        "user-1",
		ProductID:     "product-1",
		OrderID:       "order-1",
		LicenseType:   domain.LicenseTypeBasic,
		Status:        domain.LicenseStatusActive,
		DownloadLimit: &limit,
		IssuedAt:      time.Now(),
		ExpiresAt:     &expires,
		PriceCents:    4900,
		Currency:      "USD",
	}
	if mutate != nil {
		mutate(&lic)
	}
	require.NoError(t, s.Licenses().CreateLicense(context.Background(), lic))
	return lic
}

func seedPass(t *testing.T, s store.Store, mutate func(*domain.AccessPass)) domain.AccessPass {
	t.Helper()

	end := time.Now().AddDate(0, 1, 0)
	pass := domain.AccessPass{
		ID:                 idx.New().String(),
		UserID:             "user-1",
		PassType:           domain.PassTypeMonthly,
		Status:             domain.PassStatusActive,
		CurrentPeriodStart: time.Now(),
		CurrentPeriodEnd:   &end,
		AmountCents:        1900,
		Currency:           "USD",
		Interval:           "month",
	}
	if mutate != nil {
		mutate(&pass)
	}
	require.NoError(t, s.AccessPasses().CreateAccessPass(context.Background(), pass))
	return pass
}

func mustKey(t *testing.T) string {
	t.Helper()
	key, err := licensekey.New()
	require.NoError(t, err)
	return key
}

func TestValidateDownloadAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("specific license authorizes", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		lic := seedLicense(t, s, nil)

		dec, err := svc.ValidateDownloadAccess(ctx, lic.UserID, "", lic.ID)
		require.NoError(t, err)
		require.True(t, dec.CanDownload)
		require.Equal(t, domain.AccessMethodLicense, dec.Method)
		require.NotNil(t, dec.License)
		require.Equal(t, lic.ID, dec.License.ID)
	})

	t.Run("unknown license id", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}

		dec, err := svc.ValidateDownloadAccess(ctx, "user-1", "", "no-such-license")
		require.NoError(t, err)
		require.False(t, dec.CanDownload)
		require.Equal(t, "License not found", dec.Reason)
	})

	t.Run("license owned by someone else is not found", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		lic := seedLicense(t, s, nil)

		dec, err := svc.ValidateDownloadAccess(ctx, "other-user", "", lic.ID)
		require.NoError(t, err)
		require.False(t, dec.CanDownload)
		require.Equal(t, "License not found", dec.Reason)
	})

	t.Run("suspended license reports its status", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		lic := seedLicense(t, s, func(l *domain.License) {
			l.Status = domain.LicenseStatusSuspended
		})

		dec, err := svc.ValidateDownloadAccess(ctx, lic.UserID, "", lic.ID)
		require.NoError(t, err)
		require.False(t, dec.CanDownload)
		require.Equal(t, "License is suspended", dec.Reason)
	})

	t.Run("expired license denied regardless of quota", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		lic := seedLicense(t, s, func(l *domain.License) {
			past := time.Now().Add(-time.Hour)
			l.ExpiresAt = &past
		})

		dec, err := svc.ValidateDownloadAccess(ctx, lic.UserID, "", lic.ID)
		require.NoError(t, err)
		require.False(t, dec.CanDownload)
		require.Equal(t, "License has expired", dec.Reason)
	})

	t.Run("exhausted quota", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		lic := seedLicense(t, s, func(l *domain.License) {
			l.DownloadCount = 10
		})

		dec, err := svc.ValidateDownloadAccess(ctx, lic.UserID, "", lic.ID)
		require.NoError(t, err)
		require.False(t, dec.CanDownload)
		require.Equal(t, "Download limit exceeded", dec.Reason)
	})

	t.Run("status checked before expiry", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		lic := seedLicense(t, s, func(l *domain.License) {
			l.Status = domain.LicenseStatusRevoked
			past := time.Now().Add(-time.Hour)
			l.ExpiresAt = &past
		})

		dec, err := svc.ValidateDownloadAccess(ctx, lic.UserID, "", lic.ID)
		require.NoError(t, err)
		require.Equal(t, "License is revoked", dec.Reason)
	})

	t.Run("active pass grants blanket access", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		pass := seedPass(t, s, nil)

		dec, err := svc.ValidateDownloadAccess(ctx, pass.UserID, "any-product", "")
		require.NoError(t, err)
		require.True(t, dec.CanDownload)
		require.Equal(t, domain.AccessMethodAccessPass, dec.Method)
		require.NotNil(t, dec.AccessPass)
	})

	t.Run("pass takes precedence over expired product license", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		seedLicense(t, s, func(l *domain.License) {
			past := time.Now().Add(-time.Hour)
			l.ExpiresAt = &past
		})
		seedPass(t, s, func(p *domain.AccessPass) {
			p.PassType = domain.PassTypeLifetime
			p.CurrentPeriodEnd = nil
			p.Interval = ""
		})

		dec, err := svc.ValidateDownloadAccess(ctx, "user-1", "product-1", "")
		require.NoError(t, err)
		require.True(t, dec.CanDownload)
		require.Equal(t, domain.AccessMethodAccessPass, dec.Method)
	})

	t.Run("lapsed pass does not authorize", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		seedPass(t, s, func(p *domain.AccessPass) {
			past := time.Now().Add(-time.Hour)
			p.CurrentPeriodEnd = &past
		})

		dec, err := svc.ValidateDownloadAccess(ctx, "user-1", "", "")
		require.NoError(t, err)
		require.False(t, dec.CanDownload)
		require.Equal(t, "No valid license or access pass found", dec.Reason)
	})

	t.Run("product license found without explicit id", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		lic := seedLicense(t, s, nil)

		dec, err := svc.ValidateDownloadAccess(ctx, lic.UserID, lic.ProductID, "")
		require.NoError(t, err)
		require.True(t, dec.CanDownload)
		require.Equal(t, domain.AccessMethodLicense, dec.Method)
	})

	t.Run("product license surfaces the specific reason", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		seedLicense(t, s, func(l *domain.License) {
			l.DownloadCount = 10
		})

		dec, err := svc.ValidateDownloadAccess(ctx, "user-1", "product-1", "")
		require.NoError(t, err)
		require.False(t, dec.CanDownload)
		require.Equal(t, "Download limit exceeded", dec.Reason)
	})

	t.Run("nothing at all", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}

		dec, err := svc.ValidateDownloadAccess(ctx, "user-1", "", "")
		require.NoError(t, err)
		require.False(t, dec.CanDownload)
		require.Equal(t, domain.AccessMethodNone, dec.Method)
		require.Equal(t, "No valid license or access pass found", dec.Reason)
	})
}

func TestCheckAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("via access pass", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		seedPass(t, s, nil)

		check, err := svc.CheckAccess(ctx, "user-1", "")
		require.NoError(t, err)
		require.True(t, check.HasAccess)
		require.Equal(t, domain.AccessMethodAccessPass, check.Method)
	})

	t.Run("via product license", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		seedLicense(t, s, nil)

		check, err := svc.CheckAccess(ctx, "user-1", "product-1")
		require.NoError(t, err)
		require.True(t, check.HasAccess)
		require.Equal(t, domain.AccessMethodLicense, check.Method)
	})

	t.Run("exhausted license fails the existence query", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}
		seedLicense(t, s, func(l *domain.License) {
			l.DownloadCount = 10
		})

		check, err := svc.CheckAccess(ctx, "user-1", "product-1")
		require.NoError(t, err)
		require.False(t, check.HasAccess)
		require.Equal(t, domain.AccessMethodNone, check.Method)
	})

	t.Run("no entitlement", func(t *testing.T) {
		s := newTestStore(t)
		svc := &AccessService{Store: s}

		check, err := svc.CheckAccess(ctx, "user-1", "product-1")
		require.NoError(t, err)
		require.False(t, check.HasAccess)
	})
}
