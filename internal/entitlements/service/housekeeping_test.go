package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweep(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	lapsedLicense := seedLicense(t, s, func(l *domain.License) {
		past := time.Now().Add(-time.Hour)
		l.ExpiresAt = &past
	})
	freshLicense := seedLicense(t, s, func(l *domain.License) {
		l.ProductID = "product-2"
	})
	lapsedPass := seedPass(t, s, func(p *domain.AccessPass) {
		past := time.Now().Add(-time.Hour)
		p.CurrentPeriodEnd = &past
	})
	cancelledPass := seedPass(t, s, func(p *domain.AccessPass) {
		p.UserID = "user-2"
		past := time.Now().Add(-time.Hour)
		p.CurrentPeriodEnd = &past
		p.CancelAtPeriodEnd = true
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hs := NewHousekeepingService(s, logger, time.Hour)
	hs.Start()
	hs.Stop()

	got, err := s.Licenses().GetLicenseForUser(ctx, lapsedLicense.ID, lapsedLicense.UserID)
	require.NoError(t, err)
	require.Equal(t, domain.LicenseStatusExpired, got.Status)

	got, err = s.Licenses().GetLicenseForUser(ctx, freshLicense.ID, freshLicense.UserID)
	require.NoError(t, err)
	require.Equal(t, domain.LicenseStatusActive, got.Status)

	pass, err := s.AccessPasses().GetPassForUser(ctx, lapsedPass.ID, lapsedPass.UserID)
	require.NoError(t, err)
	require.Equal(t, domain.PassStatusExpired, pass.Status)

	pass, err = s.AccessPasses().GetPassForUser(ctx, cancelledPass.ID, cancelledPass.UserID)
	require.NoError(t, err)
	require.Equal(t, domain.PassStatusCancelled, pass.Status)
}
