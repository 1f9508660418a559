package entitlements_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/assetdeck/entitlements/pkg/entsdk"
	"github.com/stretchr/testify/require"
)

// TestOrderToDownloadFlow walks the full purchase path: an order is
// completed, licenses are issued per tier policy, and the buyer downloads
// until the basic-tier quota runs out.
func TestOrderToDownloadFlow(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := newClient(t, baseURL)
	ctx := context.Background()

	order, err := client.CompleteOrder(ctx, entsdk.CompleteOrderRequest{
		UserID:  "user-100",
		OrderID: "order-100",
		Items: []entsdk.OrderItemRequest{
			{ProductID: "icon-pack", LicenseType: "basic"},
			{ProductID: "ui-kit", LicenseType: "extended"},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Licenses, 2)

	var basic, extended entsdk.LicenseInfo
	for _, lic := range order.Licenses {
		switch lic.LicenseType {
		case "basic":
			basic = lic
		case "extended":
			extended = lic
		}
	}

	t.Run("basic tier carries a download limit and expiry", func(t *testing.T) {
		require.NotNil(t, basic.DownloadLimit)
		require.EqualValues(t, 10, *basic.DownloadLimit)
		require.NotNil(t, basic.ExpiresAt)
		require.Equal(t, "active", basic.Status)
		require.NotEmpty(t, basic.LicenseKey)
	})

	t.Run("extended tier is unlimited and perpetual", func(t *testing.T) {
		require.Nil(t, extended.DownloadLimit)
		require.Nil(t, extended.ExpiresAt)
	})

	t.Run("keys are unique across the order", func(t *testing.T) {
		require.NotEqual(t, basic.LicenseKey, extended.LicenseKey)
	})

	t.Run("lookup by key resolves the license", func(t *testing.T) {
		found, err := client.GetLicenseByKey(ctx, "  "+basic.LicenseKey+" ")
		require.NoError(t, err)
		require.Equal(t, basic.ID, found.ID)

		_, err = client.GetLicenseByKey(ctx, "0000-0000-0000-0000")
		require.True(t, entsdk.IsNotFound(err))
	})

	t.Run("validate authorizes the specific license", func(t *testing.T) {
		decision, err := client.ValidateDownloadAccess(ctx, entsdk.ValidateAccessRequest{
			UserID:    "user-100",
			LicenseID: basic.ID,
		})
		require.NoError(t, err)
		require.True(t, decision.CanDownload)
		require.Equal(t, "license", decision.Method)
		require.NotNil(t, decision.License)
	})

	t.Run("downloads count against the basic quota", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			decision, err := client.ValidateDownloadAccess(ctx, entsdk.ValidateAccessRequest{
				UserID:    "user-100",
				LicenseID: basic.ID,
			})
			require.NoError(t, err)
			require.True(t, decision.CanDownload, "download %d should be allowed", i+1)

			rec, err := client.RecordDownload(ctx, entsdk.RecordDownloadRequest{
				UserID:    "user-100",
				ProductID: "icon-pack",
				Method:    "license",
				LicenseID: basic.ID,
				FileSize:  1024,
			})
			require.NoError(t, err)
			require.Equal(t, "license", rec.Method)
		}
	})

	t.Run("exhausted quota denies further downloads", func(t *testing.T) {
		decision, err := client.ValidateDownloadAccess(ctx, entsdk.ValidateAccessRequest{
			UserID:    "user-100",
			LicenseID: basic.ID,
		})
		require.NoError(t, err)
		require.False(t, decision.CanDownload)
		require.Equal(t, "Download limit exceeded", decision.Reason)

		_, err = client.RecordDownload(ctx, entsdk.RecordDownloadRequest{
			UserID:    "user-100",
			ProductID: "icon-pack",
			Method:    "license",
			LicenseID: basic.ID,
		})
		require.True(t, entsdk.IsLimitExceeded(err))
	})

	t.Run("extended license is unaffected", func(t *testing.T) {
		decision, err := client.ValidateDownloadAccess(ctx, entsdk.ValidateAccessRequest{
			UserID:    "user-100",
			LicenseID: extended.ID,
		})
		require.NoError(t, err)
		require.True(t, decision.CanDownload)
	})

	t.Run("history shows every recorded download", func(t *testing.T) {
		history, err := client.GetDownloadHistory(ctx, "user-100", 50)
		require.NoError(t, err)
		require.Len(t, history.Downloads, 10)
	})
}

func TestLicenseStatusTransitions(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := newClient(t, baseURL)
	ctx := context.Background()

	lic, err := client.GenerateLicense(ctx, entsdk.GenerateLicenseRequest{
		UserID:      "user-200",
		ProductID:   "font-bundle",
		LicenseType: "extended",
	})
	require.NoError(t, err)

	t.Run("suspend blocks validation", func(t *testing.T) {
		require.NoError(t, client.SuspendLicense(ctx, lic.ID, "user-200"))

		decision, err := client.ValidateDownloadAccess(ctx, entsdk.ValidateAccessRequest{
			UserID:    "user-200",
			LicenseID: lic.ID,
		})
		require.NoError(t, err)
		require.False(t, decision.CanDownload)
		require.Equal(t, "License is suspended", decision.Reason)
	})

	t.Run("reinstate restores access", func(t *testing.T) {
		require.NoError(t, client.ReinstateLicense(ctx, lic.ID, "user-200"))

		decision, err := client.ValidateDownloadAccess(ctx, entsdk.ValidateAccessRequest{
			UserID:    "user-200",
			LicenseID: lic.ID,
		})
		require.NoError(t, err)
		require.True(t, decision.CanDownload)
	})

	t.Run("revoke is terminal", func(t *testing.T) {
		require.NoError(t, client.RevokeLicense(ctx, lic.ID, "user-200"))

		err := client.ReinstateLicense(ctx, lic.ID, "user-200")
		var apiErr *entsdk.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, entsdk.ErrorCodeConflict, apiErr.Code)
	})

	t.Run("wrong owner cannot transition", func(t *testing.T) {
		other, err := client.GenerateLicense(ctx, entsdk.GenerateLicenseRequest{
			UserID:      "user-201",
			ProductID:   "font-bundle",
			LicenseType: "basic",
		})
		require.NoError(t, err)

		err = client.RevokeLicense(ctx, other.ID, "user-200")
		require.True(t, entsdk.IsNotFound(err))
	})
}

func TestOrderQuantityIssuesDistinctKeys(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := newClient(t, baseURL)
	ctx := context.Background()

	order, err := client.CompleteOrder(ctx, entsdk.CompleteOrderRequest{
		UserID:  "user-300",
		OrderID: "order-300",
		Items: []entsdk.OrderItemRequest{
			{ProductID: "texture-pack", LicenseType: "basic", Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Licenses, 3)

	keys := make(map[string]bool)
	for _, lic := range order.Licenses {
		keys[lic.LicenseKey] = true
	}
	require.Len(t, keys, 3)

	listed, err := client.GetUserLicenses(ctx, "user-300")
	require.NoError(t, err)
	require.Len(t, listed.Licenses, 3)
}

func TestInsufficientScopeRejected(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	ctx := context.Background()

	// A token holding only read scopes must not issue licenses.
	readOnly := entsdk.NewClient(baseURL, mintToken(t, []string{"licenses:read"}))

	_, err := readOnly.GenerateLicense(ctx, entsdk.GenerateLicenseRequest{
		UserID:      "user-400",
		ProductID:   "icon-pack",
		LicenseType: "basic",
	})
	var apiErr *entsdk.APIError
	require.True(t, errors.As(err, &apiErr), fmt.Sprintf("expected APIError, got %v", err))
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	// No token at all is rejected outright.
	anon := entsdk.NewClient(baseURL, "")
	_, err = anon.GetUserLicenses(ctx, "user-400")
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
