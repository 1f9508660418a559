package entitlements_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := newClient(t, baseURL)
	ctx := context.Background()

	t.Run("livez reports ok", func(t *testing.T) {
		resp, err := client.Livez(ctx)
		require.NoError(t, err)
		require.Equal(t, "ok", resp.Status)
		require.NotEmpty(t, resp.Version)
	})

	t.Run("readyz reports database up", func(t *testing.T) {
		resp, err := client.Readyz(ctx)
		require.NoError(t, err)
		require.Equal(t, "ok", resp.Status)
		require.NotNil(t, resp.Checks)
		require.Equal(t, "ok", resp.Checks.Database)
	})
}
