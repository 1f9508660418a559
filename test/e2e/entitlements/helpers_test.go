package entitlements_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/assetdeck/entitlements/pkg/entsdk"
	"github.com/assetdeck/entitlements/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for entitlements service end-to-end
 * tests: container setup and service-token minting.
 */

const (
	testImageName = "assetdeck-entitlements-test:latest"

	tokenSecret = "e2e-test-token-secret-0123456789abcdef"
	linkSecret  = "e2e-test-link-secret-0123456789abcdef"
	issuer      = "assetdeck-auth"
	audience    = "entitlements"
)

// allScopes covers every endpoint; individual tests mint narrower tokens
// when exercising scope enforcement.
var allScopes = []string{
	"licenses:read", "licenses:write",
	"downloads:validate", "downloads:record",
	"passes:read", "passes:write",
}

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Entitlements Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Entitlements Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/entitlements/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupContainer starts the entitlements service in a container and returns
// the base URL. Rate limits are relaxed so rapid test requests don't trip
// the production defaults.
func setupContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"ENTITLEMENTS_TOKEN_SECRET":  tokenSecret,
			"ENTITLEMENTS_LINK_SECRET":   linkSecret,
			"ENTITLEMENTS_ISSUER":        issuer,
			"ENTITLEMENTS_AUDIENCE":      audience,
			"ENTITLEMENTS_DATABASE_FILE": "/entitlements.db",
			"ENV":                        "test",
			"LOG_LEVEL":                  "info",
			"LOG_FORMAT":                 "json",
			// Relax rate limits for rapid test requests
			"RATELIMIT_STRICT_REQUESTS":   "1000",
			"RATELIMIT_STRICT_BURST":      "1000",
			"RATELIMIT_MODERATE_REQUESTS": "1000",
			"RATELIMIT_MODERATE_BURST":    "1000",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// mintToken signs a service token with the shared test secret.
func mintToken(t *testing.T, scopes []string) string {
	t.Helper()

	signer, err := jwtx.NewSignerHS256([]byte(tokenSecret))
	require.NoError(t, err)

	claims := jwtx.NewServiceClaims(
		"e2e-tests",
		scopes,
		time.Hour,
		issuer,
		[]string{audience},
		time.Now(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	return token
}

// newClient returns an SDK client holding a token with every scope.
func newClient(t *testing.T, baseURL string) *entsdk.Client {
	t.Helper()
	return entsdk.NewClient(baseURL, mintToken(t, allScopes))
}
