package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/assetdeck/entitlements/internal/entitlements/enrich"
	httpapi "github.com/assetdeck/entitlements/internal/entitlements/http"
	"github.com/assetdeck/entitlements/internal/entitlements/linktoken"
	"github.com/assetdeck/entitlements/internal/entitlements/service"
	"github.com/assetdeck/entitlements/internal/entitlements/store"
	"github.com/assetdeck/entitlements/internal/entitlements/store/drivers/sqlite"
	"github.com/assetdeck/entitlements/pkg/jwtx"
	"github.com/assetdeck/entitlements/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the entitlements service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	verifier   jwtx.Verifier
	linkSigner *linktoken.Signer
	geo        *enrich.GeoIP

	// Services
	accessService       *service.AccessService
	licenseService      *service.LicenseService
	accessPassService   *service.AccessPassService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "entitlements",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	verifier, err := jwtx.NewVerifierHS256([]byte(cfg.TokenSecret), cfg.Issuer, []string{cfg.Audience})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}
	app.verifier = verifier

	signer, err := linktoken.NewSigner([]byte(cfg.LinkSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize link signer: %w", err)
	}
	app.linkSigner = signer

	geo, err := enrich.NewGeoIP(cfg.GeoIPFile)
	if err != nil {
		// Geo enrichment is optional; run without it rather than refuse to start.
		app.logger.Warn("geoip database unavailable, downloads will not carry location data", "error", err)
	}
	app.geo = geo

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (a *Application) Run() error {
	// Start housekeeping service
	a.housekeepingService.Start()

	a.logger.Info("entitlements service starting", "port", a.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- a.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		a.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := a.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (a *Application) Shutdown() error {
	a.logger.Info("shutting down entitlements service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("graceful server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	a.housekeepingService.Stop()

	if a.geo != nil {
		if err := a.geo.Close(); err != nil {
			a.logger.Error("error closing geoip database", "error", err)
		}
	}

	// Close database connection
	if err := a.db.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
		return err
	}

	a.logger.Info("entitlements service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (a *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", a.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	a.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (a *Application) initServices() {
	a.accessService = &service.AccessService{
		Store: a.db,
		Geo:   a.geo,
	}

	a.accessPassService = &service.AccessPassService{Store: a.db}

	a.licenseService = &service.LicenseService{
		Store:  a.db,
		Passes: a.accessPassService,
	}

	a.housekeepingService = service.NewHousekeepingService(
		a.db,
		a.logger,
		a.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (a *Application) initHTTP() {
	router := httpapi.NewRouter(
		a.verifier,
		BuildVersion,
		a.db,
		a.logger,
	)

	// Wire services to router
	router.AccessService = a.accessService
	router.LicenseService = a.licenseService
	router.AccessPassService = a.accessPassService
	router.LinkSigner = a.linkSigner
	router.ApplyRoutes()

	a.router = router

	// Initialize HTTP server
	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
