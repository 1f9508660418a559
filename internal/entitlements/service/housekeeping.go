package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/assetdeck/entitlements/internal/entitlements/store"
)

// HousekeepingService periodically flips lapsed licenses and passes to
// their terminal statuses. Authorization never depends on this (expiry is
// checked live at read time); it keeps stored statuses honest for
// reporting and list views.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() to
// gracefully shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker. Blocks until any
// in-progress sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run a sweep immediately on startup
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep expires lapsed records. The two sweeps are independent; a failure
// in one won't stop the other.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()
	now := time.Now()

	licenses, err := s.Store.Licenses().ExpireLapsed(ctx, now)
	if err != nil {
		s.Logger.Error("failed to expire lapsed licenses", "error", err)
	}

	passes, err := s.Store.AccessPasses().ExpireLapsed(ctx, now)
	if err != nil {
		s.Logger.Error("failed to expire lapsed passes", "error", err)
	}

	s.Logger.Info("housekeeping sweep completed",
		"licenses_expired", licenses,
		"passes_expired", passes,
	)
}
