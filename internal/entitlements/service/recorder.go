package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/assetdeck/entitlements/internal/entitlements/enrich"
	"github.com/assetdeck/entitlements/internal/entitlements/store"
	"github.com/assetdeck/entitlements/pkg/idx"
	"github.com/assetdeck/entitlements/pkg/slogx"
)

// RecordDownloadParams describes one completed download to record.
type RecordDownloadParams struct {
	UserID    string
	ProductID string
	Method    domain.AccessMethod

	// LicenseID is required for Method == license, ignored otherwise.
	LicenseID string

	FileSize  int64
	IPAddress string
	UserAgent string
}

// RecordDownload writes the consumption state for one completed download:
// a history entry plus the counter bump on the authorizing license or pass,
// committed in a single transaction.
//
// The license counter bump is a conditional update that only applies while
// the count is under the limit, so two racing records for the last unit
// cannot both land; the loser gets ErrDownloadLimitExceeded. A pass that
// has lapsed between authorization and recording yields ErrNoActivePass.
// All failures are returned to the caller.
func (s *AccessService) RecordDownload(ctx context.Context, p RecordDownloadParams) (*domain.DownloadRecord, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	rec := domain.DownloadRecord{
		ID:           idx.New().String(),
		UserID:       p.UserID,
		ProductID:    p.ProductID,
		Method:       p.Method,
		DownloadedAt: now,
		IPAddress:    p.IPAddress,
		UserAgent:    p.UserAgent,
		FileSize:     p.FileSize,
	}

	// Best-effort enrichment; empty fields when unavailable.
	if p.UserAgent != "" {
		ua := enrich.ParseUserAgent(p.UserAgent)
		rec.Browser = ua.Browser
		rec.OS = ua.OS
		rec.DeviceType = ua.DeviceType
	}
	if s.Geo != nil && p.IPAddress != "" {
		geo := s.Geo.Lookup(p.IPAddress)
		rec.Country = geo.Country
		rec.City = geo.City
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		switch p.Method {
		case domain.AccessMethodLicense:
			if p.LicenseID == "" {
				return ErrMissingLicenseID
			}
			if _, err := tx.Licenses().GetLicenseForUser(ctx, p.LicenseID, p.UserID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrLicenseNotFound
				}
				return err
			}
			rec.LicenseID = p.LicenseID

			if err := tx.Licenses().IncrementDownloadCount(ctx, p.LicenseID, now); err != nil {
				if errors.Is(err, store.ErrLimitReached) {
					return ErrDownloadLimitExceeded
				}
				return err
			}

		case domain.AccessMethodAccessPass:
			pass, err := tx.AccessPasses().GetActivePassForUser(ctx, p.UserID, now)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrNoActivePass
				}
				return err
			}
			rec.PassID = pass.ID

			if err := tx.AccessPasses().IncrementUsage(ctx, pass.ID, now); err != nil {
				return err
			}

		default:
			return ErrInvalidMethod
		}

		return tx.Downloads().InsertRecord(ctx, rec)
	})
	if err != nil {
		l.Warn("download recording failed",
			slog.String("user_id", p.UserID),
			slog.String("product_id", p.ProductID),
			slog.String("method", string(p.Method)),
			slog.Any("error", err),
		)
		return nil, err
	}

	l.Info("download recorded",
		slog.String("user_id", p.UserID),
		slog.String("product_id", p.ProductID),
		slog.String("method", string(p.Method)),
	)
	return &rec, nil
}

// GetDownloadHistory returns the most recent downloads for a user, capped
// at limit entries (default 50).
func (s *AccessService) GetDownloadHistory(ctx context.Context, userID string, limit int) ([]domain.DownloadRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.Store.Downloads().ListByUser(ctx, userID, limit)
}
