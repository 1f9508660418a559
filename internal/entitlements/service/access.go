package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/assetdeck/entitlements/internal/entitlements/enrich"
	"github.com/assetdeck/entitlements/internal/entitlements/store"
	"github.com/assetdeck/entitlements/pkg/slogx"
)

const (
	ReasonLicenseNotFound = "License not found"
	ReasonLicenseExpired  = "License has expired"
	ReasonLimitExceeded   = "Download limit exceeded"
	ReasonNoEntitlement   = "No valid license or access pass found"
)

var (
	ErrDownloadLimitExceeded = errors.New("download_limit_exceeded")
	ErrNoActivePass          = errors.New("no_active_pass")
	ErrLicenseNotFound       = errors.New("license_not_found")
	ErrInvalidMethod         = errors.New("invalid_access_method")
	ErrMissingLicenseID      = errors.New("missing_license_id")
)

// AccessService resolves download entitlement. A user is authorized either
// by a specific license, by an active access pass, or by their active
// license for the requested product, in that order.
type AccessService struct {
	Store store.Store
	Clock Clock

	// Geo enriches download history with coarse location data. Optional;
	// nil disables the lookup.
	Geo *enrich.GeoIP
}

// AccessCheck is the reduced answer for UI gating: whether the user may
// download at all, and via which mechanism, without the full record payload.
type AccessCheck struct {
	HasAccess bool
	Method    domain.AccessMethod
}

// ValidateDownloadAccess decides whether userID may download productID.
//
// Resolution order, first match wins:
//  1. If licenseID is given, that exact license (scoped to the user) is
//     checked and nothing else is consulted.
//  2. An active, currently-valid access pass authorizes unconditionally.
//  3. If productID is given, the user's active license for that product is
//     checked, surfacing the specific failure reason.
//  4. Otherwise the user has no entitlement.
//
// Read failures against the store deny access rather than erroring out;
// only context cancellation propagates to the caller.
func (s *AccessService) ValidateDownloadAccess(ctx context.Context, userID, productID, licenseID string) (*domain.AccessDecision, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	// 1. Specific license requested: check it and it alone.
	if licenseID != "" {
		lic, err := s.Store.Licenses().GetLicenseForUser(ctx, licenseID, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return deny(ReasonLicenseNotFound), nil
			}
			return s.failClosed(ctx, l, "license lookup failed", err)
		}
		return decideLicense(lic, now), nil
	}

	// 2. An active pass grants blanket access; checked before the
	// product-bound license so a pass holder with an expired license
	// still downloads.
	pass, err := s.Store.AccessPasses().GetActivePassForUser(ctx, userID, now)
	switch {
	case err == nil:
		return &domain.AccessDecision{
			CanDownload: true,
			Method:      domain.AccessMethodAccessPass,
			AccessPass:  &pass,
		}, nil
	case !errors.Is(err, store.ErrNotFound):
		return s.failClosed(ctx, l, "access pass lookup failed", err)
	}

	// 3. Fall back to the user's active license for the product.
	if productID != "" {
		lic, err := s.Store.Licenses().GetActiveLicenseForProduct(ctx, userID, productID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return deny(ReasonNoEntitlement), nil
			}
			return s.failClosed(ctx, l, "product license lookup failed", err)
		}
		return decideLicense(lic, now), nil
	}

	// 4. Nothing to go on.
	return deny(ReasonNoEntitlement), nil
}

// CheckAccess is the quick variant of ValidateDownloadAccess for UI gating.
// Same policy, but expressed as existence queries so no record is fetched.
func (s *AccessService) CheckAccess(ctx context.Context, userID, productID string) (*AccessCheck, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	ok, err := s.Store.AccessPasses().ExistsActivePassForUser(ctx, userID, now)
	if err != nil {
		if ctxErr := ctxCause(ctx, err); ctxErr != nil {
			return nil, ctxErr
		}
		l.Error("access pass existence query failed", slog.Any("error", err))
		return &AccessCheck{Method: domain.AccessMethodNone}, nil
	}
	if ok {
		return &AccessCheck{HasAccess: true, Method: domain.AccessMethodAccessPass}, nil
	}

	if productID != "" {
		ok, err = s.Store.Licenses().ExistsValidForProduct(ctx, userID, productID, now)
		if err != nil {
			if ctxErr := ctxCause(ctx, err); ctxErr != nil {
				return nil, ctxErr
			}
			l.Error("license existence query failed", slog.Any("error", err))
			return &AccessCheck{Method: domain.AccessMethodNone}, nil
		}
		if ok {
			return &AccessCheck{HasAccess: true, Method: domain.AccessMethodLicense}, nil
		}
	}

	return &AccessCheck{Method: domain.AccessMethodNone}, nil
}

// decideLicense applies the license validity rule, failing closed in a
// fixed order: status, then expiry, then quota.
func decideLicense(lic domain.License, now time.Time) *domain.AccessDecision {
	if lic.Status != domain.LicenseStatusActive {
		d := deny("License is " + string(lic.Status))
		d.License = &lic
		return d
	}
	if lic.Expired(now) {
		d := deny(ReasonLicenseExpired)
		d.License = &lic
		return d
	}
	if lic.LimitReached() {
		d := deny(ReasonLimitExceeded)
		d.License = &lic
		return d
	}
	return &domain.AccessDecision{
		CanDownload: true,
		Method:      domain.AccessMethodLicense,
		License:     &lic,
	}
}

func deny(reason string) *domain.AccessDecision {
	return &domain.AccessDecision{
		CanDownload: false,
		Method:      domain.AccessMethodNone,
		Reason:      reason,
	}
}

// failClosed logs a read-path store failure and denies access, unless the
// context itself is done, in which case the cancellation propagates.
func (s *AccessService) failClosed(ctx context.Context, l *slog.Logger, msg string, err error) (*domain.AccessDecision, error) {
	if ctxErr := ctxCause(ctx, err); ctxErr != nil {
		return nil, ctxErr
	}
	l.Error(msg, slog.Any("error", err))
	return deny(ReasonNoEntitlement), nil
}

// ctxCause returns the context's error when the store failure coincides with
// cancellation or deadline expiry, nil otherwise.
func ctxCause(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
