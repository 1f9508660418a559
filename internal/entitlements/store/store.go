package store

import (
	"context"
	"errors"
	"time"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrLimitReached is returned by the conditional download-count
	// increment when the license is already at its quota. Distinguishing
	// it from ErrNotFound lets the recorder report the right reason.
	ErrLimitReached = errors.New("store: download limit reached")
)

// Store is the root data access interface over the entitlement records.
// Concrete drivers (sqlite today) implement this. Sub-repositories keep the
// query surface tidy and make transaction scoping explicit.
type Store interface {
	Licenses() Licenses
	AccessPasses() AccessPasses
	Downloads() Downloads

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Use this for multi-step operations
	// that must land together (e.g. record history + bump counters).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Licenses interface {
	// CreateLicense inserts a new license (id and key provided by the app).
	// A duplicate license_key maps to ErrAlreadyExists so the issuer can
	// retry key generation.
	CreateLicense(ctx context.Context, l domain.License) error

	// GetLicenseForUser returns a license by id scoped to its owner.
	GetLicenseForUser(ctx context.Context, licenseID, userID string) (domain.License, error)

	// GetLicenseByKey returns a license by its displayable key.
	GetLicenseByKey(ctx context.Context, key string) (domain.License, error)

	// GetActiveLicenseForProduct returns the user's active license for a
	// product, newest first when several exist.
	GetActiveLicenseForProduct(ctx context.Context, userID, productID string) (domain.License, error)

	// ListLicensesByUser returns all of a user's licenses, newest first.
	ListLicensesByUser(ctx context.Context, userID string) ([]domain.License, error)

	// ExistsValidForProduct reports whether the user holds a license for
	// the product that is active, unexpired, and under quota, as a single
	// existence query.
	ExistsValidForProduct(ctx context.Context, userID, productID string, now time.Time) (bool, error)

	// KeyExists reports whether a license key is already taken.
	KeyExists(ctx context.Context, key string) (bool, error)

	// IncrementDownloadCount bumps download_count and last_download_at in
	// one conditional update that only applies while the count is under
	// the limit (or the license is unlimited). Returns ErrLimitReached
	// when the condition fails and ErrNotFound for an unknown license.
	IncrementDownloadCount(ctx context.Context, licenseID string, at time.Time) error

	// UpdateStatus transitions a license's status.
	UpdateStatus(ctx context.Context, licenseID string, status domain.LicenseStatus) error

	// ExpireLapsed flips status to expired for active licenses whose
	// expires_at has passed. Housekeeping; read paths do not rely on it.
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

type AccessPasses interface {
	// CreateAccessPass inserts a new pass.
	CreateAccessPass(ctx context.Context, p domain.AccessPass) error

	// GetPassForUser returns a pass by id scoped to its owner.
	GetPassForUser(ctx context.Context, passID, userID string) (domain.AccessPass, error)

	// GetActivePassForUser returns the user's active, currently-valid pass
	// (status active AND (lifetime OR period end in the future)).
	GetActivePassForUser(ctx context.Context, userID string, now time.Time) (domain.AccessPass, error)

	// ExistsActivePassForUser is the existence-query variant used by the
	// quick access check.
	ExistsActivePassForUser(ctx context.Context, userID string, now time.Time) (bool, error)

	// IncrementUsage bumps total_downloads, downloads_this_period and
	// last_download_at together.
	IncrementUsage(ctx context.Context, passID string, at time.Time) error

	// SetCancelAtPeriodEnd flags the pass to lapse at the period boundary.
	SetCancelAtPeriodEnd(ctx context.Context, passID string, cancel bool) error

	// UpdateStatus transitions a pass's status.
	UpdateStatus(ctx context.Context, passID string, status domain.PassStatus) error

	// ExpireLapsed flips status to expired for active passes whose period
	// end has passed, honouring cancel_at_period_end. Housekeeping.
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

type Downloads interface {
	// InsertRecord appends one download history entry.
	InsertRecord(ctx context.Context, r domain.DownloadRecord) error

	// ListByLicense returns a license's history, newest first, capped at
	// limit entries.
	ListByLicense(ctx context.Context, licenseID string, limit int) ([]domain.DownloadRecord, error)

	// ListByUser returns a user's history across licenses and passes,
	// newest first, capped at limit entries.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.DownloadRecord, error)
}
