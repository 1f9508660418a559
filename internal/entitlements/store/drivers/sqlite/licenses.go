package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/assetdeck/entitlements/internal/entitlements/store"
)

type licensesRepo struct {
	db dbtx
}

const licenseColumns = `id, license_key, user_id, product_id, order_id, license_type, status,
	download_count, download_limit, issued_at, expires_at, last_download_at,
	price_cents, currency, payment_ref, created_at, updated_at`

func (r *licensesRepo) CreateLicense(ctx context.Context, l domain.License) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO licenses (
			id, license_key, user_id, product_id, order_id, license_type, status,
			download_count, download_limit, issued_at, expires_at,
			price_cents, currency, payment_ref, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.LicenseKey, l.UserID, l.ProductID, l.OrderID,
		string(l.LicenseType), string(l.Status),
		l.DownloadCount, mapOptionalInt64(l.DownloadLimit),
		l.IssuedAt.UTC(), mapOptionalTime(l.ExpiresAt),
		l.PriceCents, l.Currency, l.PaymentRef,
		time.Now().UTC(), time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *licensesRepo) GetLicenseForUser(ctx context.Context, licenseID, userID string) (domain.License, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+licenseColumns+`
		FROM licenses
		WHERE id = ? AND user_id = ?`,
		licenseID, userID,
	)
	return scanLicense(row)
}

func (r *licensesRepo) GetLicenseByKey(ctx context.Context, key string) (domain.License, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+licenseColumns+`
		FROM licenses
		WHERE license_key = ?`,
		key,
	)
	return scanLicense(row)
}

func (r *licensesRepo) GetActiveLicenseForProduct(ctx context.Context, userID, productID string) (domain.License, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+licenseColumns+`
		FROM licenses
		WHERE user_id = ? AND product_id = ? AND status = 'active'
		ORDER BY issued_at DESC
		LIMIT 1`,
		userID, productID,
	)
	return scanLicense(row)
}

func (r *licensesRepo) ListLicensesByUser(ctx context.Context, userID string) ([]domain.License, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+licenseColumns+`
		FROM licenses
		WHERE user_id = ?
		ORDER BY issued_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var licenses []domain.License
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			return nil, err
		}
		licenses = append(licenses, l)
	}
	return licenses, rows.Err()
}

func (r *licensesRepo) ExistsValidForProduct(ctx context.Context, userID, productID string, now time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM licenses
			WHERE user_id = ? AND product_id = ? AND status = 'active'
			  AND (expires_at IS NULL OR expires_at > ?)
			  AND (download_limit IS NULL OR download_count < download_limit)
		)`,
		userID, productID, now.UTC(),
	).Scan(&exists)
	return exists, err
}

func (r *licensesRepo) KeyExists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM licenses WHERE license_key = ?)`,
		key,
	).Scan(&exists)
	return exists, err
}

// IncrementDownloadCount applies the quota check and the increment in one
// statement, so two racing downloads of the last remaining unit cannot both
// land.
func (r *licensesRepo) IncrementDownloadCount(ctx context.Context, licenseID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE licenses
		SET download_count = download_count + 1,
		    last_download_at = ?,
		    updated_at = ?
		WHERE id = ?
		  AND (download_limit IS NULL OR download_count < download_limit)`,
		at.UTC(), time.Now().UTC(), licenseID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Nothing updated: either the license is unknown or it is at quota.
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM licenses WHERE id = ?)`, licenseID,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}
	return store.ErrLimitReached
}

func (r *licensesRepo) UpdateStatus(ctx context.Context, licenseID string, status domain.LicenseStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE licenses SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), licenseID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *licensesRepo) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE licenses
		SET status = 'expired', updated_at = ?
		WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at <= ?`,
		time.Now().UTC(), now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLicense(s scanner) (domain.License, error) {
	var (
		l              domain.License
		licenseType    string
		status         string
		downloadLimit  sql.NullInt64
		expiresAt      sql.NullTime
		lastDownloadAt sql.NullTime
	)

	err := s.Scan(
		&l.ID, &l.LicenseKey, &l.UserID, &l.ProductID, &l.OrderID,
		&licenseType, &status,
		&l.DownloadCount, &downloadLimit, &l.IssuedAt, &expiresAt, &lastDownloadAt,
		&l.PriceCents, &l.Currency, &l.PaymentRef, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return domain.License{}, mapNotFound(err)
	}

	l.LicenseType = domain.LicenseType(licenseType)
	l.Status = domain.LicenseStatus(status)
	l.DownloadLimit = mapNullInt64Ptr(downloadLimit)
	l.ExpiresAt = mapNullTimePtr(expiresAt)
	l.LastDownloadAt = mapNullTimePtr(lastDownloadAt)
	return l, nil
}
