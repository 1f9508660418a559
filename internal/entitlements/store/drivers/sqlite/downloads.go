package sqlite

import (
	"context"
	"database/sql"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
)

type downloadsRepo struct {
	db dbtx
}

const downloadColumns = `id, user_id, product_id, method, license_id, pass_id,
	downloaded_at, ip_address, user_agent, file_size, browser, os, device_type, country, city`

func (r *downloadsRepo) InsertRecord(ctx context.Context, d domain.DownloadRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO download_history (
			id, user_id, product_id, method, license_id, pass_id,
			downloaded_at, ip_address, user_agent, file_size,
			browser, os, device_type, country, city
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.ProductID, string(d.Method),
		nullIfEmpty(d.LicenseID), nullIfEmpty(d.PassID),
		d.DownloadedAt.UTC(), d.IPAddress, d.UserAgent, d.FileSize,
		d.Browser, d.OS, d.DeviceType, d.Country, d.City,
	)
	return err
}

func (r *downloadsRepo) ListByLicense(ctx context.Context, licenseID string, limit int) ([]domain.DownloadRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+downloadColumns+`
		FROM download_history
		WHERE license_id = ?
		ORDER BY downloaded_at DESC
		LIMIT ?`,
		licenseID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (r *downloadsRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.DownloadRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+downloadColumns+`
		FROM download_history
		WHERE user_id = ?
		ORDER BY downloaded_at DESC
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRecords(rows)
}

func collectRecords(rows *sql.Rows) ([]domain.DownloadRecord, error) {
	var records []domain.DownloadRecord
	for rows.Next() {
		var (
			d         domain.DownloadRecord
			method    string
			licenseID sql.NullString
			passID    sql.NullString
		)
		err := rows.Scan(
			&d.ID, &d.UserID, &d.ProductID, &method, &licenseID, &passID,
			&d.DownloadedAt, &d.IPAddress, &d.UserAgent, &d.FileSize,
			&d.Browser, &d.OS, &d.DeviceType, &d.Country, &d.City,
		)
		if err != nil {
			return nil, err
		}
		d.Method = domain.AccessMethod(method)
		d.LicenseID = licenseID.String
		d.PassID = passID.String
		records = append(records, d)
	}
	return records, rows.Err()
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
