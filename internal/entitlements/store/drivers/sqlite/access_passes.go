package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/assetdeck/entitlements/internal/entitlements/store"
)

type accessPassesRepo struct {
	db dbtx
}

const passColumns = `id, user_id, pass_type, status, current_period_start, current_period_end,
	cancel_at_period_end, amount_cents, currency, billing_interval,
	total_downloads, downloads_this_period, last_download_at, payment_ref,
	created_at, updated_at`

// activePassWhere filters to passes that currently grant access: status
// active and either lifetime or period end in the future.
const activePassWhere = `user_id = ? AND status = 'active'
	  AND (pass_type = 'lifetime' OR (current_period_end IS NOT NULL AND current_period_end > ?))`

func (r *accessPassesRepo) CreateAccessPass(ctx context.Context, p domain.AccessPass) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_passes (
			id, user_id, pass_type, status, current_period_start, current_period_end,
			cancel_at_period_end, amount_cents, currency, billing_interval,
			total_downloads, downloads_this_period, payment_ref, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, string(p.PassType), string(p.Status),
		p.CurrentPeriodStart.UTC(), mapOptionalTime(p.CurrentPeriodEnd),
		p.CancelAtPeriodEnd, p.AmountCents, p.Currency, p.Interval,
		p.TotalDownloads, p.DownloadsThisPeriod, p.PaymentRef,
		time.Now().UTC(), time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *accessPassesRepo) GetPassForUser(ctx context.Context, passID, userID string) (domain.AccessPass, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+passColumns+`
		FROM access_passes
		WHERE id = ? AND user_id = ?`,
		passID, userID,
	)
	return scanPass(row)
}

func (r *accessPassesRepo) GetActivePassForUser(ctx context.Context, userID string, now time.Time) (domain.AccessPass, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+passColumns+`
		FROM access_passes
		WHERE `+activePassWhere+`
		ORDER BY created_at DESC
		LIMIT 1`,
		userID, now.UTC(),
	)
	return scanPass(row)
}

func (r *accessPassesRepo) ExistsActivePassForUser(ctx context.Context, userID string, now time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM access_passes WHERE `+activePassWhere+`
		)`,
		userID, now.UTC(),
	).Scan(&exists)
	return exists, err
}

func (r *accessPassesRepo) IncrementUsage(ctx context.Context, passID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE access_passes
		SET total_downloads = total_downloads + 1,
		    downloads_this_period = downloads_this_period + 1,
		    last_download_at = ?,
		    updated_at = ?
		WHERE id = ?`,
		at.UTC(), time.Now().UTC(), passID,
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

func (r *accessPassesRepo) SetCancelAtPeriodEnd(ctx context.Context, passID string, cancel bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE access_passes SET cancel_at_period_end = ?, updated_at = ? WHERE id = ?`,
		cancel, time.Now().UTC(), passID,
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

func (r *accessPassesRepo) UpdateStatus(ctx context.Context, passID string, status domain.PassStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE access_passes SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), passID,
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

func (r *accessPassesRepo) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	// Passes flagged cancel_at_period_end lapse to cancelled, everything
	// else to expired. Lifetime passes have no period end and never lapse.
	res, err := r.db.ExecContext(ctx, `
		UPDATE access_passes
		SET status = CASE WHEN cancel_at_period_end THEN 'cancelled' ELSE 'expired' END,
		    updated_at = ?
		WHERE status = 'active' AND pass_type != 'lifetime'
		  AND current_period_end IS NOT NULL AND current_period_end <= ?`,
		time.Now().UTC(), now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanPass(s scanner) (domain.AccessPass, error) {
	var (
		p              domain.AccessPass
		passType       string
		status         string
		periodEnd      sql.NullTime
		lastDownloadAt sql.NullTime
	)

	err := s.Scan(
		&p.ID, &p.UserID, &passType, &status,
		&p.CurrentPeriodStart, &periodEnd,
		&p.CancelAtPeriodEnd, &p.AmountCents, &p.Currency, &p.Interval,
		&p.TotalDownloads, &p.DownloadsThisPeriod, &lastDownloadAt, &p.PaymentRef,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.AccessPass{}, mapNotFound(err)
	}

	p.PassType = domain.PassType(passType)
	p.Status = domain.PassStatus(status)
	p.CurrentPeriodEnd = mapNullTimePtr(periodEnd)
	p.LastDownloadAt = mapNullTimePtr(lastDownloadAt)
	return p, nil
}
