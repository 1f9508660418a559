package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/assetdeck/entitlements/internal/entitlements/store"
	"github.com/assetdeck/entitlements/pkg/idx"
	"github.com/assetdeck/entitlements/pkg/slogx"
)

var (
	ErrInvalidPassType   = errors.New("invalid_pass_type")
	ErrPassAlreadyActive = errors.New("pass_already_active")
	ErrPassNotFound      = errors.New("pass_not_found")
	ErrPassNotActive     = errors.New("pass_not_active")
	ErrPassNotCancelled  = errors.New("pass_not_cancelled")
)

// AccessPassService manages subscription passes. At most one active pass
// per user, enforced by query filtering rather than a uniqueness constraint.
type AccessPassService struct {
	Store store.Store
	Clock Clock
}

// CreatePassParams are the inputs from subscription checkout.
type CreatePassParams struct {
	UserID   string
	PassType domain.PassType

	AmountCents int64
	Currency    string
	PaymentRef  string
}

// Create starts a new pass for the user. The billing period runs from now
// to one calendar month or year ahead; lifetime passes have no end.
func (s *AccessPassService) Create(ctx context.Context, p CreatePassParams) (*domain.AccessPass, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	if !domain.ValidPassType(p.PassType) {
		return nil, ErrInvalidPassType
	}

	active, err := s.Store.AccessPasses().ExistsActivePassForUser(ctx, p.UserID, now)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrPassAlreadyActive
	}

	pass := domain.AccessPass{
		ID:                 idx.New().String(),
		UserID:             p.UserID,
		PassType:           p.PassType,
		Status:             domain.PassStatusActive,
		CurrentPeriodStart: now,
		AmountCents:        p.AmountCents,
		Currency:           p.Currency,
		PaymentRef:         p.PaymentRef,
	}

	switch p.PassType {
	case domain.PassTypeMonthly:
		end := now.AddDate(0, 1, 0)
		pass.CurrentPeriodEnd = &end
		pass.Interval = "month"
	case domain.PassTypeYearly:
		end := now.AddDate(1, 0, 0)
		pass.CurrentPeriodEnd = &end
		pass.Interval = "year"
	case domain.PassTypeLifetime:
		// No period end, no interval.
	}

	if err := s.Store.AccessPasses().CreateAccessPass(ctx, pass); err != nil {
		return nil, err
	}

	l.Info("access pass created",
		slog.String("pass_id", pass.ID),
		slog.String("user_id", pass.UserID),
		slog.String("type", string(pass.PassType)),
	)
	return &pass, nil
}

// Cancel ends a pass. By default the pass stays usable until the period
// boundary (cancel_at_period_end); immediate cancellation flips the status
// right away.
func (s *AccessPassService) Cancel(ctx context.Context, passID, userID string, immediate bool) error {
	l := slogx.FromContext(ctx)

	pass, err := s.getForUser(ctx, passID, userID)
	if err != nil {
		return err
	}
	if pass.Status != domain.PassStatusActive {
		return ErrPassNotActive
	}

	if immediate {
		if err := s.Store.AccessPasses().UpdateStatus(ctx, passID, domain.PassStatusCancelled); err != nil {
			return err
		}
	} else {
		if err := s.Store.AccessPasses().SetCancelAtPeriodEnd(ctx, passID, true); err != nil {
			return err
		}
	}

	l.Info("access pass cancelled",
		slog.String("pass_id", passID),
		slog.Bool("immediate", immediate),
	)
	return nil
}

// Reactivate undoes a cancellation. A pending period-end cancellation is
// simply cleared; an already-cancelled pass is restored only while its paid
// period still covers now.
func (s *AccessPassService) Reactivate(ctx context.Context, passID, userID string) error {
	now := s.now()
	l := slogx.FromContext(ctx)

	pass, err := s.getForUser(ctx, passID, userID)
	if err != nil {
		return err
	}

	switch {
	case pass.Status == domain.PassStatusActive && pass.CancelAtPeriodEnd:
		if err := s.Store.AccessPasses().SetCancelAtPeriodEnd(ctx, passID, false); err != nil {
			return err
		}

	case pass.Status == domain.PassStatusCancelled && pass.CurrentlyValid(now):
		if err := s.Store.AccessPasses().UpdateStatus(ctx, passID, domain.PassStatusActive); err != nil {
			return err
		}
		if pass.CancelAtPeriodEnd {
			if err := s.Store.AccessPasses().SetCancelAtPeriodEnd(ctx, passID, false); err != nil {
				return err
			}
		}

	default:
		return ErrPassNotCancelled
	}

	l.Info("access pass reactivated", slog.String("pass_id", passID))
	return nil
}

// GetActive returns the user's currently-valid pass, or ErrNoActivePass.
func (s *AccessPassService) GetActive(ctx context.Context, userID string) (*domain.AccessPass, error) {
	pass, err := s.Store.AccessPasses().GetActivePassForUser(ctx, userID, s.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoActivePass
		}
		return nil, err
	}
	return &pass, nil
}

func (s *AccessPassService) getForUser(ctx context.Context, passID, userID string) (domain.AccessPass, error) {
	pass, err := s.Store.AccessPasses().GetPassForUser(ctx, passID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AccessPass{}, ErrPassNotFound
		}
		return domain.AccessPass{}, err
	}
	return pass, nil
}
