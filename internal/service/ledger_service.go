package service

import (
	"context"
	"time"

	"loyaltypos/internal/loyalty"
	"loyaltypos/internal/model"
	"loyaltypos/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// LedgerService derives point balances from the append-only payment and
// redemption logs. The balance is always recomputed in full — the cached
// total_points column on Customer is a write-back projection, never an input.
type LedgerService interface {
	// Balance returns the unexpired point balance at ref: earn events minus
	// spend events inside the expiry horizon, clamped at 0, rounded to 2 dp.
	Balance(ctx context.Context, phone string, ref time.Time) (decimal.Decimal, error)
	// PointsForAmount sizes the earn event for a pre-discount payment amount.
	PointsForAmount(amount decimal.Decimal) decimal.Decimal
	// RefreshCachedBalance recomputes the balance and persists it into the
	// customer row (creating the row when absent), retrying on version
	// conflicts. Returns the freshly computed balance.
	RefreshCachedBalance(ctx context.Context, phone string, ref time.Time) (decimal.Decimal, error)
}

type ledgerService struct {
	payments    repository.PaymentRepository
	redemptions repository.RedemptionRepository
	customers   repository.CustomerRepository
	cfg         LoyaltyConfig
}

func NewLedgerService(
	payments repository.PaymentRepository,
	redemptions repository.RedemptionRepository,
	customers repository.CustomerRepository,
	cfg LoyaltyConfig,
) LedgerService {
	return &ledgerService{
		payments:    payments,
		redemptions: redemptions,
		customers:   customers,
		cfg:         cfg,
	}
}

func (s *ledgerService) Balance(ctx context.Context, phone string, ref time.Time) (decimal.Decimal, error) {
	// Events aged exactly ExpiryDays still count (timestamp >= cutoff).
	cutoff := ref.AddDate(0, 0, -s.cfg.ExpiryDays)

	payments, err := s.payments.ListSince(ctx, phone, cutoff)
	if err != nil {
		return decimal.Zero, err
	}
	earned := decimal.Zero
	for _, p := range payments {
		earned = earned.Add(p.OriginalAmount)
	}
	earned = earned.Mul(s.cfg.PointsPerUnit)

	redemptions, err := s.redemptions.ListSince(ctx, phone, cutoff)
	if err != nil {
		return decimal.Zero, err
	}
	spent := decimal.Zero
	for _, r := range redemptions {
		spent = spent.Add(r.Points)
	}

	balance := earned.Sub(spent)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	return balance.Round(2), nil
}

func (s *ledgerService) PointsForAmount(amount decimal.Decimal) decimal.Decimal {
	return loyalty.PointsForAmount(amount, s.cfg.PointsPerUnit)
}

func (s *ledgerService) RefreshCachedBalance(ctx context.Context, phone string, ref time.Time) (decimal.Decimal, error) {
	balance, err := s.Balance(ctx, phone, ref)
	if err != nil {
		return decimal.Zero, err
	}

	err = repository.WithRetry(ctx, s.cfg.Retry, func(ctx context.Context) error {
		c, err := s.customers.FindByPhone(ctx, phone)
		if err != nil {
			return err
		}
		if c == nil {
			// The ledger can reference a phone before a profile is saved.
			return s.customers.Create(ctx, &model.Customer{
				Phone:       phone,
				TotalPoints: balance,
			})
		}
		return s.customers.UpdatePoints(ctx, phone, balance, c.Version)
	})
	if err != nil {
		return decimal.Zero, err
	}

	log.Debug().Str("phone", phone).Str("balance", balance.String()).Msg("cached balance refreshed")
	return balance, nil
}
