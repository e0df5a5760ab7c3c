package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"loyaltypos/internal/dto"
	"loyaltypos/internal/loyalty"
	"loyaltypos/internal/model"
	"loyaltypos/internal/repository"
	"loyaltypos/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var phonePattern = regexp.MustCompile(`^[0-9]{8}$`)

type PaymentService interface {
	ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest) (*dto.PaymentResponse, error)
	// ApplyBirthdayDiscount returns the payable amount after the birthday
	// discount plus the discount taken. A customer without a birthday (or no
	// profile at all) simply gets no discount.
	ApplyBirthdayDiscount(ctx context.Context, phone string, amount decimal.Decimal, ts time.Time) (after, discount decimal.Decimal, err error)
	ListPayments(ctx context.Context, filter dto.PaymentFilter) (*dto.PaymentListResponse, error)
}

type paymentService struct {
	customers   repository.CustomerRepository
	payments    repository.PaymentRepository
	redemptions repository.RedemptionRepository
	ledger      LedgerService
	dispatcher  *worker.Dispatcher
	cfg         LoyaltyConfig
}

func NewPaymentService(
	customers repository.CustomerRepository,
	payments repository.PaymentRepository,
	redemptions repository.RedemptionRepository,
	ledger LedgerService,
	dispatcher *worker.Dispatcher,
	cfg LoyaltyConfig,
) PaymentService {
	return &paymentService{
		customers:   customers,
		payments:    payments,
		redemptions: redemptions,
		ledger:      ledger,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

// ── ProcessPayment ────────────────────────────────────────────────────────────
// One payment submission, processed synchronously end to end:
//   1. Validate — nothing is written on a bad request
//   2. Birthday discount (applied first, at most once per payment)
//   3. Current balance from the ledger (never the cached column)
//   4. Redemption per the deployment policy
//   5. TX: append Payment, append Redemption when points were spent
//   6. Recompute and persist the cached customer balance
//   7. (async) dispatch receipt job when the customer left an email

func (s *paymentService) ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest) (*dto.PaymentResponse, error) {
	if !phonePattern.MatchString(req.Phone) {
		return nil, errors.New("invalid phone number: must be exactly 8 digits")
	}
	if !req.Amount.IsPositive() {
		return nil, errors.New("amount must be greater than 0")
	}

	ts := time.Now().UTC()

	// 1. Birthday discount, before any points math
	afterBday, bdayDiscount, err := s.ApplyBirthdayDiscount(ctx, req.Phone, req.Amount, ts)
	if err != nil {
		return nil, err
	}

	// 2. Current unexpired balance
	balance, err := s.ledger.Balance(ctx, req.Phone, ts)
	if err != nil {
		return nil, err
	}

	// 3. Redemption decision per deployment policy
	var tier *loyalty.Tier
	if s.cfg.Policy == loyalty.PolicyTieredReward && req.TierPointsCost != nil {
		t, ok := loyalty.FindTier(s.cfg.Tiers, *req.TierPointsCost)
		if !ok {
			return nil, fmt.Errorf("unknown reward tier %d", *req.TierPointsCost)
		}
		tier = &t
	}
	decision, err := loyalty.Decide(s.cfg.Policy, balance, afterBday, loyalty.RedemptionRequest{
		RedeemPoints: req.RedeemPoints,
		Tier:         tier,
	})
	if err != nil {
		return nil, err
	}

	finalAmount := afterBday.Sub(decision.Discount()).Round(2)
	if finalAmount.IsNegative() {
		finalAmount = decimal.Zero
	}

	// 4. Commit the earn event and, when points were spent, the spend event
	payment := model.Payment{
		Phone:            req.Phone,
		OriginalAmount:   req.Amount.Round(2),
		BirthdayDiscount: bdayDiscount,
		RewardDiscount:   decision.RewardDiscount,
		PointsRedeemed:   decision.PointsRedeemed,
		FinalAmount:      finalAmount,
		Method:           req.Method,
		Timestamp:        ts,
	}
	txErr := runTx(ctx, s.payments.DB(), func(tx *gorm.DB) error {
		if err := s.payments.Append(ctx, tx, &payment); err != nil {
			return err
		}
		if decision.PointsSpent.IsPositive() {
			return s.redemptions.Append(ctx, tx, &model.Redemption{
				Phone:     req.Phone,
				Points:    decision.PointsSpent,
				Timestamp: ts,
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	earned := s.ledger.PointsForAmount(req.Amount)

	// 5. Refresh the cached balance — must reflect the just-committed events.
	// The append-only logs stay the ground truth, so a failed cache write is
	// degraded to a recompute-only read.
	newBalance, err := s.ledger.RefreshCachedBalance(ctx, req.Phone, ts)
	if err != nil {
		log.Warn().Err(err).Str("phone", req.Phone).Msg("cached balance write failed after payment commit")
		newBalance, err = s.ledger.Balance(ctx, req.Phone, ts)
		if err != nil {
			return nil, err
		}
	}

	// 6. Async receipt job (best-effort — fire & forget)
	if s.dispatcher != nil && req.CustomerEmail != nil && *req.CustomerEmail != "" {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
			PaymentID:        payment.ID.String(),
			Phone:            payment.Phone,
			ToEmail:          *req.CustomerEmail,
			OriginalAmount:   payment.OriginalAmount.StringFixed(2),
			BirthdayDiscount: payment.BirthdayDiscount.StringFixed(2),
			RewardDiscount:   payment.RewardDiscount.StringFixed(2),
			PointsRedeemed:   payment.PointsRedeemed.StringFixed(2),
			FinalAmount:      payment.FinalAmount.StringFixed(2),
			PointsEarned:     earned.StringFixed(2),
			TotalPoints:      newBalance.StringFixed(2),
			Method:           payment.Method,
			Timestamp:        ts.Format(time.RFC3339),
		})
	}

	resp := paymentToResponse(&payment)
	resp.PointsEarned = earned
	resp.TotalPoints = newBalance
	return resp, nil
}

func (s *paymentService) ApplyBirthdayDiscount(ctx context.Context, phone string, amount decimal.Decimal, ts time.Time) (decimal.Decimal, decimal.Decimal, error) {
	c, err := s.customers.FindByPhone(ctx, phone)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if c == nil || c.Birthday == nil {
		return amount.Round(2), decimal.Zero, nil
	}
	if !loyalty.InBirthdayWindow(ts, *c.Birthday, s.cfg.WindowDays, s.cfg.PostWindowDays) {
		return amount.Round(2), decimal.Zero, nil
	}
	after, discount := loyalty.BirthdayDiscount(amount, s.cfg.DiscountRate)
	return after, discount, nil
}

// ListPayments returns a paginated list of payments, filtered by phone and date.
func (s *paymentService) ListPayments(ctx context.Context, filter dto.PaymentFilter) (*dto.PaymentListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	payments, total, err := s.payments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, *paymentToResponse(&payments[i]))
	}
	return &dto.PaymentListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func paymentToResponse(p *model.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:               p.ID.String(),
		Phone:            p.Phone,
		OriginalAmount:   p.OriginalAmount,
		BirthdayDiscount: p.BirthdayDiscount,
		RewardDiscount:   p.RewardDiscount,
		PointsRedeemed:   p.PointsRedeemed,
		FinalAmount:      p.FinalAmount,
		Method:           p.Method,
		Timestamp:        p.Timestamp.Format(time.RFC3339),
	}
}
