package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loyaltypos/internal/dto"
	"loyaltypos/internal/loyalty"
	"loyaltypos/internal/model"
	"loyaltypos/internal/repository"

	"gorm.io/gorm"
)

var ErrVoucherNotFound = errors.New("voucher not found")

type VoucherService interface {
	// Issue buys a reward tier as a voucher. The points are spent immediately:
	// the Redemption and the Voucher land in one transaction.
	Issue(ctx context.Context, req dto.IssueVoucherRequest) (*dto.VoucherResponse, error)
	// Redeem flips the voucher exactly once; a second redeem attempt fails.
	Redeem(ctx context.Context, code string) (*dto.VoucherResponse, error)
	ListByPhone(ctx context.Context, phone string) (*dto.VoucherListResponse, error)
	Tiers() []dto.RewardTierResponse
}

type voucherService struct {
	vouchers    repository.VoucherRepository
	redemptions repository.RedemptionRepository
	ledger      LedgerService
	cfg         LoyaltyConfig
}

func NewVoucherService(
	vouchers repository.VoucherRepository,
	redemptions repository.RedemptionRepository,
	ledger LedgerService,
	cfg LoyaltyConfig,
) VoucherService {
	return &voucherService{
		vouchers:    vouchers,
		redemptions: redemptions,
		ledger:      ledger,
		cfg:         cfg,
	}
}

func (s *voucherService) Issue(ctx context.Context, req dto.IssueVoucherRequest) (*dto.VoucherResponse, error) {
	if !phonePattern.MatchString(req.Phone) {
		return nil, errors.New("invalid phone number: must be exactly 8 digits")
	}
	tier, ok := loyalty.FindTier(s.cfg.Tiers, req.TierPointsCost)
	if !ok {
		return nil, fmt.Errorf("unknown reward tier %d", req.TierPointsCost)
	}

	ts := time.Now().UTC()
	balance, err := s.ledger.Balance(ctx, req.Phone, ts)
	if err != nil {
		return nil, err
	}
	cost := tier.PointsDecimal()
	if balance.LessThan(cost) {
		return nil, loyalty.ErrInsufficientPoints
	}

	voucher := model.Voucher{
		Phone:      req.Phone,
		Code:       voucherCode(req.Phone, tier, ts),
		PointsCost: tier.PointsCost,
		Amount:     tier.CashValue,
		IssuedAt:   ts,
	}
	err = runTx(ctx, s.vouchers.DB(), func(tx *gorm.DB) error {
		if err := s.redemptions.Append(ctx, tx, &model.Redemption{
			Phone:     req.Phone,
			Points:    cost,
			Timestamp: ts,
		}); err != nil {
			return err
		}
		return s.vouchers.Create(ctx, tx, &voucher)
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.RefreshCachedBalance(ctx, req.Phone, ts); err != nil {
		// Logs are the ground truth; the cache catches up on the next sweep.
		return voucherToResponse(&voucher), nil
	}
	return voucherToResponse(&voucher), nil
}

func (s *voucherService) Redeem(ctx context.Context, code string) (*dto.VoucherResponse, error) {
	v, err := s.vouchers.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVoucherNotFound
	}
	at := time.Now().UTC()
	if err := s.vouchers.MarkRedeemed(ctx, code, at); err != nil {
		return nil, err
	}
	v.Redeemed = true
	v.RedeemedAt = &at
	return voucherToResponse(v), nil
}

func (s *voucherService) ListByPhone(ctx context.Context, phone string) (*dto.VoucherListResponse, error) {
	if !phonePattern.MatchString(phone) {
		return nil, errors.New("invalid phone number: must be exactly 8 digits")
	}
	vouchers, err := s.vouchers.ListByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VoucherResponse, 0, len(vouchers))
	for i := range vouchers {
		items = append(items, *voucherToResponse(&vouchers[i]))
	}
	return &dto.VoucherListResponse{Data: items}, nil
}

func (s *voucherService) Tiers() []dto.RewardTierResponse {
	resp := make([]dto.RewardTierResponse, 0, len(s.cfg.Tiers))
	for _, t := range s.cfg.Tiers {
		resp = append(resp, dto.RewardTierResponse{
			PointsCost: t.PointsCost,
			CashValue:  t.CashValue,
		})
	}
	return resp
}

// voucherCode builds the printable code handed to the customer:
// V<last 4 phone digits>-<points cost>-<whole cash value>-<issue timestamp>.
func voucherCode(phone string, tier loyalty.Tier, ts time.Time) string {
	return fmt.Sprintf("V%s-%d-%d-%s",
		phone[len(phone)-4:],
		tier.PointsCost,
		tier.CashValue.IntPart(),
		ts.Format("20060102150405"),
	)
}

func voucherToResponse(v *model.Voucher) *dto.VoucherResponse {
	resp := &dto.VoucherResponse{
		Code:       v.Code,
		Phone:      v.Phone,
		PointsCost: v.PointsCost,
		Amount:     v.Amount,
		IssuedAt:   v.IssuedAt.Format(time.RFC3339),
		Redeemed:   v.Redeemed,
	}
	if v.RedeemedAt != nil {
		at := v.RedeemedAt.Format(time.RFC3339)
		resp.RedeemedAt = &at
	}
	return resp
}
