package loyalty

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Policy selects how points are redeemed against a payment. One policy is
// chosen per deployment (REDEMPTION_POLICY); it is never decided per call.
type Policy string

const (
	// PolicyAutoRedeem spends unexpired points against every payment,
	// up to the amount due, whenever the balance is positive.
	PolicyAutoRedeem Policy = "auto_redeem"
	// PolicyManualToggle is the same formula, applied only when the operator
	// opts in on the individual transaction.
	PolicyManualToggle Policy = "manual_toggle"
	// PolicyTieredReward lets the operator spend a fixed tier's points for a
	// flat discount. The full tier cost is spent even if the discount is
	// capped by the amount due.
	PolicyTieredReward Policy = "tiered_reward"
	// PolicyEarnOnly never redeems; points only accrue.
	PolicyEarnOnly Policy = "earn_only"
)

// ParsePolicy validates a REDEMPTION_POLICY config value.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyAutoRedeem, PolicyManualToggle, PolicyTieredReward, PolicyEarnOnly:
		return p, nil
	default:
		return "", fmt.Errorf("unknown redemption policy %q", s)
	}
}

// ErrInsufficientPoints is returned when a selected reward tier costs more
// points than the customer's current balance.
var ErrInsufficientPoints = errors.New("insufficient points for selected reward tier")

// RedemptionRequest carries the per-transaction operator choices. RedeemPoints
// matters only under PolicyManualToggle; Tier only under PolicyTieredReward.
type RedemptionRequest struct {
	RedeemPoints bool
	Tier         *Tier
}

// RedemptionDecision is the outcome of applying the policy: the cash discount
// split by kind, and the points to deduct from the ledger.
type RedemptionDecision struct {
	PointsRedeemed decimal.Decimal // points applied 1:1 as a cash discount
	RewardDiscount decimal.Decimal // flat tier discount
	PointsSpent    decimal.Decimal // total points to write as a spend event
}

// Discount is the combined cash discount of the decision.
func (d RedemptionDecision) Discount() decimal.Decimal {
	return d.PointsRedeemed.Add(d.RewardDiscount)
}

// Decide computes the redemption for one payment. balance is the customer's
// current unexpired point balance, amountDue the amount still payable after
// the birthday discount. The returned discount never exceeds amountDue.
func Decide(policy Policy, balance, amountDue decimal.Decimal, req RedemptionRequest) (RedemptionDecision, error) {
	zero := RedemptionDecision{
		PointsRedeemed: decimal.Zero,
		RewardDiscount: decimal.Zero,
		PointsSpent:    decimal.Zero,
	}

	switch policy {
	case PolicyEarnOnly:
		return zero, nil

	case PolicyManualToggle:
		if !req.RedeemPoints {
			return zero, nil
		}
		fallthrough

	case PolicyAutoRedeem:
		if !balance.IsPositive() || !amountDue.IsPositive() {
			return zero, nil
		}
		redeem := decimal.Min(balance, amountDue).Round(2)
		return RedemptionDecision{
			PointsRedeemed: redeem,
			RewardDiscount: decimal.Zero,
			PointsSpent:    redeem,
		}, nil

	case PolicyTieredReward:
		if req.Tier == nil {
			return zero, nil
		}
		cost := decimal.NewFromInt(int64(req.Tier.PointsCost))
		if balance.LessThan(cost) {
			return zero, ErrInsufficientPoints
		}
		return RedemptionDecision{
			PointsRedeemed: decimal.Zero,
			RewardDiscount: decimal.Min(req.Tier.CashValue, amountDue).Round(2),
			PointsSpent:    cost,
		}, nil

	default:
		return zero, fmt.Errorf("unknown redemption policy %q", policy)
	}
}
