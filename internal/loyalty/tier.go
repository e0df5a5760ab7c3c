package loyalty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Tier is a fixed reward: PointsCost points buy a flat CashValue discount.
// Spending a tier always costs the full PointsCost, regardless of how much of
// the cash value the payment actually uses.
type Tier struct {
	PointsCost int
	CashValue  decimal.Decimal
}

// PointsDecimal is the tier cost as a ledger quantity.
func (t Tier) PointsDecimal() decimal.Decimal {
	return decimal.NewFromInt(int64(t.PointsCost))
}

// ParseTiers parses the REWARD_TIERS config format "cost:value,cost:value,…",
// e.g. "100:5,250:15,500:40".
func ParseTiers(s string) ([]Tier, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var tiers []Tier
	for _, part := range strings.Split(s, ",") {
		cost, value, found := strings.Cut(strings.TrimSpace(part), ":")
		if !found {
			return nil, fmt.Errorf("reward tier %q: want cost:value", part)
		}
		pc, err := strconv.Atoi(strings.TrimSpace(cost))
		if err != nil || pc <= 0 {
			return nil, fmt.Errorf("reward tier %q: invalid points cost", part)
		}
		cv, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil || !cv.IsPositive() {
			return nil, fmt.Errorf("reward tier %q: invalid cash value", part)
		}
		tiers = append(tiers, Tier{PointsCost: pc, CashValue: cv})
	}
	return tiers, nil
}

// FindTier looks a tier up by its points cost.
func FindTier(tiers []Tier, pointsCost int) (Tier, bool) {
	for _, t := range tiers {
		if t.PointsCost == pointsCost {
			return t, true
		}
	}
	return Tier{}, false
}
