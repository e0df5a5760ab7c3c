package loyalty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestDecide_EarnOnly(t *testing.T) {
	d, err := Decide(PolicyEarnOnly, dec(500), dec(100), RedemptionRequest{RedeemPoints: true})
	require.NoError(t, err)
	assert.True(t, d.Discount().IsZero())
	assert.True(t, d.PointsSpent.IsZero())
}

func TestDecide_AutoRedeem(t *testing.T) {
	t.Run("balance covers the whole amount", func(t *testing.T) {
		d, err := Decide(PolicyAutoRedeem, dec(120), dec(50), RedemptionRequest{})
		require.NoError(t, err)
		assert.Equal(t, "50", d.PointsRedeemed.String())
		assert.Equal(t, "50", d.PointsSpent.String())
	})

	t.Run("balance smaller than amount", func(t *testing.T) {
		d, err := Decide(PolicyAutoRedeem, dec(30), dec(50), RedemptionRequest{})
		require.NoError(t, err)
		assert.Equal(t, "30", d.PointsRedeemed.String())
	})

	t.Run("zero balance", func(t *testing.T) {
		d, err := Decide(PolicyAutoRedeem, decimal.Zero, dec(50), RedemptionRequest{})
		require.NoError(t, err)
		assert.True(t, d.Discount().IsZero())
	})

	t.Run("nothing due after birthday discount", func(t *testing.T) {
		d, err := Decide(PolicyAutoRedeem, dec(100), decimal.Zero, RedemptionRequest{})
		require.NoError(t, err)
		assert.True(t, d.PointsSpent.IsZero())
	})
}

func TestDecide_ManualToggle(t *testing.T) {
	d, err := Decide(PolicyManualToggle, dec(100), dec(40), RedemptionRequest{})
	require.NoError(t, err)
	assert.True(t, d.PointsRedeemed.IsZero(), "no opt-in, no redemption")

	d, err = Decide(PolicyManualToggle, dec(100), dec(40), RedemptionRequest{RedeemPoints: true})
	require.NoError(t, err)
	assert.Equal(t, "40", d.PointsRedeemed.String())
	assert.Equal(t, "40", d.PointsSpent.String())
}

func TestDecide_TieredReward(t *testing.T) {
	tier := Tier{PointsCost: 100, CashValue: dec(5)}

	t.Run("discount applied, full cost spent", func(t *testing.T) {
		d, err := Decide(PolicyTieredReward, dec(150), dec(20), RedemptionRequest{Tier: &tier})
		require.NoError(t, err)
		assert.Equal(t, "5", d.RewardDiscount.String())
		assert.Equal(t, "100", d.PointsSpent.String())
		assert.True(t, d.PointsRedeemed.IsZero())
	})

	t.Run("discount capped at amount due", func(t *testing.T) {
		d, err := Decide(PolicyTieredReward, dec(150), dec(3), RedemptionRequest{Tier: &tier})
		require.NoError(t, err)
		assert.Equal(t, "3", d.RewardDiscount.String())
		// Full cost is still spent — the tier does not prorate.
		assert.Equal(t, "100", d.PointsSpent.String())
	})

	t.Run("insufficient balance", func(t *testing.T) {
		_, err := Decide(PolicyTieredReward, dec(99), dec(20), RedemptionRequest{Tier: &tier})
		assert.ErrorIs(t, err, ErrInsufficientPoints)
	})

	t.Run("no tier selected", func(t *testing.T) {
		d, err := Decide(PolicyTieredReward, dec(150), dec(20), RedemptionRequest{})
		require.NoError(t, err)
		assert.True(t, d.Discount().IsZero())
	})
}

func TestParsePolicy(t *testing.T) {
	for _, valid := range []string{"auto_redeem", "manual_toggle", "tiered_reward", "earn_only"} {
		p, err := ParsePolicy(valid)
		require.NoError(t, err)
		assert.Equal(t, Policy(valid), p)
	}

	_, err := ParsePolicy("cashback")
	assert.ErrorContains(t, err, "unknown redemption policy")
}

func TestParseTiers(t *testing.T) {
	tiers, err := ParseTiers("100:5,250:15,500:40")
	require.NoError(t, err)
	require.Len(t, tiers, 3)
	assert.Equal(t, 250, tiers[1].PointsCost)
	assert.Equal(t, "15", tiers[1].CashValue.String())

	tiers, err = ParseTiers("  ")
	require.NoError(t, err)
	assert.Nil(t, tiers)

	_, err = ParseTiers("100")
	assert.ErrorContains(t, err, "want cost:value")

	_, err = ParseTiers("abc:5")
	assert.ErrorContains(t, err, "invalid points cost")

	_, err = ParseTiers("100:-5")
	assert.ErrorContains(t, err, "invalid cash value")
}

func TestFindTier(t *testing.T) {
	tiers := []Tier{{PointsCost: 100, CashValue: dec(5)}, {PointsCost: 250, CashValue: dec(15)}}

	tier, ok := FindTier(tiers, 250)
	require.True(t, ok)
	assert.Equal(t, "15", tier.CashValue.String())

	_, ok = FindTier(tiers, 123)
	assert.False(t, ok)
}
