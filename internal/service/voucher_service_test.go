package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"loyaltypos/internal/dto"
	"loyaltypos/internal/loyalty"
	"loyaltypos/internal/repository"
	"loyaltypos/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVoucher_DeductsPointsImmediately(t *testing.T) {
	f := newFixture(loyalty.PolicyTieredReward)
	f.seedEarn("11112222", 250, time.Hour)
	svc := f.voucherSvc()

	resp, err := svc.Issue(context.Background(), dto.IssueVoucherRequest{
		Phone:          "11112222",
		TierPointsCost: 250,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Code, "V2222-250-15-"), "unexpected code %q", resp.Code)
	assert.Equal(t, 250, resp.PointsCost)
	assert.Equal(t, "15", resp.Amount.String())
	assert.False(t, resp.Redeemed)

	// The spend event landed with the voucher.
	require.Len(t, f.redemptions.redemptions, 1)
	assert.Equal(t, "250", f.redemptions.redemptions[0].Points.String())

	balance, err := f.ledger.Balance(context.Background(), "11112222", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestIssueVoucher_InsufficientPoints(t *testing.T) {
	f := newFixture(loyalty.PolicyTieredReward)
	f.seedEarn("11112222", 99, time.Hour)
	svc := f.voucherSvc()

	_, err := svc.Issue(context.Background(), dto.IssueVoucherRequest{
		Phone:          "11112222",
		TierPointsCost: 100,
	})
	require.ErrorIs(t, err, loyalty.ErrInsufficientPoints)
	assert.Empty(t, f.redemptions.redemptions, "a failed issue must not spend points")
}

func TestIssueVoucher_UnknownTier(t *testing.T) {
	f := newFixture(loyalty.PolicyTieredReward)
	f.seedEarn("11112222", 500, time.Hour)
	svc := f.voucherSvc()

	_, err := svc.Issue(context.Background(), dto.IssueVoucherRequest{
		Phone:          "11112222",
		TierPointsCost: 123,
	})
	assert.ErrorContains(t, err, "unknown reward tier")
}

func TestRedeemVoucher_ExactlyOnce(t *testing.T) {
	f := newFixture(loyalty.PolicyTieredReward)
	f.seedEarn("11112222", 100, time.Hour)
	svc := f.voucherSvc()

	issued, err := svc.Issue(context.Background(), dto.IssueVoucherRequest{
		Phone:          "11112222",
		TierPointsCost: 100,
	})
	require.NoError(t, err)

	redeemed, err := svc.Redeem(context.Background(), issued.Code)
	require.NoError(t, err)
	assert.True(t, redeemed.Redeemed)
	require.NotNil(t, redeemed.RedeemedAt)

	// The second redeem must be rejected — vouchers burn once.
	_, err = svc.Redeem(context.Background(), issued.Code)
	assert.ErrorIs(t, err, repository.ErrVoucherAlreadyRedeemed)
}

func TestRedeemVoucher_NotFound(t *testing.T) {
	f := newFixture(loyalty.PolicyTieredReward)
	svc := f.voucherSvc()

	_, err := svc.Redeem(context.Background(), "V0000-100-5-20260101000000")
	assert.ErrorIs(t, err, service.ErrVoucherNotFound)
}

func TestListVouchersByPhone(t *testing.T) {
	f := newFixture(loyalty.PolicyTieredReward)
	f.seedEarn("11112222", 200, time.Hour)
	svc := f.voucherSvc()

	_, err := svc.Issue(context.Background(), dto.IssueVoucherRequest{Phone: "11112222", TierPointsCost: 100})
	require.NoError(t, err)

	resp, err := svc.ListByPhone(context.Background(), "11112222")
	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)

	other, err := svc.ListByPhone(context.Background(), "99998888")
	require.NoError(t, err)
	assert.Empty(t, other.Data)
}

func TestTiers_MirrorsConfiguration(t *testing.T) {
	f := newFixture(loyalty.PolicyTieredReward)
	tiers := f.voucherSvc().Tiers()
	require.Len(t, tiers, 3)
	assert.Equal(t, 100, tiers[0].PointsCost)
	assert.Equal(t, "5", tiers[0].CashValue.String())
}
