package service_test

import (
	"context"
	"testing"
	"time"

	"loyaltypos/internal/loyalty"
	"loyaltypos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalance_SubtractsSpends(t *testing.T) {
	f := newFixture(loyalty.PolicyEarnOnly)
	f.seedEarn("11112222", 100, time.Hour)
	f.seedEarn("11112222", 50, time.Hour)
	f.redemptions.redemptions = append(f.redemptions.redemptions, model.Redemption{
		ID: uuid.New(), Phone: "11112222",
		Points: decimal.NewFromInt(40), Timestamp: time.Now().UTC().Add(-time.Hour),
	})

	balance, err := f.ledger.Balance(context.Background(), "11112222", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, "110", balance.String())
}

func TestBalance_ExpiryBoundaryInclusive(t *testing.T) {
	f := newFixture(loyalty.PolicyEarnOnly)
	ref := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	cutoff := ref.AddDate(0, 0, -365)

	// Exactly at the horizon — still counts.
	f.payments.payments = append(f.payments.payments, model.Payment{
		ID: uuid.New(), Phone: "11112222",
		OriginalAmount: decimal.NewFromInt(30), FinalAmount: decimal.NewFromInt(30),
		Method: model.MethodCash, Timestamp: cutoff,
	})
	// One second older — expired.
	f.payments.payments = append(f.payments.payments, model.Payment{
		ID: uuid.New(), Phone: "11112222",
		OriginalAmount: decimal.NewFromInt(70), FinalAmount: decimal.NewFromInt(70),
		Method: model.MethodCash, Timestamp: cutoff.Add(-time.Second),
	})

	balance, err := f.ledger.Balance(context.Background(), "11112222", ref)
	require.NoError(t, err)
	assert.Equal(t, "30", balance.String())
}

func TestBalance_ExpiredEarnDoesNotGoNegative(t *testing.T) {
	f := newFixture(loyalty.PolicyEarnOnly)
	now := time.Now().UTC()

	// The earn aged out of the horizon, the spend has not.
	f.payments.payments = append(f.payments.payments, model.Payment{
		ID: uuid.New(), Phone: "11112222",
		OriginalAmount: decimal.NewFromInt(100), FinalAmount: decimal.NewFromInt(100),
		Method: model.MethodCash, Timestamp: now.AddDate(0, 0, -400),
	})
	f.redemptions.redemptions = append(f.redemptions.redemptions, model.Redemption{
		ID: uuid.New(), Phone: "11112222",
		Points: decimal.NewFromInt(60), Timestamp: now.AddDate(0, 0, -10),
	})

	balance, err := f.ledger.Balance(context.Background(), "11112222", now)
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "balance must clamp at zero, got %s", balance)
}

func TestBalance_IsIdempotent(t *testing.T) {
	f := newFixture(loyalty.PolicyEarnOnly)
	f.seedEarn("11112222", 75.5, time.Hour)
	ref := time.Now().UTC()

	first, err := f.ledger.Balance(context.Background(), "11112222", ref)
	require.NoError(t, err)
	second, err := f.ledger.Balance(context.Background(), "11112222", ref)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestRefreshCachedBalance_CreatesMissingRow(t *testing.T) {
	f := newFixture(loyalty.PolicyEarnOnly)
	f.seedEarn("11112222", 80, time.Hour)

	balance, err := f.ledger.RefreshCachedBalance(context.Background(), "11112222", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, "80", balance.String())

	c, err := f.customers.FindByPhone(context.Background(), "11112222")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "80", c.TotalPoints.String())
}

func TestRefreshCachedBalance_RetriesVersionConflict(t *testing.T) {
	f := newFixture(loyalty.PolicyEarnOnly)
	f.seedCustomer("11112222", nil)
	f.seedEarn("11112222", 40, time.Hour)
	f.customers.conflicts = 2 // two concurrent writers race us, then we win

	balance, err := f.ledger.RefreshCachedBalance(context.Background(), "11112222", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, "40", balance.String())
}
