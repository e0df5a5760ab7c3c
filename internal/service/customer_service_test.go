package service_test

import (
	"context"
	"testing"
	"time"

	"loyaltypos/internal/dto"
	"loyaltypos/internal/loyalty"
	"loyaltypos/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOrUpdate_CreatesThenUpdates(t *testing.T) {
	f := newFixture(loyalty.PolicyEarnOnly)
	svc := f.customerSvc()

	resp, err := svc.SaveOrUpdate(context.Background(), "11112222", dto.SaveCustomerRequest{Birthday: "1990-06-15"})
	require.NoError(t, err)
	require.NotNil(t, resp.Birthday)
	assert.Equal(t, "1990-06-15", *resp.Birthday)

	// Same phone, corrected birthday.
	resp, err = svc.SaveOrUpdate(context.Background(), "11112222", dto.SaveCustomerRequest{Birthday: "1990-06-16"})
	require.NoError(t, err)
	require.NotNil(t, resp.Birthday)
	assert.Equal(t, "1990-06-16", *resp.Birthday)

	c, _ := f.customers.FindByPhone(context.Background(), "11112222")
	require.NotNil(t, c)
	assert.Equal(t, "1990-06-16", c.Birthday.Format("2006-01-02"))
}

func TestSaveOrUpdate_RejectsBadInput(t *testing.T) {
	f := newFixture(loyalty.PolicyEarnOnly)
	svc := f.customerSvc()

	_, err := svc.SaveOrUpdate(context.Background(), "123", dto.SaveCustomerRequest{Birthday: "1990-06-15"})
	assert.ErrorContains(t, err, "phone")

	_, err = svc.SaveOrUpdate(context.Background(), "11112222", dto.SaveCustomerRequest{Birthday: "15/06/1990"})
	assert.ErrorContains(t, err, "birthday")
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(loyalty.PolicyEarnOnly)
	svc := f.customerSvc()

	_, err := svc.Get(context.Background(), "99998888")
	assert.ErrorIs(t, err, service.ErrCustomerNotFound)
}

func TestGet_RefreshesCachedBalance(t *testing.T) {
	f := newFixture(loyalty.PolicyEarnOnly)
	f.seedCustomer("11112222", nil)
	f.seedEarn("11112222", 80, time.Hour)
	svc := f.customerSvc()

	resp, err := svc.Get(context.Background(), "11112222")
	require.NoError(t, err)
	assert.Equal(t, "80", resp.TotalPoints.String())

	c, _ := f.customers.FindByPhone(context.Background(), "11112222")
	assert.Equal(t, "80", c.TotalPoints.String(), "read path must persist the refreshed cache")
}

func TestBalanceEndpoint_ComputesFromLedger(t *testing.T) {
	f := newFixture(loyalty.PolicyEarnOnly)
	f.seedEarn("11112222", 42.5, time.Hour)
	svc := f.customerSvc()

	resp, err := svc.Balance(context.Background(), "11112222")
	require.NoError(t, err)
	assert.Equal(t, "42.5", resp.Balance.String())
	assert.Equal(t, "11112222", resp.Phone)
	assert.NotEmpty(t, resp.ReferenceAt)
}
