package loyalty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPointsForAmount(t *testing.T) {
	one := decimal.NewFromInt(1)

	assert.Equal(t, "100", PointsForAmount(decimal.NewFromInt(100), one).String())

	half := decimal.RequireFromString("0.5")
	assert.Equal(t, "50", PointsForAmount(decimal.NewFromInt(100), half).String())

	// Rounded to 2 dp.
	rate := decimal.RequireFromString("0.333")
	assert.Equal(t, "3.33", PointsForAmount(decimal.NewFromInt(10), rate).String())
}

func TestBirthdayDiscount(t *testing.T) {
	rate := decimal.RequireFromString("0.15")

	after, discount := BirthdayDiscount(decimal.NewFromInt(100), rate)
	assert.Equal(t, "85", after.String())
	assert.Equal(t, "15", discount.String())

	// Rounding: 15% of 99.99 is 14.9985 → 15.
	after, discount = BirthdayDiscount(decimal.RequireFromString("99.99"), rate)
	assert.Equal(t, "15", discount.String())
	assert.Equal(t, "84.99", after.String())
}
