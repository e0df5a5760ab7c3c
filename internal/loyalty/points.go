package loyalty

import "github.com/shopspring/decimal"

// PointsForAmount sizes the earn event for a payment. Points always accrue on
// the original, pre-discount amount — never on the discounted final amount.
func PointsForAmount(originalAmount, pointsPerUnit decimal.Decimal) decimal.Decimal {
	return originalAmount.Mul(pointsPerUnit).Round(2)
}

// BirthdayDiscount applies the percentage discount to amount and returns the
// remaining payable amount plus the discount taken, both rounded to 2 dp.
func BirthdayDiscount(amount, rate decimal.Decimal) (after, discount decimal.Decimal) {
	discount = amount.Mul(rate).Round(2)
	after = amount.Sub(discount).Round(2)
	return after, discount
}
