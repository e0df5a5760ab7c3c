package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SaveCustomerRequest creates or updates a customer profile. The phone comes
// from the URL path; the birthday is required on first save and mutable after.
type SaveCustomerRequest struct {
	Birthday string `json:"birthday" validate:"required,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CustomerResponse struct {
	Phone       string          `json:"phone"`
	Birthday    *string         `json:"birthday"`
	TotalPoints decimal.Decimal `json:"total_points"`
}

// BalanceResponse is the ledger-computed unexpired point balance at a
// reference time.
type BalanceResponse struct {
	Phone       string          `json:"phone"`
	ReferenceAt string          `json:"reference_at"`
	Balance     decimal.Decimal `json:"balance"`
}
