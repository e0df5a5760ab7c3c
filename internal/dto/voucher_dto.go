package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// IssueVoucherRequest buys a reward tier as a named voucher. Points are
// deducted immediately at issue time.
type IssueVoucherRequest struct {
	Phone          string `json:"phone"            validate:"required,len=8,numeric"`
	TierPointsCost int    `json:"tier_points_cost" validate:"required,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VoucherResponse struct {
	Code       string          `json:"code"`
	Phone      string          `json:"phone"`
	PointsCost int             `json:"points_cost"`
	Amount     decimal.Decimal `json:"amount"`
	IssuedAt   string          `json:"issued_at"`
	Redeemed   bool            `json:"redeemed"`
	RedeemedAt *string         `json:"redeemed_at"`
}

type VoucherListResponse struct {
	Data []VoucherResponse `json:"data"`
}

// RewardTierResponse describes one configured reward tier.
type RewardTierResponse struct {
	PointsCost int             `json:"points_cost"`
	CashValue  decimal.Decimal `json:"cash_value"`
}
