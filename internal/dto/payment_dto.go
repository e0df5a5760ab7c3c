package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProcessPaymentRequest is bound from POST /v1/payments.
type ProcessPaymentRequest struct {
	Phone  string          `json:"phone"  validate:"required,len=8,numeric"`
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Method string          `json:"method" validate:"required,oneof=cash check credit_card"`
	// RedeemPoints opts this transaction into point redemption — only
	// meaningful under the manual_toggle policy.
	RedeemPoints bool `json:"redeem_points"`
	// TierPointsCost selects a reward tier by its points cost — only
	// meaningful under the tiered_reward policy.
	TierPointsCost *int `json:"tier_points_cost" validate:"omitempty,gt=0"`
	// CustomerEmail: optional — when present, the receipt worker mails the
	// loyalty receipt PDF.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

// PaymentFilter is bound from query string of GET /v1/payments.
type PaymentFilter struct {
	Phone string `form:"phone" validate:"omitempty,len=8,numeric"`
	Date  string `form:"date"` // YYYY-MM-DD; empty = all
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// PaymentResponse carries the full per-payment loyalty breakdown.
type PaymentResponse struct {
	ID               string          `json:"id"`
	Phone            string          `json:"phone"`
	OriginalAmount   decimal.Decimal `json:"original_amount"`
	BirthdayDiscount decimal.Decimal `json:"birthday_discount"`
	RewardDiscount   decimal.Decimal `json:"reward_discount"`
	PointsRedeemed   decimal.Decimal `json:"points_redeemed"`
	FinalAmount      decimal.Decimal `json:"final_amount"`
	Method           string          `json:"method"`
	Timestamp        string          `json:"timestamp"`
	PointsEarned     decimal.Decimal `json:"points_earned"`
	TotalPoints      decimal.Decimal `json:"total_points"`
}

type PaymentListResponse struct {
	Data  []PaymentResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
