package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment method: "cash" | "check" | "credit_card"
const (
	MethodCash       = "cash"
	MethodCheck      = "check"
	MethodCreditCard = "credit_card"
)

// Payment is an immutable earn event in the loyalty ledger. Rows are only ever
// appended — never updated or deleted, except by the admin bulk reset.
// FinalAmount = OriginalAmount − BirthdayDiscount − RewardDiscount − PointsRedeemed,
// clamped at 0. Points earned are always sized to OriginalAmount.
type Payment struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Phone            string          `gorm:"type:varchar(8);index:idx_payments_phone_ts;not null"`
	OriginalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BirthdayDiscount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	RewardDiscount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PointsRedeemed   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FinalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method           string          `gorm:"type:varchar(20);not null"`
	Timestamp        time.Time       `gorm:"index:idx_payments_phone_ts;not null"`
	CreatedAt        time.Time
}
