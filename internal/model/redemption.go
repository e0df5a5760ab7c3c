package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Redemption is an immutable spend event: points removed from the usable
// balance, whether by auto-redeem at checkout, a manual redeem, or voucher
// issuance. Append-only, same as Payment.
type Redemption struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Phone     string          `gorm:"type:varchar(8);index:idx_redemptions_phone_ts;not null"`
	Points    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Timestamp time.Time       `gorm:"index:idx_redemptions_phone_ts;not null"`
	CreatedAt time.Time
}
