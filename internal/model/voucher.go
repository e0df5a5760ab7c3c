package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Voucher is a fixed-tier reward bought with points. The points are deducted
// at issue time (a Redemption row is written in the same transaction), so
// redeeming the voucher later involves no points math.
// Redeemed transitions false → true exactly once.
type Voucher struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Phone      string          `gorm:"type:varchar(8);index;not null"`
	Code       string          `gorm:"uniqueIndex;not null"`
	PointsCost int             `gorm:"not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IssuedAt   time.Time       `gorm:"not null"`
	Redeemed   bool            `gorm:"not null;default:false"`
	RedeemedAt *time.Time
	CreatedAt  time.Time
}
