package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is keyed by an 8-digit phone number.
// TotalPoints is a cached projection of the ledger — it is recomputed from the
// payment/redemption logs before any decision is made on it, never trusted as
// ground truth.
type Customer struct {
	Phone    string     `gorm:"primaryKey;type:varchar(8)"`
	Birthday *time.Time `gorm:"type:date"`
	// TotalPoints is refreshed on every read/write path via LedgerService.Balance.
	TotalPoints decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Version guards points/profile writes against concurrent commits.
	// Every successful update increments it; a compare-and-swap miss surfaces
	// repository.ErrVersionConflict.
	Version   int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
