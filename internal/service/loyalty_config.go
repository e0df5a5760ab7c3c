package service

import (
	"context"
	"time"

	"loyaltypos/internal/config"
	"loyaltypos/internal/loyalty"
	"loyaltypos/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoyaltyConfig carries the deployment's loyalty parameters, parsed once at
// startup from the raw env config. Services receive this instead of the whole
// config.Config so tests can construct them directly.
type LoyaltyConfig struct {
	PointsPerUnit  decimal.Decimal
	DiscountRate   decimal.Decimal
	WindowDays     int
	PostWindowDays int
	ExpiryDays     int
	Policy         loyalty.Policy
	Tiers          []loyalty.Tier
	Retry          repository.RetryConfig
}

// NewLoyaltyConfig validates and parses the loyalty knobs out of cfg.
func NewLoyaltyConfig(cfg *config.Config) (LoyaltyConfig, error) {
	policy, err := loyalty.ParsePolicy(cfg.RedemptionPolicy)
	if err != nil {
		return LoyaltyConfig{}, err
	}
	tiers, err := loyalty.ParseTiers(cfg.RewardTiers)
	if err != nil {
		return LoyaltyConfig{}, err
	}
	return LoyaltyConfig{
		PointsPerUnit:  decimal.NewFromFloat(cfg.PointsPerUnit),
		DiscountRate:   decimal.NewFromFloat(cfg.BirthdayDiscountRate),
		WindowDays:     cfg.BirthdayWindowDays,
		PostWindowDays: cfg.BirthdayPostWindowDays,
		ExpiryDays:     cfg.PointsExpiryDays,
		Policy:         policy,
		Tiers:          tiers,
		Retry: repository.RetryConfig{
			MaxAttempts: cfg.StoreMaxRetries,
			Backoff:     time.Duration(cfg.StoreRetryBackoffMS) * time.Millisecond,
		},
	}, nil
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
