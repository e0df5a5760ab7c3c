package repository

import (
	"context"
	"time"

	"loyaltypos/internal/model"

	"gorm.io/gorm"
)

type RedemptionRepository interface {
	Append(ctx context.Context, tx *gorm.DB, rd *model.Redemption) error
	// ListSince returns the customer's spend events inside the expiry horizon.
	ListSince(ctx context.Context, phone string, cutoff time.Time) ([]model.Redemption, error)
	Reset(ctx context.Context) error
}

type redemptionRepo struct{ db *gorm.DB }

func NewRedemptionRepository(db *gorm.DB) RedemptionRepository { return &redemptionRepo{db: db} }

func (r *redemptionRepo) Append(ctx context.Context, tx *gorm.DB, rd *model.Redemption) error {
	return tx.WithContext(ctx).Create(rd).Error
}

func (r *redemptionRepo) ListSince(ctx context.Context, phone string, cutoff time.Time) ([]model.Redemption, error) {
	var redemptions []model.Redemption
	err := r.db.WithContext(ctx).
		Where("phone = ? AND timestamp >= ?", phone, cutoff).
		Find(&redemptions).Error
	return redemptions, err
}

func (r *redemptionRepo) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Redemption{}).Error
}
