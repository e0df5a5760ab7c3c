package repository

import (
	"context"
	"time"

	"loyaltypos/internal/dto"
	"loyaltypos/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	// Append writes one immutable payment row. tx may be nil in unit tests.
	Append(ctx context.Context, tx *gorm.DB, p *model.Payment) error
	// ListSince returns the customer's earn events inside the expiry horizon,
	// i.e. timestamp >= cutoff (boundary inclusive).
	ListSince(ctx context.Context, phone string, cutoff time.Time) ([]model.Payment, error)
	List(ctx context.Context, filter dto.PaymentFilter) ([]model.Payment, int64, error)
	Reset(ctx context.Context) error
	DB() *gorm.DB
}

type paymentRepo struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) PaymentRepository { return &paymentRepo{db: db} }

func (r *paymentRepo) DB() *gorm.DB { return r.db }

func (r *paymentRepo) Append(ctx context.Context, tx *gorm.DB, p *model.Payment) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *paymentRepo) ListSince(ctx context.Context, phone string, cutoff time.Time) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("phone = ? AND timestamp >= ?", phone, cutoff).
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) List(ctx context.Context, filter dto.PaymentFilter) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Payment{})
	if filter.Phone != "" {
		q = q.Where("phone = ?", filter.Phone)
	}
	if filter.Date != "" {
		q = q.Where("DATE(timestamp) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("timestamp DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&payments).Error

	return payments, total, err
}

func (r *paymentRepo) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Payment{}).Error
}
