package repository

import (
	"context"
	"errors"
	"time"

	"loyaltypos/internal/model"

	"gorm.io/gorm"
)

// ErrVoucherAlreadyRedeemed is returned when a voucher's single false→true
// redeemed transition has already happened.
var ErrVoucherAlreadyRedeemed = errors.New("voucher already redeemed")

type VoucherRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Voucher) error
	// FindByCode returns (nil, nil) when no voucher carries the code.
	FindByCode(ctx context.Context, code string) (*model.Voucher, error)
	// MarkRedeemed flips redeemed exactly once; a second call fails with
	// ErrVoucherAlreadyRedeemed.
	MarkRedeemed(ctx context.Context, code string, at time.Time) error
	ListByPhone(ctx context.Context, phone string) ([]model.Voucher, error)
	Reset(ctx context.Context) error
	DB() *gorm.DB
}

type voucherRepo struct{ db *gorm.DB }

func NewVoucherRepository(db *gorm.DB) VoucherRepository { return &voucherRepo{db: db} }

func (r *voucherRepo) DB() *gorm.DB { return r.db }

func (r *voucherRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Voucher) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *voucherRepo) FindByCode(ctx context.Context, code string) (*model.Voucher, error) {
	var v model.Voucher
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *voucherRepo) MarkRedeemed(ctx context.Context, code string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Voucher{}).
		Where("code = ? AND redeemed = false", code).
		Updates(map[string]interface{}{
			"redeemed":    true,
			"redeemed_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVoucherAlreadyRedeemed
	}
	return nil
}

func (r *voucherRepo) ListByPhone(ctx context.Context, phone string) ([]model.Voucher, error) {
	var vouchers []model.Voucher
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("issued_at DESC").
		Find(&vouchers).Error
	return vouchers, err
}

func (r *voucherRepo) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Voucher{}).Error
}
