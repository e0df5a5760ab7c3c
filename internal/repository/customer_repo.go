package repository

import (
	"context"
	"errors"
	"time"

	"loyaltypos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrVersionConflict is returned when a compare-and-swap write misses because
// another actor committed the customer row first. Callers retry the full
// read-modify-write cycle via WithRetry.
var ErrVersionConflict = errors.New("customer row moved since last read")

type CustomerRepository interface {
	// FindByPhone returns (nil, nil) when the customer does not exist —
	// absence is an expected branch (new-customer flow), not an error.
	FindByPhone(ctx context.Context, phone string) (*model.Customer, error)
	Create(ctx context.Context, c *model.Customer) error
	// UpdateBirthday and UpdatePoints are guarded by the row version read
	// beforehand; a stale version yields ErrVersionConflict.
	UpdateBirthday(ctx context.Context, phone string, birthday time.Time, expectedVersion int) error
	UpdatePoints(ctx context.Context, phone string, points decimal.Decimal, expectedVersion int) error
	List(ctx context.Context) ([]model.Customer, error)
	Reset(ctx context.Context) error
	DB() *gorm.DB
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) DB() *gorm.DB { return r.db }

func (r *customerRepo) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) UpdateBirthday(ctx context.Context, phone string, birthday time.Time, expectedVersion int) error {
	return r.casUpdate(ctx, phone, expectedVersion, map[string]interface{}{
		"birthday": birthday,
	})
}

func (r *customerRepo) UpdatePoints(ctx context.Context, phone string, points decimal.Decimal, expectedVersion int) error {
	return r.casUpdate(ctx, phone, expectedVersion, map[string]interface{}{
		"total_points": points,
	})
}

// casUpdate performs the optimistic-concurrency write: the update only lands
// when the version still matches what the caller read.
func (r *customerRepo) casUpdate(ctx context.Context, phone string, expectedVersion int, fields map[string]interface{}) error {
	fields["version"] = gorm.Expr("version + 1")
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("phone = ? AND version = ?", phone, expectedVersion).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *customerRepo) List(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Order("phone").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Customer{}).Error
}
