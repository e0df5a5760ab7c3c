package service_test

import (
	"context"
	"sort"
	"time"

	"loyaltypos/internal/dto"
	"loyaltypos/internal/loyalty"
	"loyaltypos/internal/model"
	"loyaltypos/internal/repository"
	"loyaltypos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubCustomerRepo is an in-memory CustomerRepository. conflicts simulates
// concurrent writers: that many CAS updates fail before one lands.
type stubCustomerRepo struct {
	customers map[string]*model.Customer
	conflicts int
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[string]*model.Customer)}
}

func (r *stubCustomerRepo) FindByPhone(_ context.Context, phone string) (*model.Customer, error) {
	return r.customers[phone], nil
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	r.customers[c.Phone] = c
	return nil
}

func (r *stubCustomerRepo) UpdateBirthday(_ context.Context, phone string, birthday time.Time, expectedVersion int) error {
	return r.casUpdate(phone, expectedVersion, func(c *model.Customer) { c.Birthday = &birthday })
}

func (r *stubCustomerRepo) UpdatePoints(_ context.Context, phone string, points decimal.Decimal, expectedVersion int) error {
	return r.casUpdate(phone, expectedVersion, func(c *model.Customer) { c.TotalPoints = points })
}

func (r *stubCustomerRepo) casUpdate(phone string, expectedVersion int, apply func(*model.Customer)) error {
	if r.conflicts > 0 {
		r.conflicts--
		return repository.ErrVersionConflict
	}
	c, ok := r.customers[phone]
	if !ok || c.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	apply(c)
	c.Version++
	return nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	phones := make([]string, 0, len(r.customers))
	for p := range r.customers {
		phones = append(phones, p)
	}
	sort.Strings(phones)
	out := make([]model.Customer, 0, len(phones))
	for _, p := range phones {
		out = append(out, *r.customers[p])
	}
	return out, nil
}

func (r *stubCustomerRepo) Reset(_ context.Context) error {
	r.customers = make(map[string]*model.Customer)
	return nil
}

func (r *stubCustomerRepo) DB() *gorm.DB { return nil }

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// stubPaymentRepo stores payments in memory, newest last.
type stubPaymentRepo struct {
	payments []model.Payment
}

func (r *stubPaymentRepo) Append(_ context.Context, _ *gorm.DB, p *model.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.payments = append(r.payments, *p)
	return nil
}

func (r *stubPaymentRepo) ListSince(_ context.Context, phone string, cutoff time.Time) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if p.Phone == phone && !p.Timestamp.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) List(_ context.Context, filter dto.PaymentFilter) ([]model.Payment, int64, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if filter.Phone != "" && p.Phone != filter.Phone {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPaymentRepo) Reset(_ context.Context) error {
	r.payments = nil
	return nil
}

func (r *stubPaymentRepo) DB() *gorm.DB { return nil }

var _ repository.PaymentRepository = (*stubPaymentRepo)(nil)

type stubRedemptionRepo struct {
	redemptions []model.Redemption
}

func (r *stubRedemptionRepo) Append(_ context.Context, _ *gorm.DB, rd *model.Redemption) error {
	if rd.ID == uuid.Nil {
		rd.ID = uuid.New()
	}
	r.redemptions = append(r.redemptions, *rd)
	return nil
}

func (r *stubRedemptionRepo) ListSince(_ context.Context, phone string, cutoff time.Time) ([]model.Redemption, error) {
	var out []model.Redemption
	for _, rd := range r.redemptions {
		if rd.Phone == phone && !rd.Timestamp.Before(cutoff) {
			out = append(out, rd)
		}
	}
	return out, nil
}

func (r *stubRedemptionRepo) Reset(_ context.Context) error {
	r.redemptions = nil
	return nil
}

var _ repository.RedemptionRepository = (*stubRedemptionRepo)(nil)

type stubVoucherRepo struct {
	vouchers map[string]*model.Voucher
}

func newStubVoucherRepo() *stubVoucherRepo {
	return &stubVoucherRepo{vouchers: make(map[string]*model.Voucher)}
}

func (r *stubVoucherRepo) Create(_ context.Context, _ *gorm.DB, v *model.Voucher) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.vouchers[v.Code] = v
	return nil
}

func (r *stubVoucherRepo) FindByCode(_ context.Context, code string) (*model.Voucher, error) {
	return r.vouchers[code], nil
}

func (r *stubVoucherRepo) MarkRedeemed(_ context.Context, code string, at time.Time) error {
	v, ok := r.vouchers[code]
	if !ok || v.Redeemed {
		return repository.ErrVoucherAlreadyRedeemed
	}
	v.Redeemed = true
	v.RedeemedAt = &at
	return nil
}

func (r *stubVoucherRepo) ListByPhone(_ context.Context, phone string) ([]model.Voucher, error) {
	var out []model.Voucher
	for _, v := range r.vouchers {
		if v.Phone == phone {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVoucherRepo) Reset(_ context.Context) error {
	r.vouchers = make(map[string]*model.Voucher)
	return nil
}

func (r *stubVoucherRepo) DB() *gorm.DB { return nil }

var _ repository.VoucherRepository = (*stubVoucherRepo)(nil)

// ── Test wiring helpers ───────────────────────────────────────────────────────

func testLoyaltyConfig(policy loyalty.Policy) service.LoyaltyConfig {
	tiers, err := loyalty.ParseTiers("100:5,250:15,500:40")
	if err != nil {
		panic(err)
	}
	return service.LoyaltyConfig{
		PointsPerUnit:  decimal.NewFromInt(1),
		DiscountRate:   decimal.NewFromFloat(0.15),
		WindowDays:     7,
		PostWindowDays: 0,
		ExpiryDays:     365,
		Policy:         policy,
		Tiers:          tiers,
		Retry:          repository.RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond},
	}
}

type fixture struct {
	customers   *stubCustomerRepo
	payments    *stubPaymentRepo
	redemptions *stubRedemptionRepo
	vouchers    *stubVoucherRepo
	ledger      service.LedgerService
	cfg         service.LoyaltyConfig
}

func newFixture(policy loyalty.Policy) *fixture {
	f := &fixture{
		customers:   newStubCustomerRepo(),
		payments:    &stubPaymentRepo{},
		redemptions: &stubRedemptionRepo{},
		vouchers:    newStubVoucherRepo(),
		cfg:         testLoyaltyConfig(policy),
	}
	f.ledger = service.NewLedgerService(f.payments, f.redemptions, f.customers, f.cfg)
	return f
}

func (f *fixture) paymentSvc() service.PaymentService {
	return service.NewPaymentService(f.customers, f.payments, f.redemptions, f.ledger, nil, f.cfg)
}

func (f *fixture) customerSvc() service.CustomerService {
	return service.NewCustomerService(f.customers, f.ledger, f.cfg)
}

func (f *fixture) voucherSvc() service.VoucherService {
	return service.NewVoucherService(f.vouchers, f.redemptions, f.ledger, f.cfg)
}

// seedEarn backdates one payment so the customer holds `amount` points.
func (f *fixture) seedEarn(phone string, amount float64, age time.Duration) {
	f.payments.payments = append(f.payments.payments, model.Payment{
		ID:             uuid.New(),
		Phone:          phone,
		OriginalAmount: decimal.NewFromFloat(amount),
		FinalAmount:    decimal.NewFromFloat(amount),
		Method:         model.MethodCash,
		Timestamp:      time.Now().UTC().Add(-age),
	})
}

func (f *fixture) seedCustomer(phone string, birthday *time.Time) {
	f.customers.customers[phone] = &model.Customer{
		Phone:       phone,
		Birthday:    birthday,
		TotalPoints: decimal.Zero,
	}
}
