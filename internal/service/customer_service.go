package service

import (
	"context"
	"errors"
	"time"

	"loyaltypos/internal/dto"
	"loyaltypos/internal/model"
	"loyaltypos/internal/repository"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerService interface {
	// SaveOrUpdate creates the customer on first contact and updates the
	// birthday on every later call. Phone is the identity and never changes.
	SaveOrUpdate(ctx context.Context, phone string, req dto.SaveCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, phone string) (*dto.CustomerResponse, error)
	Balance(ctx context.Context, phone string) (*dto.BalanceResponse, error)
	List(ctx context.Context) ([]dto.CustomerResponse, error)
}

type customerService struct {
	customers repository.CustomerRepository
	ledger    LedgerService
	cfg       LoyaltyConfig
}

func NewCustomerService(customers repository.CustomerRepository, ledger LedgerService, cfg LoyaltyConfig) CustomerService {
	return &customerService{customers: customers, ledger: ledger, cfg: cfg}
}

func (s *customerService) SaveOrUpdate(ctx context.Context, phone string, req dto.SaveCustomerRequest) (*dto.CustomerResponse, error) {
	if !phonePattern.MatchString(phone) {
		return nil, errors.New("invalid phone number: must be exactly 8 digits")
	}
	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		return nil, errors.New("invalid birthday: expected YYYY-MM-DD")
	}

	err = repository.WithRetry(ctx, s.cfg.Retry, func(ctx context.Context) error {
		c, err := s.customers.FindByPhone(ctx, phone)
		if err != nil {
			return err
		}
		if c == nil {
			return s.customers.Create(ctx, &model.Customer{
				Phone:    phone,
				Birthday: &birthday,
			})
		}
		return s.customers.UpdateBirthday(ctx, phone, birthday, c.Version)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, phone)
}

// Get refreshes the cached balance before answering, so the total_points the
// register displays already accounts for points that expired since the last
// write.
func (s *customerService) Get(ctx context.Context, phone string) (*dto.CustomerResponse, error) {
	if !phonePattern.MatchString(phone) {
		return nil, errors.New("invalid phone number: must be exactly 8 digits")
	}
	c, err := s.customers.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCustomerNotFound
	}

	balance, err := s.ledger.RefreshCachedBalance(ctx, phone, time.Now().UTC())
	if err != nil {
		// Stale cache is tolerable on a read path.
		balance = c.TotalPoints
	}

	resp := &dto.CustomerResponse{
		Phone:       c.Phone,
		TotalPoints: balance,
	}
	if c.Birthday != nil {
		b := c.Birthday.Format("2006-01-02")
		resp.Birthday = &b
	}
	return resp, nil
}

func (s *customerService) Balance(ctx context.Context, phone string) (*dto.BalanceResponse, error) {
	if !phonePattern.MatchString(phone) {
		return nil, errors.New("invalid phone number: must be exactly 8 digits")
	}
	now := time.Now().UTC()
	balance, err := s.ledger.Balance(ctx, phone, now)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{
		Phone:       phone,
		ReferenceAt: now.Format(time.RFC3339),
		Balance:     balance,
	}, nil
}

func (s *customerService) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		item := dto.CustomerResponse{Phone: c.Phone, TotalPoints: c.TotalPoints}
		if c.Birthday != nil {
			b := c.Birthday.Format("2006-01-02")
			item.Birthday = &b
		}
		resp = append(resp, item)
	}
	return resp, nil
}
