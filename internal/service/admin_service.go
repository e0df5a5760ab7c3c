package service

import (
	"context"

	"loyaltypos/internal/repository"

	"github.com/rs/zerolog/log"
)

// AdminService covers the destructive maintenance operations. Operator
// accounts are deliberately left alone — whoever pressed the button still
// needs to log in afterwards.
type AdminService interface {
	// ClearAllData wipes customers, payments, redemptions and vouchers.
	ClearAllData(ctx context.Context) error
}

type adminService struct {
	customers   repository.CustomerRepository
	payments    repository.PaymentRepository
	redemptions repository.RedemptionRepository
	vouchers    repository.VoucherRepository
}

func NewAdminService(
	customers repository.CustomerRepository,
	payments repository.PaymentRepository,
	redemptions repository.RedemptionRepository,
	vouchers repository.VoucherRepository,
) AdminService {
	return &adminService{
		customers:   customers,
		payments:    payments,
		redemptions: redemptions,
		vouchers:    vouchers,
	}
}

func (s *adminService) ClearAllData(ctx context.Context) error {
	if err := s.vouchers.Reset(ctx); err != nil {
		return err
	}
	if err := s.redemptions.Reset(ctx); err != nil {
		return err
	}
	if err := s.payments.Reset(ctx); err != nil {
		return err
	}
	if err := s.customers.Reset(ctx); err != nil {
		return err
	}
	log.Warn().Msg("all loyalty data cleared")
	return nil
}
