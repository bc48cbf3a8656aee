package services

import (
	"context"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/errors"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

// VoucherService is the back-office view over issued vouchers plus the
// operational re-drive for notifications that never went out.
type VoucherService struct {
	vouchers      VoucherStore
	orders        OrderStore
	notifications *NotificationService
}

func NewVoucherService(vouchers VoucherStore, orders OrderStore, notifications *NotificationService) *VoucherService {
	return &VoucherService{
		vouchers:      vouchers,
		orders:        orders,
		notifications: notifications,
	}
}

func (s *VoucherService) GetVoucherByCode(ctx context.Context, code string) (*models.Voucher, error) {
	voucher, err := s.vouchers.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, errors.NewNotFoundError("Voucher not found")
	}
	return voucher, nil
}

func (s *VoucherService) GetVouchers(ctx context.Context, pagination *models.PaginationRequest, notified *bool, voucherType *models.VoucherType) (*models.Pagination[[]models.Voucher], error) {
	pagination.Normalize()

	vouchers, total, err := s.vouchers.List(ctx, pagination, notified, voucherType)
	if err != nil {
		return nil, err
	}

	return models.NewPagination(pagination, vouchers, total), nil
}

// RedeliverNotification re-runs the dispatcher for one voucher. Safe to call
// on an already-notified voucher: Notify short-circuits without a send.
func (s *VoucherService) RedeliverNotification(ctx context.Context, code string) (*models.NotifyResult, error) {
	voucher, err := s.GetVoucherByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByExternalID(ctx, voucher.ExternalOrderID)
	if err != nil {
		return nil, err
	}

	return s.notifications.Notify(ctx, voucher, order), nil
}
