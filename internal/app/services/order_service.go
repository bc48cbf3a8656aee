package services

import (
	"context"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/errors"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

// OrderService serves the back-office read side. All writes go through the
// pipeline's upsert; nothing here mutates.
type OrderService struct {
	orders   OrderStore
	vouchers VoucherStore
}

func NewOrderService(orders OrderStore, vouchers VoucherStore) *OrderService {
	return &OrderService{
		orders:   orders,
		vouchers: vouchers,
	}
}

func (s *OrderService) GetOrder(ctx context.Context, externalOrderID string) (*models.Order, error) {
	order, err := s.orders.FindByExternalID(ctx, externalOrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.NewNotFoundError("Order not found")
	}
	return order, nil
}

func (s *OrderService) GetOrders(ctx context.Context, pagination *models.PaginationRequest, status *models.PaymentStatus) (*models.Pagination[[]models.Order], error) {
	pagination.Normalize()

	orders, total, err := s.orders.List(ctx, pagination, status)
	if err != nil {
		return nil, err
	}

	return models.NewPagination(pagination, orders, total), nil
}

func (s *OrderService) GetOrderVouchers(ctx context.Context, externalOrderID string) ([]models.Voucher, error) {
	if _, err := s.GetOrder(ctx, externalOrderID); err != nil {
		return nil, err
	}
	return s.vouchers.FindByOrder(ctx, externalOrderID)
}
