package stores

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/errors"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

// orderMutableColumns are replaced wholesale on every upsert. Identity
// (id, external_order_id) and created_at survive across events.
var orderMutableColumns = []string{
	"customer_email",
	"customer_name",
	"total_price",
	"currency",
	"payment_status",
	"fulfillment_status",
	"item_quantity",
	"processed_at",
	"line_items",
	"order_type",
	"updated_at",
}

type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{
		db: db,
	}
}

// Upsert is a storage-level insert-or-replace on external_order_id. Two
// concurrent upserts for the same order resolve to last-writer-wins inside
// the database; no partial row is ever visible.
func (s *OrderStore) Upsert(ctx context.Context, order *models.Order) (*models.Order, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_order_id"}},
		DoUpdates: clause.AssignmentColumns(orderMutableColumns),
	}).Create(order).Error
	if err != nil {
		return nil, apperrors.NewStorageError(err, "Failed to upsert order")
	}

	// Re-read so callers see the surviving identity and creation timestamp,
	// not the values of the row we attempted to insert.
	stored, err := s.FindByExternalID(ctx, order.ExternalOrderID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, apperrors.NewStorageError(gorm.ErrRecordNotFound, "Upserted order not visible")
	}
	return stored, nil
}

func (s *OrderStore) FindByExternalID(ctx context.Context, externalOrderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Where("external_order_id = ?", externalOrderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewStorageError(err, "Failed to get order")
	}
	return &order, nil
}

func (s *OrderStore) List(ctx context.Context, req *models.PaginationRequest, status *models.PaymentStatus) ([]models.Order, int64, error) {
	countQuery := s.db.WithContext(ctx).Model(&models.Order{})
	if status != nil {
		countQuery = countQuery.Where("payment_status = ?", *status)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, 0, apperrors.NewStorageError(err, "Failed to count orders")
	}

	query := s.db.WithContext(ctx).Order("processed_at DESC")
	if status != nil {
		query = query.Where("payment_status = ?", *status)
	}

	var orders []models.Order
	err := query.Limit(req.Limit).Offset(req.Offset()).Find(&orders).Error
	if err != nil {
		return nil, 0, apperrors.NewStorageError(err, "Failed to list orders")
	}

	return orders, totalItems, nil
}
