package stores

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/errors"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/services"
)

type VoucherStore struct {
	db *gorm.DB
}

func NewVoucherStore(db *gorm.DB) *VoucherStore {
	return &VoucherStore{
		db: db,
	}
}

func (s *VoucherStore) FindByOrder(ctx context.Context, externalOrderID string) ([]models.Voucher, error) {
	var vouchers []models.Voucher
	err := s.db.WithContext(ctx).
		Where("external_order_id = ?", externalOrderID).
		Order("created_at ASC").
		Find(&vouchers).Error
	if err != nil {
		return nil, apperrors.NewStorageError(err, "Failed to get vouchers for order")
	}
	return vouchers, nil
}

func (s *VoucherStore) FindByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := s.db.WithContext(ctx).
		Where("code = ?", code).
		First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewStorageError(err, "Failed to get voucher")
	}
	return &voucher, nil
}

func (s *VoucherStore) List(ctx context.Context, req *models.PaginationRequest, notified *bool, voucherType *models.VoucherType) ([]models.Voucher, int64, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		if notified != nil {
			q = q.Where("notified = ?", *notified)
		}
		if voucherType != nil {
			q = q.Where("type = ?", *voucherType)
		}
		return q
	}

	var totalItems int64
	if err := filter(s.db.WithContext(ctx).Model(&models.Voucher{})).Count(&totalItems).Error; err != nil {
		return nil, 0, apperrors.NewStorageError(err, "Failed to count vouchers")
	}

	var vouchers []models.Voucher
	err := filter(s.db.WithContext(ctx).Order("created_at DESC")).
		Limit(req.Limit).
		Offset(req.Offset()).
		Find(&vouchers).Error
	if err != nil {
		return nil, 0, apperrors.NewStorageError(err, "Failed to list vouchers")
	}

	return vouchers, totalItems, nil
}

// CreateIssuance writes the claim row and every voucher in one transaction.
// The claim's unique external_order_id makes the whole fan-out atomic against
// a concurrent caller: exactly one transaction commits, the other rolls back
// with a duplicate-key error and not a single voucher row.
func (s *VoucherStore) CreateIssuance(ctx context.Context, claim *models.IssuanceClaim, vouchers []*models.Voucher) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(claim).Error; err != nil {
			return err
		}
		return tx.Create(&vouchers).Error
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Our own insert rolled back, so a visible claim can only belong to
		// a concurrent winner. No claim means the conflict was a voucher
		// code; the caller regenerates and retries.
		claimed, checkErr := s.claimExists(ctx, claim.ExternalOrderID)
		if checkErr != nil {
			return checkErr
		}
		if claimed {
			return services.ErrIssuanceClaimed
		}
		return services.ErrVoucherCodeCollision
	}

	return apperrors.NewStorageError(err, "Failed to create vouchers")
}

func (s *VoucherStore) claimExists(ctx context.Context, externalOrderID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.IssuanceClaim{}).
		Where("external_order_id = ?", externalOrderID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewStorageError(err, "Failed to check issuance claim")
	}
	return count > 0, nil
}

// MarkNotified is the guarded false->true transition. The WHERE clause
// re-checks notified at write time, so of two concurrent dispatchers exactly
// one sees rows_affected == 1.
func (s *VoucherStore) MarkNotified(ctx context.Context, code string) (bool, error) {
	now := time.Now().UTC()
	result := s.db.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("code = ? AND notified = ?", code, false).
		Updates(map[string]interface{}{
			"notified":    true,
			"notified_at": now,
		})
	if result.Error != nil {
		return false, apperrors.NewStorageError(result.Error, "Failed to mark voucher notified")
	}
	return result.RowsAffected == 1, nil
}
