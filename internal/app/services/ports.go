package services

import (
	"context"
	"errors"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

// Storage and collaborator ports consumed by the pipeline services. The gorm
// implementations live in internal/app/stores; tests swap in in-memory fakes.

var (
	// ErrIssuanceClaimed is returned by CreateIssuance when another caller
	// already holds the issuance claim for the order.
	ErrIssuanceClaimed = errors.New("issuance already claimed for order")

	// ErrVoucherCodeCollision is returned when a generated voucher code
	// collided with an existing row. The caller regenerates codes and retries.
	ErrVoucherCodeCollision = errors.New("voucher code collision")
)

type OrderStore interface {
	// Upsert inserts the snapshot or atomically replaces all mutable fields
	// of the existing row with the same external order id.
	Upsert(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByExternalID(ctx context.Context, externalOrderID string) (*models.Order, error)
	List(ctx context.Context, req *models.PaginationRequest, status *models.PaymentStatus) ([]models.Order, int64, error)
}

type VoucherStore interface {
	FindByOrder(ctx context.Context, externalOrderID string) ([]models.Voucher, error)
	FindByCode(ctx context.Context, code string) (*models.Voucher, error)
	List(ctx context.Context, req *models.PaginationRequest, notified *bool, voucherType *models.VoucherType) ([]models.Voucher, int64, error)

	// CreateIssuance persists the claim and every voucher row in a single
	// transaction. It fails with ErrIssuanceClaimed or
	// ErrVoucherCodeCollision on the respective unique-key conflicts.
	CreateIssuance(ctx context.Context, claim *models.IssuanceClaim, vouchers []*models.Voucher) error

	// MarkNotified flips notified false->true with a guarded update and
	// reports whether this caller won the write.
	MarkNotified(ctx context.Context, code string) (bool, error)
}

type EventStore interface {
	Record(ctx context.Context, record *models.EventRecord) error
}

type DocumentRenderer interface {
	Render(ctx context.Context, kind models.DocumentKind, voucher *models.Voucher, order *models.Order) ([]byte, error)
}

type MessageTransport interface {
	Send(ctx context.Context, msg *models.OutboundMessage) (string, error)
}
