package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// NormalizePaymentStatus lower-cases whatever the platform sent. Unknown
// statuses pass through so the stored order still reflects upstream truth.
func NormalizePaymentStatus(s string) PaymentStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PaymentStatusPending
	}
	return PaymentStatus(s)
}

type OrderType string

const (
	OrderTypeVoucher OrderType = "VOUCHER"
	OrderTypeGift    OrderType = "GIFT"
)

type LineItem struct {
	Title        string          `json:"title"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	ProductID    *string         `json:"product_id,omitempty"`
	VariantID    *string         `json:"variant_id,omitempty"`
	VariantTitle string          `json:"variant_title,omitempty"`
	ItemType     VoucherType     `json:"item_type"`
}

// LineItems is stored as a single jsonb column; the order row fully replaces
// it on every upsert.
type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *LineItems) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported line items column type %T", src)
	}
}

// Order is the canonical snapshot of an upstream commerce order, keyed by the
// platform's stable order identifier. Mutable fields are overwritten wholesale
// on every event; ID and CreatedAt never change after the first insert.
type Order struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ExternalOrderID   string          `gorm:"uniqueIndex;not null" json:"external_order_id" validate:"required"`
	CustomerEmail     *string         `json:"customer_email,omitempty"`
	CustomerName      *string         `json:"customer_name,omitempty"`
	TotalPrice        decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_price"`
	Currency          string          `json:"currency"`
	PaymentStatus     PaymentStatus   `gorm:"index" json:"payment_status"`
	FulfillmentStatus *string         `json:"fulfillment_status,omitempty"`
	ItemQuantity      int             `json:"item_quantity" validate:"min=0"`
	ProcessedAt       time.Time       `json:"processed_at"`
	LineItems         LineItems       `gorm:"type:jsonb" json:"line_items"`
	OrderType         OrderType       `json:"order_type"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}
