package models

import (
	"time"

	"github.com/google/uuid"
)

type VoucherType string

const (
	VoucherTypeVoucher VoucherType = "VOUCHER"
	VoucherTypeGift    VoucherType = "GIFT"
)

// Voucher is one redeemable unit derived from a paid order. Immutable after
// creation except for the notified and used flags.
type Voucher struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code            string      `gorm:"uniqueIndex;not null" json:"code"`
	ExternalOrderID string      `gorm:"index;not null" json:"external_order_id"`
	CustomerEmail   *string     `json:"customer_email,omitempty"`
	ProductTitle    *string     `json:"product_title,omitempty"`
	Type            VoucherType `json:"type"`
	Notified        bool        `gorm:"default:false" json:"notified"`
	NotifiedAt      *time.Time  `json:"notified_at,omitempty"`
	Used            bool        `gorm:"default:false" json:"used"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// VoucherRequest is the derivation engine's output: one request per voucher
// to be issued, before codes are allocated.
type VoucherRequest struct {
	ProductTitle string      `json:"product_title"`
	Type         VoucherType `json:"type"`
}

// IssuanceClaim gates voucher fan-out per order. The unique external_order_id
// is what makes two concurrent issuance passes mutually exclusive: the claim
// row and all voucher rows commit in one transaction, so the loser of the
// race sees a duplicate-key error and never writes a voucher.
type IssuanceClaim struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ExternalOrderID string    `gorm:"uniqueIndex;not null" json:"external_order_id"`
	VoucherCount    int       `json:"voucher_count"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type IssuanceResult struct {
	Issued   bool      `json:"issued"`
	Vouchers []Voucher `json:"vouchers"`
}

type NotifyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type DocumentKind string

const (
	DocumentKindVoucher DocumentKind = "voucher"
	DocumentKindGift    DocumentKind = "gift-card"
)

// OutboundMessage is what the message transport sends. Attachment may be nil
// when rendering failed and the dispatcher degraded to a plain mail.
type OutboundMessage struct {
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	Attachment     []byte `json:"-"`
	AttachmentName string `json:"attachment_name,omitempty"`
}
