package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventTopic string

const (
	TopicOrderCreated EventTopic = "order-created"
	TopicOrderUpdated EventTopic = "order-updated"
	TopicOrderPaid    EventTopic = "order-paid"
	TopicOrderDeleted EventTopic = "order-deleted"
)

// InboundEvent is one webhook delivery, captured before the 200 is sent and
// handed to the worker queue. Body is a private copy of the request body.
type InboundEvent struct {
	Topic      EventTopic `json:"topic"`
	Body       []byte     `json:"body"`
	ReceivedAt time.Time  `json:"received_at"`
}

// EventDialect discriminates the two payload shapes the platform delivers.
// It is determined exactly once per event at the normalizer boundary.
type EventDialect string

const (
	DialectFlat  EventDialect = "flat"
	DialectGraph EventDialect = "graph"
)

// --- flat dialect: snake_case commerce webhook ---

type FlatCustomer struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type FlatLineItem struct {
	Title        string          `json:"title"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	ProductID    json.Number     `json:"product_id,omitempty"`
	VariantID    json.Number     `json:"variant_id,omitempty"`
	VariantTitle *string         `json:"variant_title,omitempty"`
}

type FlatOrderPayload struct {
	ID                json.Number     `json:"id,omitempty"`
	OrderID           json.Number     `json:"order_id,omitempty"`
	Email             *string         `json:"email,omitempty"`
	Customer          *FlatCustomer   `json:"customer,omitempty"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	Currency          string          `json:"currency,omitempty"`
	FinancialStatus   string          `json:"financial_status,omitempty"`
	FulfillmentStatus *string         `json:"fulfillment_status,omitempty"`
	ProcessedAt       *time.Time      `json:"processed_at,omitempty"`
	CreatedAt         *time.Time      `json:"created_at,omitempty"`
	LineItems         []FlatLineItem  `json:"line_items"`
}

// --- graph dialect: camelCase with edge/node wrappers and gid:// ids ---

type GraphMoney struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode,omitempty"`
}

type GraphMoneyBag struct {
	ShopMoney GraphMoney `json:"shopMoney"`
}

type GraphCustomer struct {
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
}

type GraphRef struct {
	ID    string  `json:"id,omitempty"`
	Title *string `json:"title,omitempty"`
}

type GraphLineItem struct {
	Title                string         `json:"title"`
	Quantity             int            `json:"quantity"`
	VariantTitle         *string        `json:"variantTitle,omitempty"`
	OriginalUnitPriceSet *GraphMoneyBag `json:"originalUnitPriceSet,omitempty"`
	Product              *GraphRef      `json:"product,omitempty"`
	Variant              *GraphRef      `json:"variant,omitempty"`
}

type GraphLineItemEdge struct {
	Node GraphLineItem `json:"node"`
}

type GraphLineItemConnection struct {
	Edges []GraphLineItemEdge `json:"edges"`
}

type GraphOrderPayload struct {
	ID                       string                   `json:"id,omitempty"`
	Name                     string                   `json:"name,omitempty"`
	Customer                 *GraphCustomer           `json:"customer,omitempty"`
	TotalPriceSet            *GraphMoneyBag           `json:"totalPriceSet,omitempty"`
	DisplayFinancialStatus   string                   `json:"displayFinancialStatus,omitempty"`
	DisplayFulfillmentStatus *string                  `json:"displayFulfillmentStatus,omitempty"`
	ProcessedAt              *time.Time               `json:"processedAt,omitempty"`
	CreatedAt                *time.Time               `json:"createdAt,omitempty"`
	LineItems                *GraphLineItemConnection `json:"lineItems,omitempty"`
}

type EventStatus string

const (
	EventStatusProcessed EventStatus = "PROCESSED"
	EventStatusDuplicate EventStatus = "DUPLICATE"
	EventStatusFailed    EventStatus = "FAILED"
)

// EventRecord is the durable log of every webhook the pipeline worked on,
// deduplicated per topic by a digest of the raw body.
type EventRecord struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Topic           string      `gorm:"not null;uniqueIndex:ux_order_events_topic_digest,priority:1" json:"topic"`
	Digest          string      `gorm:"not null;uniqueIndex:ux_order_events_topic_digest,priority:2" json:"digest"`
	ExternalOrderID *string     `gorm:"index" json:"external_order_id,omitempty"`
	Status          EventStatus `json:"status"`
	Error           *string     `json:"error,omitempty"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (EventRecord) TableName() string {
	return "order_events"
}
