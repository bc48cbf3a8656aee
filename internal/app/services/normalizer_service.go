package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/errors"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/infrastructures"
)

// NormalizerService translates the two inbound payload dialects into one
// canonical order snapshot. The dialect is decided exactly once, here;
// nothing downstream ever sniffs payload shapes again.
type NormalizerService struct {
	validator *infrastructures.Validator
}

func NewNormalizerService(validator *infrastructures.Validator) *NormalizerService {
	return &NormalizerService{
		validator: validator,
	}
}

func (s *NormalizerService) Normalize(event *models.InboundEvent) (*models.Order, error) {
	dialect, err := detectDialect(event.Body)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	switch dialect {
	case models.DialectFlat:
		order, err = s.normalizeFlat(event.Body)
	case models.DialectGraph:
		order, err = s.normalizeGraph(event.Body)
	}
	if err != nil {
		return nil, err
	}

	if order.ExternalOrderID == "" {
		return nil, errors.NewValidationError("Event carries no usable order identifier")
	}
	if err := s.validator.Validate(order); err != nil {
		return nil, err
	}

	return order, nil
}

// detectDialect probes the raw body for dialect-specific keys. Flat payloads
// carry snake_case line_items/total_price; graph payloads carry camelCase
// lineItems/totalPriceSet or a gid:// order id.
func detectDialect(body []byte) (models.EventDialect, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return "", errors.NewValidationError("Event body is not a JSON object")
	}

	if _, ok := probe["line_items"]; ok {
		return models.DialectFlat, nil
	}
	if _, ok := probe["total_price"]; ok {
		return models.DialectFlat, nil
	}
	if _, ok := probe["lineItems"]; ok {
		return models.DialectGraph, nil
	}
	if _, ok := probe["totalPriceSet"]; ok {
		return models.DialectGraph, nil
	}
	if raw, ok := probe["id"]; ok {
		var id string
		if err := json.Unmarshal(raw, &id); err == nil && strings.HasPrefix(id, "gid://") {
			return models.DialectGraph, nil
		}
	}
	// Sparse payloads (deletion events carry little more than an id)
	// default to the flat webhook shape.
	return models.DialectFlat, nil
}

func (s *NormalizerService) normalizeFlat(body []byte) (*models.Order, error) {
	var payload models.FlatOrderPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.NewValidationError("Malformed flat order payload")
	}

	externalID := payload.ID.String()
	if externalID == "" {
		externalID = payload.OrderID.String()
	}

	email := payload.Email
	if email == nil && payload.Customer != nil {
		email = payload.Customer.Email
	}

	var name *string
	if payload.Customer != nil {
		full := strings.TrimSpace(strings.Join([]string{
			deref(payload.Customer.FirstName),
			deref(payload.Customer.LastName),
		}, " "))
		if full != "" {
			name = &full
		}
	}

	items := make(models.LineItems, 0, len(payload.LineItems))
	for _, li := range payload.LineItems {
		items = append(items, models.LineItem{
			Title:        li.Title,
			Quantity:     li.Quantity,
			Price:        li.Price,
			ProductID:    numberPtr(li.ProductID),
			VariantID:    numberPtr(li.VariantID),
			VariantTitle: deref(li.VariantTitle),
			ItemType:     inferItemType(li.Title),
		})
	}

	return s.assemble(externalID, email, name, payload.TotalPrice, payload.Currency,
		payload.FinancialStatus, payload.FulfillmentStatus,
		firstTime(payload.ProcessedAt, payload.CreatedAt), items), nil
}

func (s *NormalizerService) normalizeGraph(body []byte) (*models.Order, error) {
	var payload models.GraphOrderPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.NewValidationError("Malformed graph order payload")
	}

	var email, name *string
	if payload.Customer != nil {
		email = payload.Customer.Email
		name = payload.Customer.DisplayName
	}

	var total decimal.Decimal
	var currency string
	if payload.TotalPriceSet != nil {
		total = payload.TotalPriceSet.ShopMoney.Amount
		currency = payload.TotalPriceSet.ShopMoney.CurrencyCode
	}

	var items models.LineItems
	if payload.LineItems != nil {
		items = make(models.LineItems, 0, len(payload.LineItems.Edges))
		for _, edge := range payload.LineItems.Edges {
			node := edge.Node
			item := models.LineItem{
				Title:        node.Title,
				Quantity:     node.Quantity,
				VariantTitle: deref(node.VariantTitle),
				ItemType:     inferItemType(node.Title),
			}
			if node.OriginalUnitPriceSet != nil {
				item.Price = node.OriginalUnitPriceSet.ShopMoney.Amount
			}
			if node.Product != nil && node.Product.ID != "" {
				id := stripGID(node.Product.ID)
				item.ProductID = &id
			}
			if node.Variant != nil {
				if node.Variant.ID != "" {
					id := stripGID(node.Variant.ID)
					item.VariantID = &id
				}
				if item.VariantTitle == "" && node.Variant.Title != nil {
					item.VariantTitle = *node.Variant.Title
				}
			}
			items = append(items, item)
		}
	}

	return s.assemble(stripGID(payload.ID), email, name, total, currency,
		payload.DisplayFinancialStatus, payload.DisplayFulfillmentStatus,
		firstTime(payload.ProcessedAt, payload.CreatedAt), items), nil
}

func (s *NormalizerService) assemble(externalID string, email, name *string, total decimal.Decimal, currency, financialStatus string, fulfillmentStatus *string, processedAt *time.Time, items models.LineItems) *models.Order {
	if currency == "" {
		currency = "USD"
	}

	when := time.Now().UTC()
	if processedAt != nil {
		when = *processedAt
	}

	quantity := 0
	orderType := models.OrderTypeVoucher
	for _, item := range items {
		if item.Quantity > 0 {
			quantity += item.Quantity
		}
		if item.ItemType == models.VoucherTypeGift {
			orderType = models.OrderTypeGift
		}
	}

	return &models.Order{
		ExternalOrderID:   externalID,
		CustomerEmail:     email,
		CustomerName:      name,
		TotalPrice:        total,
		Currency:          currency,
		PaymentStatus:     models.NormalizePaymentStatus(financialStatus),
		FulfillmentStatus: fulfillmentStatus,
		ItemQuantity:      quantity,
		ProcessedAt:       when,
		LineItems:         items,
		OrderType:         orderType,
	}
}

// inferItemType flags gift cards by their title marker; everything else is a
// service voucher.
func inferItemType(title string) models.VoucherType {
	if strings.Contains(strings.ToLower(title), "gift") {
		return models.VoucherTypeGift
	}
	return models.VoucherTypeVoucher
}

// stripGID reduces "gid://platform/Order/9001" to "9001".
func stripGID(id string) string {
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		return id[idx+1:]
	}
	return id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func numberPtr(n json.Number) *string {
	if n.String() == "" {
		return nil
	}
	s := n.String()
	return &s
}

func firstTime(candidates ...*time.Time) *time.Time {
	for _, t := range candidates {
		if t != nil {
			return t
		}
	}
	return nil
}
