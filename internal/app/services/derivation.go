package services

import (
	"fmt"
	"regexp"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

var packPattern = regexp.MustCompile(`(?i)(\d+)\s*-?\s*pack`)

// ParsePackCount extracts the redeemable-unit multiplier from a variant title
// such as "3 Pack" or "6-pack". Anything unparsable means a single unit.
// Free-text matching is fragile by nature; when naming conventions drift this
// silently falls back to 1.
func ParsePackCount(variantTitle string) int {
	match := packPattern.FindStringSubmatch(variantTitle)
	if match == nil {
		return 1
	}
	count := 0
	for _, ch := range match[1] {
		count = count*10 + int(ch-'0')
	}
	if count < 1 {
		return 1
	}
	return count
}

// DeriveVouchers maps an order snapshot's line items to the vouchers it
// entitles the customer to. Pure and deterministic: no I/O, no clock, no
// randomness; the same snapshot always derives the same requests.
//
// Gift cards emit one request per purchased unit and carry the price in the
// title; service vouchers multiply quantity by the variant's pack count.
func DeriveVouchers(order *models.Order) []models.VoucherRequest {
	var requests []models.VoucherRequest
	for _, item := range order.LineItems {
		if item.Quantity <= 0 {
			continue
		}

		if item.ItemType == models.VoucherTypeGift {
			title := fmt.Sprintf("%s - $%s", item.Title, item.Price.StringFixed(2))
			for i := 0; i < item.Quantity; i++ {
				requests = append(requests, models.VoucherRequest{
					ProductTitle: title,
					Type:         models.VoucherTypeGift,
				})
			}
			continue
		}

		issueCount := ParsePackCount(item.VariantTitle) * item.Quantity
		for i := 0; i < issueCount; i++ {
			requests = append(requests, models.VoucherRequest{
				ProductTitle: item.Title,
				Type:         models.VoucherTypeVoucher,
			})
		}
	}
	return requests
}
