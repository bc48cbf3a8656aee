package deliveries

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/pkg"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/services"
)

type VoucherHandler struct {
	voucherService *services.VoucherService
}

func NewVoucherHandler(voucherService *services.VoucherService) *VoucherHandler {
	return &VoucherHandler{
		voucherService: voucherService,
	}
}

func (h *VoucherHandler) RegisterRoutes(router fiber.Router) {
	voucherGroup := router.Group("/vouchers")

	voucherGroup.Get("/", h.GetVouchers)
	voucherGroup.Get("/code/:code", h.GetVoucherByCode)
	voucherGroup.Post("/code/:code/redeliver", h.RedeliverNotification)
}

func (h *VoucherHandler) GetVouchers(c *fiber.Ctx) error {
	pagination := parsePagination(c)

	var notified *bool
	switch c.Query("notified") {
	case "true":
		v := true
		notified = &v
	case "false":
		v := false
		notified = &v
	}

	var voucherType *models.VoucherType
	if typeStr := c.Query("type"); typeStr != "" {
		t := models.VoucherType(typeStr)
		voucherType = &t
	}

	vouchers, err := h.voucherService.GetVouchers(c.Context(), pagination, notified, voucherType)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, vouchers)
}

func (h *VoucherHandler) GetVoucherByCode(c *fiber.Ctx) error {
	code := c.Params("code")

	voucher, err := h.voucherService.GetVoucherByCode(c.Context(), code)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, voucher)
}

// RedeliverNotification is the operator's re-drive for a voucher stuck
// unnotified after exhausted retries.
func (h *VoucherHandler) RedeliverNotification(c *fiber.Ctx) error {
	code := c.Params("code")

	result, err := h.voucherService.RedeliverNotification(c.Context(), code)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}
