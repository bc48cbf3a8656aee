package deliveries

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/pkg"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/services"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderGroup := router.Group("/orders")

	orderGroup.Get("/", h.GetOrders)
	orderGroup.Get("/:externalId", h.GetOrder)
	orderGroup.Get("/:externalId/vouchers", h.GetOrderVouchers)
}

func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	pagination := parsePagination(c)

	var status *models.PaymentStatus
	if statusStr := c.Query("status"); statusStr != "" {
		paymentStatus := models.NormalizePaymentStatus(statusStr)
		status = &paymentStatus
	}

	orders, err := h.orderService.GetOrders(c.Context(), pagination, status)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, orders)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	externalID := c.Params("externalId")

	order, err := h.orderService.GetOrder(c.Context(), externalID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, order)
}

func (h *OrderHandler) GetOrderVouchers(c *fiber.Ctx) error {
	externalID := c.Params("externalId")

	vouchers, err := h.orderService.GetOrderVouchers(c.Context(), externalID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, vouchers)
}

func parsePagination(c *fiber.Ctx) *models.PaginationRequest {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		limit = 10
	}
	return &models.PaginationRequest{Page: page, Limit: limit}
}
