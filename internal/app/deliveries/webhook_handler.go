package deliveries

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/middlewares"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/queue"
)

// WebhookHandler is the ingress for commerce events. It acknowledges with a
// bare 200 before any business logic runs; everything downstream happens on
// the worker queue. Internal failures never surface here — a non-200 would
// only trigger a redelivery storm for an event we already have.
type WebhookHandler struct {
	queue          *queue.Queue
	authMiddleware *middlewares.WebhookAuthMiddleware
}

func NewWebhookHandler(queue *queue.Queue, authMiddleware *middlewares.WebhookAuthMiddleware) *WebhookHandler {
	return &WebhookHandler{
		queue:          queue,
		authMiddleware: authMiddleware,
	}
}

func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	webhookGroup := router.Group("/webhooks/orders", h.authMiddleware.VerifySignature)

	webhookGroup.Post("/created", h.receive(models.TopicOrderCreated))
	webhookGroup.Post("/updated", h.receive(models.TopicOrderUpdated))
	webhookGroup.Post("/paid", h.receive(models.TopicOrderPaid))
	webhookGroup.Post("/deleted", h.receive(models.TopicOrderDeleted))
}

func (h *WebhookHandler) receive(topic models.EventTopic) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Fiber reuses the request buffer after the handler returns; the
		// event needs its own copy of the body.
		body := make([]byte, len(c.Body()))
		copy(body, c.Body())

		h.queue.Enqueue(&models.InboundEvent{
			Topic:      topic,
			Body:       body,
			ReceivedAt: time.Now().UTC(),
		})

		return c.SendStatus(fiber.StatusOK)
	}
}
