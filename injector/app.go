package injector

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/deliveries"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/middlewares"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/queue"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/services"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/infrastructures"
	"github.com/sarim-alis/redemption-solutionsss-sub000/pkg/realtime"
)

// Application represents the main application container
type Application struct {
	HealthHandler       *deliveries.HealthHandler
	OrderHandler        *deliveries.OrderHandler
	VoucherHandler      *deliveries.VoucherHandler
	WebhookHandler      *deliveries.WebhookHandler
	RateLimitMiddleware *middlewares.RateLimitMiddleware
	Queue               *queue.Queue
	Registry            *realtime.Registry
}

// RegisterRoutes registers all application routes using a Fiber router
func (app *Application) RegisterRoutes(router fiber.Router) {
	// Webhook ingress gets its own generous limit and is registered first so
	// the public limit below never applies to it; throttling an event only
	// postpones it to the next redelivery.
	router.Use("/webhooks", app.RateLimitMiddleware.LimitByIP(middlewares.WebhookLimit))
	app.WebhookHandler.RegisterRoutes(router)

	// Global rate limiting for the back-office read API
	router.Use(app.RateLimitMiddleware.LimitByIP(middlewares.PublicAPILimit))

	app.HealthHandler.RegisterRoutes(router)
	app.OrderHandler.RegisterRoutes(router)
	app.VoucherHandler.RegisterRoutes(router)
}

// newEventQueue sizes the worker pool from configuration.
func newEventQueue(pipeline *services.PipelineService) *queue.Queue {
	return queue.New(pipeline, infrastructures.Config.WORKER_COUNT, infrastructures.Config.QUEUE_CAPACITY)
}
