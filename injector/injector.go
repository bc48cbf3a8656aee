//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/deliveries"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/middlewares"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/services"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/stores"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/infrastructures"
	"github.com/sarim-alis/redemption-solutionsss-sub000/pkg/realtime"
)

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewValidator,
	infrastructures.NewRendererClient,
	infrastructures.NewMailer,
	realtime.NewRegistry,
	wire.Bind(new(services.DocumentRenderer), new(*infrastructures.RendererClient)),
	wire.Bind(new(services.MessageTransport), new(*infrastructures.Mailer)),
)

// Store providers
var storeSet = wire.NewSet(
	stores.NewOrderStore,
	stores.NewVoucherStore,
	stores.NewEventStore,
	wire.Bind(new(services.OrderStore), new(*stores.OrderStore)),
	wire.Bind(new(services.VoucherStore), new(*stores.VoucherStore)),
	wire.Bind(new(services.EventStore), new(*stores.EventStore)),
)

// Service providers
var serviceSet = wire.NewSet(
	services.NewNormalizerService,
	services.NewIssuanceService,
	services.NewNotificationService,
	services.NewPublisherService,
	services.NewPipelineService,
	services.NewOrderService,
	services.NewVoucherService,
	newEventQueue,
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewWebhookAuthMiddleware,
	middlewares.NewRateLimitMiddleware,
	wire.Value("redemption"),
	wire.Bind(new(middlewares.RateLimiter), new(*middlewares.RedisRateLimiter)),
	middlewares.NewRedisRateLimiter,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewOrderHandler,
	deliveries.NewVoucherHandler,
	deliveries.NewWebhookHandler,
	wire.Struct(new(Application), "*"),
)

// InitializeApplication initializes the application with all its dependencies
func InitializeApplication() (*Application, error) {
	wire.Build(
		infrastructureSet,
		storeSet,
		serviceSet,
		middlewareSet,
		handlerSet,
	)
	return &Application{}, nil
}
