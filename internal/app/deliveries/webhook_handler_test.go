package deliveries

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/middlewares"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/queue"
)

type capturingProcessor struct {
	mu     sync.Mutex
	events []*models.InboundEvent
}

func (p *capturingProcessor) ProcessEvent(ctx context.Context, event *models.InboundEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func TestWebhookHandler_AcknowledgesAndEnqueues(t *testing.T) {
	processor := &capturingProcessor{}
	q := queue.New(processor, 1, 8)
	q.Start()

	handler := NewWebhookHandler(q, &middlewares.WebhookAuthMiddleware{})
	app := fiber.New()
	handler.RegisterRoutes(app)

	body := `{"id": 9001, "financial_status": "paid", "line_items": []}`
	req := httptest.NewRequest("POST", "/webhooks/orders/paid", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	before := time.Now().UTC()
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	q.Stop()
	require.Len(t, processor.events, 1)
	event := processor.events[0]
	assert.Equal(t, models.TopicOrderPaid, event.Topic)
	assert.JSONEq(t, body, string(event.Body))
	assert.False(t, event.ReceivedAt.Before(before))
}

func TestWebhookHandler_TopicPerRoute(t *testing.T) {
	processor := &capturingProcessor{}
	q := queue.New(processor, 1, 8)
	q.Start()

	handler := NewWebhookHandler(q, &middlewares.WebhookAuthMiddleware{})
	app := fiber.New()
	handler.RegisterRoutes(app)

	routes := map[string]models.EventTopic{
		"/webhooks/orders/created": models.TopicOrderCreated,
		"/webhooks/orders/updated": models.TopicOrderUpdated,
		"/webhooks/orders/paid":    models.TopicOrderPaid,
		"/webhooks/orders/deleted": models.TopicOrderDeleted,
	}
	for path := range routes {
		req := httptest.NewRequest("POST", path, strings.NewReader(`{"id": 1}`))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	q.Stop()
	require.Len(t, processor.events, len(routes))
	seen := make(map[models.EventTopic]int)
	for _, event := range processor.events {
		seen[event.Topic]++
	}
	for _, topic := range routes {
		assert.Equal(t, 1, seen[topic])
	}
}

func TestWebhookHandler_FullQueueStillAcknowledges(t *testing.T) {
	// No workers running and a single-slot buffer: the second delivery is
	// dropped internally but the platform still gets its 200.
	q := queue.New(&capturingProcessor{}, 1, 1)

	handler := NewWebhookHandler(q, &middlewares.WebhookAuthMiddleware{})
	app := fiber.New()
	handler.RegisterRoutes(app)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/webhooks/orders/paid", strings.NewReader(`{"id": 9001}`))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}
