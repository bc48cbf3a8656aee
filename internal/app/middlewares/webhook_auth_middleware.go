package middlewares

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/errors"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/pkg"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/infrastructures"
)

// SignatureHeader carries the platform's base64 HMAC-SHA256 of the raw body.
const SignatureHeader = "X-Commerce-Hmac-Sha256"

// WebhookAuthMiddleware rejects webhook deliveries whose signature does not
// match the shared secret. Rejection here is the one place the endpoint is
// allowed to answer non-200: an unsigned payload is not from the platform.
type WebhookAuthMiddleware struct {
	secret []byte
}

func NewWebhookAuthMiddleware() *WebhookAuthMiddleware {
	secret := infrastructures.Config.WEBHOOK_SECRET
	if secret == "" {
		logrus.Warn("WEBHOOK_SECRET not set, webhook signature verification disabled")
	}
	return &WebhookAuthMiddleware{
		secret: []byte(secret),
	}
}

func (m *WebhookAuthMiddleware) VerifySignature(c *fiber.Ctx) error {
	if len(m.secret) == 0 {
		return c.Next()
	}

	signature := c.Get(SignatureHeader)
	if signature == "" {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Missing webhook signature"))
	}

	mac := hmac.New(sha256.New, m.secret)
	mac.Write(c.Body())
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Invalid webhook signature"))
	}

	return c.Next()
}
