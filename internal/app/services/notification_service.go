package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

const notifyMaxRetries = 3

// NotificationService drives the per-voucher side effects: render a document,
// send the mail, durably mark the voucher notified. Sends are at-most-once
// per voucher under concurrent dispatchers; a voucher left unnotified after
// exhausted retries is picked up by the next re-drive.
type NotificationService struct {
	vouchers  VoucherStore
	renderer  DocumentRenderer
	transport MessageTransport

	backoffBase time.Duration
}

func NewNotificationService(vouchers VoucherStore, renderer DocumentRenderer, transport MessageTransport) *NotificationService {
	return &NotificationService{
		vouchers:    vouchers,
		renderer:    renderer,
		transport:   transport,
		backoffBase: time.Second,
	}
}

func (s *NotificationService) Notify(ctx context.Context, voucher *models.Voucher, order *models.Order) *models.NotifyResult {
	if voucher.Notified {
		return &models.NotifyResult{Success: true, Message: "voucher already notified"}
	}
	if order == nil || order.CustomerEmail == nil || *order.CustomerEmail == "" {
		// Unrecoverable: no amount of retrying produces an address.
		logrus.WithField("code", voucher.Code).Warn("cannot notify voucher, order has no customer email")
		return &models.NotifyResult{Success: false, Message: "order has no customer email"}
	}

	msg := s.composeMessage(ctx, voucher, order)

	for attempt := 0; ; attempt++ {
		messageID, err := s.transport.Send(ctx, msg)
		if err == nil {
			return s.markNotified(ctx, voucher, messageID)
		}

		if attempt >= notifyMaxRetries {
			logrus.WithFields(logrus.Fields{
				"code":     voucher.Code,
				"attempts": attempt + 1,
			}).WithError(err).Error("notification send failed, retries exhausted")
			return &models.NotifyResult{
				Success: false,
				Message: fmt.Sprintf("send failed after %d attempts: %v", attempt+1, err),
			}
		}

		backoff := s.backoffBase << attempt // 1s, 2s, 4s
		logrus.WithFields(logrus.Fields{
			"code":    voucher.Code,
			"attempt": attempt + 1,
			"backoff": backoff.String(),
		}).WithError(err).Warn("notification send failed, retrying")

		select {
		case <-ctx.Done():
			return &models.NotifyResult{Success: false, Message: "notification cancelled"}
		case <-time.After(backoff):
		}
	}
}

// markNotified runs after a confirmed send. Both failure modes here are
// duplicate-send hazards and are logged at error level: a failed flag write
// means a later re-drive will send again, and a lost guarded update means a
// concurrent dispatcher already sent.
func (s *NotificationService) markNotified(ctx context.Context, voucher *models.Voucher, messageID string) *models.NotifyResult {
	marked, err := s.vouchers.MarkNotified(ctx, voucher.Code)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"code":       voucher.Code,
			"message_id": messageID,
		}).WithError(err).Error("CRITICAL: message sent but notified flag write failed, re-drive will duplicate the send")
		return &models.NotifyResult{
			Success: false,
			Message: "message sent but notified flag write failed",
		}
	}

	if !marked {
		logrus.WithFields(logrus.Fields{
			"code":       voucher.Code,
			"message_id": messageID,
		}).Error("duplicate send: voucher was already marked notified by a concurrent dispatcher")
		return &models.NotifyResult{Success: true, Message: "sent, but voucher was already notified"}
	}

	voucher.Notified = true
	logrus.WithFields(logrus.Fields{
		"code":       voucher.Code,
		"message_id": messageID,
	}).Info("voucher notification sent")
	return &models.NotifyResult{Success: true, Message: "notification sent"}
}

func (s *NotificationService) composeMessage(ctx context.Context, voucher *models.Voucher, order *models.Order) *models.OutboundMessage {
	kind := models.DocumentKindVoucher
	subject := "Your voucher is ready"
	if voucher.Type == models.VoucherTypeGift {
		kind = models.DocumentKindGift
		subject = "Your gift card is ready"
	}

	title := ""
	if voucher.ProductTitle != nil {
		title = *voucher.ProductTitle
	}

	msg := &models.OutboundMessage{
		To:      *order.CustomerEmail,
		Subject: subject,
		Body: fmt.Sprintf(
			"<p>Thank you for your order.</p><p><strong>%s</strong></p><p>Your code: <strong>%s</strong></p>",
			title, voucher.Code,
		),
		AttachmentName: fmt.Sprintf("%s.pdf", voucher.Code),
	}

	document, err := s.renderer.Render(ctx, kind, voucher, order)
	if err != nil {
		// Degrade: send without attachment rather than hold the voucher hostage.
		logrus.WithField("code", voucher.Code).WithError(err).Warn("document render failed, sending without attachment")
	} else {
		msg.Attachment = document
	}

	return msg
}
