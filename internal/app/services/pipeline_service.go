package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/sirupsen/logrus"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/errors"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

// PipelineService runs one inbound commerce event end to end: normalize,
// upsert the order snapshot, issue vouchers on the paid transition, dispatch
// notifications, publish the change. Every step tolerates redelivery; the
// whole method is safe to run concurrently for the same order.
type PipelineService struct {
	normalizer    *NormalizerService
	orders        OrderStore
	issuance      *IssuanceService
	notifications *NotificationService
	publisher     *PublisherService
	events        EventStore
}

func NewPipelineService(
	normalizer *NormalizerService,
	orders OrderStore,
	issuance *IssuanceService,
	notifications *NotificationService,
	publisher *PublisherService,
	events EventStore,
) *PipelineService {
	return &PipelineService{
		normalizer:    normalizer,
		orders:        orders,
		issuance:      issuance,
		notifications: notifications,
		publisher:     publisher,
		events:        events,
	}
}

// OrderChangedEvent is the payload pushed to realtime subscribers.
type OrderChangedEvent struct {
	Topic           models.EventTopic    `json:"topic"`
	ExternalOrderID string               `json:"external_order_id"`
	PaymentStatus   models.PaymentStatus `json:"payment_status"`
	OrderType       models.OrderType     `json:"order_type"`
	VoucherCount    int                  `json:"voucher_count"`
}

func (s *PipelineService) ProcessEvent(ctx context.Context, event *models.InboundEvent) error {
	digest := bodyDigest(event.Body)

	snapshot, err := s.normalizer.Normalize(event)
	if err != nil {
		// A payload with no order id cannot be fixed by redelivery. Record
		// and drop; the 200 already went out.
		s.recordEvent(ctx, event.Topic, digest, nil, models.EventStatusFailed, err)
		if errors.IsValidation(err) {
			logrus.WithField("topic", event.Topic).WithError(err).Warn("dropping unidentifiable event")
			return nil
		}
		return err
	}

	if event.Topic == models.TopicOrderDeleted {
		// Deletion is acknowledged but the local snapshot and its vouchers
		// survive; only subscribers hear about it.
		s.recordEvent(ctx, event.Topic, digest, &snapshot.ExternalOrderID, models.EventStatusProcessed, nil)
		s.publisher.Publish(string(event.Topic), OrderChangedEvent{
			Topic:           event.Topic,
			ExternalOrderID: snapshot.ExternalOrderID,
			PaymentStatus:   snapshot.PaymentStatus,
			OrderType:       snapshot.OrderType,
		})
		return nil
	}

	stored, err := s.orders.Upsert(ctx, snapshot)
	if err != nil {
		s.recordEvent(ctx, event.Topic, digest, &snapshot.ExternalOrderID, models.EventStatusFailed, err)
		return err
	}

	voucherCount := 0
	if stored.IsPaid() {
		voucherCount, err = s.issueAndNotify(ctx, stored)
		if err != nil {
			s.recordEvent(ctx, event.Topic, digest, &stored.ExternalOrderID, models.EventStatusFailed, err)
			return err
		}
	}

	s.recordEvent(ctx, event.Topic, digest, &stored.ExternalOrderID, models.EventStatusProcessed, nil)
	s.publisher.Publish(string(event.Topic), OrderChangedEvent{
		Topic:           event.Topic,
		ExternalOrderID: stored.ExternalOrderID,
		PaymentStatus:   stored.PaymentStatus,
		OrderType:       stored.OrderType,
		VoucherCount:    voucherCount,
	})
	return nil
}

// issueAndNotify runs the paid-order fan-out. Redelivered events reach the
// not-issued branch and re-drive any voucher still unnotified; Notify itself
// skips the already-notified ones.
func (s *PipelineService) issueAndNotify(ctx context.Context, order *models.Order) (int, error) {
	result, err := s.issuance.TryIssue(ctx, order.ExternalOrderID)
	if err != nil {
		return 0, err
	}

	for i := range result.Vouchers {
		voucher := &result.Vouchers[i]
		if voucher.Notified {
			continue
		}
		if res := s.notifications.Notify(ctx, voucher, order); !res.Success {
			logrus.WithFields(logrus.Fields{
				"external_order_id": order.ExternalOrderID,
				"code":              voucher.Code,
			}).Warnf("voucher notification pending: %s", res.Message)
		}
	}

	return len(result.Vouchers), nil
}

// recordEvent is observability only; a failed write must never fail the event.
func (s *PipelineService) recordEvent(ctx context.Context, topic models.EventTopic, digest string, externalOrderID *string, status models.EventStatus, cause error) {
	record := &models.EventRecord{
		Topic:           string(topic),
		Digest:          digest,
		ExternalOrderID: externalOrderID,
		Status:          status,
	}
	if cause != nil {
		msg := cause.Error()
		record.Error = &msg
	}

	if err := s.events.Record(ctx, record); err != nil {
		logrus.WithField("topic", topic).WithError(err).Warn("failed to record event")
	}
}

func bodyDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
