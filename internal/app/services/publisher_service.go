package services

import (
	"github.com/sirupsen/logrus"

	"github.com/sarim-alis/redemption-solutionsss-sub000/pkg/realtime"
)

// PublisherService pushes normalized change events to live subscribers.
// Strictly fire-and-forget: a panicking or absent subscriber never reaches
// the pipeline.
type PublisherService struct {
	registry *realtime.Registry
}

func NewPublisherService(registry *realtime.Registry) *PublisherService {
	return &PublisherService{
		registry: registry,
	}
}

func (s *PublisherService) Publish(topic string, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("topic", topic).Errorf("realtime publish panicked: %v", r)
		}
	}()

	delivered := s.registry.Publish(topic, payload)
	logrus.WithFields(logrus.Fields{
		"topic":     topic,
		"delivered": delivered,
	}).Debug("published realtime event")
}
