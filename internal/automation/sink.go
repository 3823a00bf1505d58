package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"contentpulse/pkg/clients"
	"contentpulse/pkg/kafka"
	"contentpulse/pkg/logging"
	"contentpulse/pkg/models"
)

// Sink delivers one content item to one channel. Implementations must return
// an error instead of panicking on partial or incomplete channel
// configuration; the processor records the error on the item and moves on.
type Sink interface {
	Deliver(ctx context.Context, item models.ContentItem, channel string) error
}

// NoopSink simulates successful delivery. Used by installs that have no
// downstream delivery pipeline and in tests.
type NoopSink struct {
	logger logging.Logger
}

// NewNoopSink creates a sink that logs and succeeds
func NewNoopSink(logger logging.Logger) *NoopSink {
	return &NoopSink{logger: logger}
}

func (s *NoopSink) Deliver(_ context.Context, item models.ContentItem, channel string) error {
	s.logger.WithFields(logging.Fields{
		"content_id": item.ID,
		"channel":    channel,
	}).Info("Simulated delivery")
	return nil
}

// KafkaSink publishes one delivery event per (item, channel) pair. The actual
// network posting happens in downstream delivery workers consuming the topic;
// the event is idempotently keyed by content ID so replays are detectable.
// A circuit breaker in front of the producer fails items fast while the
// broker is down instead of stalling the whole pass on timeouts.
type KafkaSink struct {
	producer *kafka.Producer
	breaker  *clients.CircuitBreaker
	topic    string
	logger   logging.Logger
}

// NewKafkaSink creates a sink publishing delivery events to the given topic
func NewKafkaSink(producer *kafka.Producer, topic string, logger logging.Logger) *KafkaSink {
	breaker := clients.NewCircuitBreaker(clients.CircuitBreakerConfig{
		Name:   "kafka-delivery",
		Logger: logger,
	})
	return &KafkaSink{producer: producer, breaker: breaker, topic: topic, logger: logger}
}

func (s *KafkaSink) Deliver(ctx context.Context, item models.ContentItem, channel string) error {
	if channel == "" {
		return fmt.Errorf("empty channel on content %s", item.ID)
	}

	event := &kafka.DeliveryEvent{
		EventID:        uuid.New().String(),
		ContentID:      item.ID,
		OrganizationID: item.OrganizationID,
		Channel:        channel,
		ContentType:    item.ContentType,
		Topic:          item.Topic,
		Body:           item.Body,
		EnqueuedAt:     time.Now().UTC(),
	}
	if item.ProjectID != nil {
		event.ProjectID = *item.ProjectID
	}
	if item.ScheduledAt != nil {
		event.ScheduledAt = *item.ScheduledAt
	}

	err := s.breaker.Call(func() error {
		return s.producer.PublishDeliveryEvent(ctx, s.topic, event)
	})
	if err != nil {
		return fmt.Errorf("failed to publish delivery event for channel %s: %w", channel, err)
	}

	s.logger.WithFields(logging.Fields{
		"content_id": item.ID,
		"channel":    channel,
		"event_id":   event.EventID,
	}).Debug("Delivery event published")
	return nil
}
