package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DeliveryEvent is the record published for each (content item, channel) pair
// when the automation pass hands a post off to the downstream delivery workers.
type DeliveryEvent struct {
	EventID        string    `json:"event_id"`
	ContentID      string    `json:"content_id"`
	OrganizationID string    `json:"organization_id"`
	ProjectID      string    `json:"project_id,omitempty"`
	Channel        string    `json:"channel"`
	ContentType    string    `json:"content_type"`
	Topic          string    `json:"topic"`
	Body           string    `json:"body"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	EnqueuedAt     time.Time `json:"enqueued_at"`
}

// PublishDeliveryEvent publishes a delivery event keyed by content ID so all
// channels of one item land on the same partition in order.
func (p *Producer) PublishDeliveryEvent(ctx context.Context, topic string, event *DeliveryEvent) error {
	if event == nil {
		return fmt.Errorf("nil delivery event")
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery event: %w", err)
	}

	headers := map[string]string{
		"channel": event.Channel,
	}

	return p.ProduceMessage(ctx, topic, []byte(event.ContentID), value, headers)
}
