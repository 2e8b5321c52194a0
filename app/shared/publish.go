package shared

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// PublishJSON marshals payload and publishes it on topic. A fresh correlation
// ID is minted when the caller did not attach one, so every fact chain can be
// traced back to the producer that started it.
func PublishJSON(bus EventBus, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(TopicMetadataKey, topic)
	middleware.SetCorrelationID(watermill.NewUUID(), msg)
	if err := bus.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}
