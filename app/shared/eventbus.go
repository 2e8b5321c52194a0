package shared

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// TopicMetadataKey carries the destination topic on published messages.
// Handlers produce messages without knowing the publisher; the bus resolves
// the topic from this metadata entry when the publish topic is empty.
const TopicMetadataKey = "topic"

// EventBus is the in-process fact bus. It satisfies watermill's
// message.Publisher and message.Subscriber so it can be handed directly to a
// message.Router.
type EventBus interface {
	Publish(topic string, messages ...*message.Message) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}
