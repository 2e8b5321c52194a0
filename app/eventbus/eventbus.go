// Package eventbus provides the in-process fact bus backing the engine.
//
// Every state change enters and leaves the engine as a fact on this bus.
// The implementation wraps watermill's gochannel pub/sub: in-process, typed
// at the payload level, fan-out per topic, no persistence. Subscribers only
// see facts published after they subscribe.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/duelyard/fightcore/app/shared"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("eventbus: bus is closed")

// Bus is the gochannel-backed shared.EventBus. It also satisfies watermill's
// message.Publisher and message.Subscriber, so the same instance is handed to
// the router on both sides.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// New creates a Bus whose subscriber channels buffer up to buffer messages.
func New(logger *slog.Logger, buffer int64) *Bus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: buffer,
	}, watermill.NewSlogLogger(logger))
	return &Bus{
		pubSub: pubSub,
		logger: logger,
	}
}

// Publish delivers messages to subscribers of topic. An empty topic falls
// back to each message's topic metadata, which is how router handlers publish
// derived facts without naming a fixed output topic.
func (b *Bus) Publish(topic string, messages ...*message.Message) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrBusClosed
	}

	for _, msg := range messages {
		dest := topic
		if dest == "" {
			dest = msg.Metadata.Get(shared.TopicMetadataKey)
		}
		if dest == "" {
			return fmt.Errorf("eventbus: message %s has no destination topic", msg.UUID)
		}
		if err := b.pubSub.Publish(dest, msg); err != nil {
			return fmt.Errorf("eventbus: publish to %s: %w", dest, err)
		}
	}
	return nil
}

// Subscribe returns a channel of messages published to topic. The channel
// closes when ctx is cancelled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, topic)
}

// Close shuts the bus down. Idempotent.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.logger.Debug("closing event bus")
	return b.pubSub.Close()
}

var (
	_ shared.EventBus    = (*Bus)(nil)
	_ message.Publisher  = (*Bus)(nil)
	_ message.Subscriber = (*Bus)(nil)
)
