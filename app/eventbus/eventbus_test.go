package eventbus

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"

	"github.com/duelyard/fightcore/app/shared"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	bus := New(slog.New(slog.NewTextHandler(io.Discard, nil)), 4)
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func receive(t *testing.T, messages <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg, ok := <-messages:
		require.True(t, ok, "subscription closed before a message arrived")
		msg.Ack()
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a message")
		return nil
	}
}

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx, "fighter-damaged")
	require.NoError(t, err)

	sent := message.NewMessage(watermill.NewUUID(), []byte(`{"fighterId":"player1"}`))
	require.NoError(t, bus.Publish("fighter-damaged", sent))

	got := receive(t, messages)
	require.Equal(t, sent.UUID, got.UUID)
	require.JSONEq(t, `{"fighterId":"player1"}`, string(got.Payload))
}

func TestPublishResolvesTopicFromMetadata(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx, "player-health-changed")
	require.NoError(t, err)

	// Router handlers publish with an empty topic; the destination rides in
	// the message metadata.
	msg := message.NewMessage(watermill.NewUUID(), []byte(`{}`))
	msg.Metadata.Set(shared.TopicMetadataKey, "player-health-changed")
	require.NoError(t, bus.Publish("", msg))

	got := receive(t, messages)
	require.Equal(t, msg.UUID, got.UUID)
}

func TestPublishWithoutDestinationErrors(t *testing.T) {
	bus := newTestBus(t)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{}`))
	err := bus.Publish("", msg)
	require.ErrorContains(t, err, "no destination topic")
}

func TestSubscribersOnlySeeLaterFacts(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	early := message.NewMessage(watermill.NewUUID(), []byte(`{"round":1}`))
	require.NoError(t, bus.Publish("round-ended", early))

	messages, err := bus.Subscribe(ctx, "round-ended")
	require.NoError(t, err)

	late := message.NewMessage(watermill.NewUUID(), []byte(`{"round":2}`))
	require.NoError(t, bus.Publish("round-ended", late))

	got := receive(t, messages)
	require.Equal(t, late.UUID, got.UUID)
}

func TestPublishAfterClose(t *testing.T) {
	bus := newTestBus(t)
	require.NoError(t, bus.Close())

	err := bus.Publish("game-over", message.NewMessage(watermill.NewUUID(), nil))
	require.ErrorIs(t, err, ErrBusClosed)

	// Close is idempotent.
	require.NoError(t, bus.Close())
}
