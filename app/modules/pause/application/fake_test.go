package pauseservice

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/duelyard/fightcore/app/shared"
)

// ------------------------
// Fake Suspender
// ------------------------

type FakeSuspender struct {
	Suspended []string
	Resumed   []string
	Stopped   []string
	Started   []string
}

func (f *FakeSuspender) Suspend(name string) bool {
	f.Suspended = append(f.Suspended, name)
	return true
}

func (f *FakeSuspender) Resume(name string) bool {
	f.Resumed = append(f.Resumed, name)
	return true
}

func (f *FakeSuspender) Stop(name string) bool {
	f.Stopped = append(f.Stopped, name)
	return true
}

func (f *FakeSuspender) Start(name string) bool {
	f.Started = append(f.Started, name)
	return true
}

var _ Suspender = (*FakeSuspender)(nil)

// ------------------------
// Fake Event Bus
// ------------------------

type publishedFact struct {
	Topic   string
	Payload []byte
}

type FakeEventBus struct {
	Published   []publishedFact
	PublishFunc func(topic string, messages ...*message.Message) error
}

func (f *FakeEventBus) Publish(topic string, messages ...*message.Message) error {
	if f.PublishFunc != nil {
		return f.PublishFunc(topic, messages...)
	}
	for _, msg := range messages {
		f.Published = append(f.Published, publishedFact{Topic: topic, Payload: msg.Payload})
	}
	return nil
}

func (f *FakeEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (f *FakeEventBus) Close() error { return nil }

// topics returns the published topics in order.
func (f *FakeEventBus) topics() []string {
	out := make([]string, 0, len(f.Published))
	for _, p := range f.Published {
		out = append(out, p.Topic)
	}
	return out
}

var _ shared.EventBus = (*FakeEventBus)(nil)
