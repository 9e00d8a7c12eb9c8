package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

// Topics carried by the in-process bus.
const (
	TopicProgress = "navigation.progress"
	TopicEvents   = "navigation.events"
)

// Bus is a thin JSON envelope over an in-process pub/sub. One bus serves
// the whole process: navigation sessions publish, transports subscribe.
type Bus struct {
	pubsub *gochannel.GoChannel
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			zapLoggerAdapter{logger: logger},
		),
	}
}

// Publish marshals v as JSON and publishes it on topic.
func (b *Bus) Publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("publish %s: marshal payload: %w", topic, err)
	}
	if err := b.pubsub.Publish(topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe opens a subscription that lives until ctx is canceled.
// Consumers must Ack every message.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return ch, nil
}

func (b *Bus) Close() error { return b.pubsub.Close() }
