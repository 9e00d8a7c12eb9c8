package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-sub:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestBusRoundTrip(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := bus.Subscribe(ctx, TopicEvents)
	require.NoError(t, err)

	want := NavigationEvent{
		SessionID:   "b2f6c5e0",
		Type:        TypeStepChanged,
		At:          time.Now().UTC(),
		Step:        2,
		Instruction: "Turn left onto the lakeside path",
	}
	require.NoError(t, bus.Publish(TopicEvents, want))

	msg := receive(t, sub)
	var got NavigationEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &got))
	msg.Ack()

	assert.Equal(t, want.SessionID, got.SessionID)
	assert.Equal(t, want.Type, got.Type)
	assert.Equal(t, want.Step, got.Step)
	assert.Equal(t, want.Instruction, got.Instruction)
}

func TestBusFansOutToEverySubscriber(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := bus.Subscribe(ctx, TopicProgress)
	require.NoError(t, err)
	second, err := bus.Subscribe(ctx, TopicProgress)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(TopicProgress, ProgressUpdate{SessionID: "fan-out"}))

	for _, sub := range []<-chan *message.Message{first, second} {
		msg := receive(t, sub)
		var got ProgressUpdate
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		msg.Ack()
		assert.Equal(t, "fan-out", got.SessionID)
	}
}

func TestBusPublishRejectsUnmarshalablePayload(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	err := bus.Publish(TopicEvents, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal payload")
}

func TestBusPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Publish(TopicProgress, ProgressUpdate{SessionID: "nobody-listening"})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked with no subscribers")
	}
}
