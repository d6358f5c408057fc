package queue

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// GoChannelQueue is the in-process transport used for tests and single-node
// deployments. Delayed retries are emulated by acking the message and
// republishing it after the delay, since the channel transport has no
// native redelivery scheduling.
type GoChannelQueue struct {
	pubSub *gochannel.GoChannel
}

func NewGoChannelQueue() *GoChannelQueue {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 64,
			Persistent:          false,
		},
		watermill.NopLogger{},
	)
	return &GoChannelQueue{pubSub: pubSub}
}

func (q *GoChannelQueue) Publish(ctx context.Context, topic string, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return q.pubSub.Publish(topic, msg)
}

// Subscribe starts a goroutine draining the topic. The durable name is
// ignored; the channel transport already delivers each message once per
// subscriber loop.
func (q *GoChannelQueue) Subscribe(topic string, _ string, handler Handler) error {
	messages, err := q.pubSub.Subscribe(context.Background(), topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			q.processMessage(topic, msg, handler)
		}
	}()

	return nil
}

func (q *GoChannelQueue) processMessage(topic string, msg *message.Message, handler Handler) {
	err := handler(msg.Context(), msg.Payload)
	if err == nil {
		msg.Ack()
		return
	}

	if delay, ok := RetryDelay(err); ok {
		payload := msg.Payload
		msg.Ack()
		time.AfterFunc(delay, func() {
			if pubErr := q.Publish(context.Background(), topic, payload); pubErr != nil {
				log.Printf("[ERROR] Failed to republish delayed message on %s: %v", topic, pubErr)
			}
		})
		return
	}

	msg.Nack()
}

func (q *GoChannelQueue) Close() {
	if err := q.pubSub.Close(); err != nil {
		log.Printf("[WARN] Failed to close pubsub: %v", err)
	}
}
