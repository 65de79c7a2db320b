// Package events carries "record created" notifications from the stores to
// in-process subscribers. Delivery is asynchronous and at-most-once: the
// publishing request never waits for, and never fails because of, a
// subscriber.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const (
	TopicListingCreated = "listing.created"
	TopicNoticeCreated  = "notice.created"
)

type Event struct {
	Topic  string
	Record any
}

type Handler func(ctx context.Context, event Event)

type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{handlers: make(map[string][]Handler), logger: logger}
}

func (b *Bus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish fans the event out to every subscriber of the topic, each on its
// own goroutine with a detached context. A panicking subscriber is logged
// and isolated; there is no retry.
func (b *Bus) Publish(topic string, record any) {
	b.mu.RLock()
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	event := Event{Topic: topic, Record: record}
	for _, handler := range handlers {
		go b.deliver(handler, event)
	}
}

func (b *Bus) deliver(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event subscriber panicked",
				zap.String("topic", event.Topic), zap.Any("panic", r))
		}
	}()
	handler(context.Background(), event)
}
