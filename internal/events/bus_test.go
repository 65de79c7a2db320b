package events

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var delivered atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe(TopicListingCreated, func(ctx context.Context, event Event) {
			assert.Equal(t, TopicListingCreated, event.Topic)
			delivered.Add(1)
		})
	}
	bus.Subscribe(TopicNoticeCreated, func(ctx context.Context, event Event) {
		t.Error("wrong topic delivered")
	})

	bus.Publish(TopicListingCreated, "record")

	require.Eventually(t, func() bool {
		return delivered.Load() == 3
	}, time.Second, 5*time.Millisecond)
}

func TestPublishDoesNotBlockCaller(t *testing.T) {
	bus := NewBus(zap.NewNop())

	release := make(chan struct{})
	bus.Subscribe(TopicListingCreated, func(ctx context.Context, event Event) {
		<-release
	})

	done := make(chan struct{})
	go func() {
		bus.Publish(TopicListingCreated, "record")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
	close(release)
}

func TestPanickingSubscriberIsIsolated(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var delivered atomic.Int32
	bus.Subscribe(TopicListingCreated, func(ctx context.Context, event Event) {
		panic("subscriber bug")
	})
	bus.Subscribe(TopicListingCreated, func(ctx context.Context, event Event) {
		delivered.Add(1)
	})

	bus.Publish(TopicListingCreated, "record")

	require.Eventually(t, func() bool {
		return delivered.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(zap.NewNop())
	assert.NotPanics(t, func() {
		bus.Publish(TopicNoticeCreated, "record")
	})
}
