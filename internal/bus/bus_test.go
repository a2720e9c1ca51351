package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := New[string]()
	a := b.Subscribe(ctx)
	c := b.Subscribe(ctx)

	delivered := b.Publish("hello")
	assert.Equal(t, 2, delivered)

	require.Equal(t, "hello", <-a)
	require.Equal(t, "hello", <-c)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	b := New[int]()
	assert.Equal(t, 0, b.Publish(42))
}

func TestFullSubscriberDropsValues(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBuffered[int](1)
	ch := b.Subscribe(ctx)

	assert.Equal(t, 1, b.Publish(1))
	// Buffer is full now; the second publish must not block.
	assert.Equal(t, 0, b.Publish(2))

	assert.Equal(t, 1, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected value %d, want drop", v)
	default:
	}
}

func TestContextCancelUnsubscribes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	b := New[int]()
	ch := b.Subscribe(ctx)
	require.Equal(t, 1, b.Subscribers())

	cancel()

	// The cleanup goroutine closes the channel once the subscription is gone.
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
	assert.Equal(t, 0, b.Subscribers())
}
