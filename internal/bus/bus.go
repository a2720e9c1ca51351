// Package bus provides a typed in-process publish-subscribe channel.
//
// It replaces ambient global event dispatch with an explicit, injectable
// broadcast primitive: the emitting side and every consumer receive the same
// *Bus value from the application wiring, which keeps the channel testable
// in isolation.
package bus

import (
	"context"
	"sync"
)

// DefaultBuffer is the per-subscriber channel capacity used by New.
const DefaultBuffer = 16

// Bus is a broadcast channel carrying values of type T. Every subscriber
// receives every published value. Publishing never blocks: subscribers that
// fall behind their buffer miss values, matching the fire-and-forget
// semantics of a UI broadcast channel.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   map[uint64]chan T
	nextID uint64
	buffer int
}

// New creates a Bus with the default per-subscriber buffer.
func New[T any]() *Bus[T] {
	return NewBuffered[T](DefaultBuffer)
}

// NewBuffered creates a Bus whose subscriber channels hold up to buffer
// undelivered values each.
func NewBuffered[T any](buffer int) *Bus[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Bus[T]{
		subs:   make(map[uint64]chan T),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber and returns its receive channel.
// The subscription is removed and the channel closed when ctx is cancelled.
func (b *Bus[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, b.buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Publish delivers v to every current subscriber without blocking and
// returns the number of subscribers that received it.
func (b *Bus[T]) Publish(v T) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- v:
			delivered++
		default:
			// Subscriber buffer full: drop rather than block the publisher.
		}
	}
	return delivered
}

// Subscribers returns the current subscriber count.
func (b *Bus[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
