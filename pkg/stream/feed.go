package stream

import "sync"

// Feed is a replay-latest broadcast cell.
//
// Publish stores the value and dispatches it synchronously to all subscribers
// in subscription order, while holding the feed lock. That gives two
// guarantees: a subscriber attached before a publish sees every transition,
// and transitions are observed in the order the publishes completed.
//
// Subscribers must not call back into the same feed from their callback.
type Feed[T any] struct {
	mu       sync.Mutex
	latest   T
	nextID   uint64
	handlers []subscriber[T]
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// NewFeed creates a feed seeded with an initial value. The initial value is
// replayed to subscribers but is not dispatched as a transition.
func NewFeed[T any](initial T) *Feed[T] {
	return &Feed[T]{latest: initial}
}

// Publish stores v as the latest value and delivers it to every subscriber.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = v
	for _, s := range f.handlers {
		s.fn(v)
	}
}

// Latest returns the most recently published value.
func (f *Feed[T]) Latest() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest
}

// Subscribe registers fn and immediately replays the latest value to it.
// The returned cancel function removes the subscription; calling it more
// than once is a no-op.
func (f *Feed[T]) Subscribe(fn func(T)) (cancel func()) {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.handlers = append(f.handlers, subscriber[T]{id: id, fn: fn})
	latest := f.latest
	fn(latest)
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i, s := range f.handlers {
				if s.id == id {
					f.handlers = append(f.handlers[:i], f.handlers[i+1:]...)
					break
				}
			}
		})
	}
}

// SubscriberCount returns the number of attached subscribers.
func (f *Feed[T]) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}
