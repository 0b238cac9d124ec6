// Package notify fans out state change notifications to read-only
// subscribers. Delivery is non-blocking: a subscriber whose buffer is full
// misses the notification and is expected to poll the current state.
package notify

import "sync"

// DefaultBuffer is the channel buffer used when Subscribe is called with a
// non-positive size.
const DefaultBuffer = 64

// Hub broadcasts values of type T to every active subscriber.
type Hub[T any] struct {
	mu          sync.RWMutex
	subscribers map[chan T]struct{}
}

// NewHub returns an empty hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subscribers: make(map[chan T]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel function removes
// the subscription and closes the channel; it is safe to call more than once.
func (h *Hub[T]) Subscribe(buffer int) (<-chan T, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan T, buffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish sends v to all subscribers and returns how many were skipped
// because their buffer was full.
func (h *Hub[T]) Publish(v T) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for ch := range h.subscribers {
		select {
		case ch <- v:
		default:
			dropped++
		}
	}
	return dropped
}

// Len returns the number of active subscribers.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
