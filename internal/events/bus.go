package events

import (
	"sync"
	"sync/atomic"
)

const defaultBufSize = 256

// EventBus fans events out to per-topic and all-topic subscribers over
// buffered channels. Publishing never blocks.
type EventBus struct {
	mu      sync.RWMutex
	subs    map[string][]chan Event // topic -> subscriber channels
	allSubs []chan Event            // channels subscribed to all topics
	closed  bool
	dropped atomic.Uint64 // deliveries skipped on full channels
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[string][]chan Event),
	}
}

// Subscribe returns a channel receiving events published to topic.
// A bufSize <= 0 uses the default of 256.
func (b *EventBus) Subscribe(topic string, bufSize int) <-chan Event {
	return b.add(func(ch chan Event) { b.subs[topic] = append(b.subs[topic], ch) }, bufSize)
}

// SubscribeAll returns a channel receiving events from every topic.
func (b *EventBus) SubscribeAll(bufSize int) <-chan Event {
	return b.add(func(ch chan Event) { b.allSubs = append(b.allSubs, ch) }, bufSize)
}

func (b *EventBus) add(register func(chan Event), bufSize int) <-chan Event {
	if bufSize <= 0 {
		bufSize = defaultBufSize
	}
	ch := make(chan Event, bufSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	// Subscribers of a closed bus get a closed channel.
	if b.closed {
		close(ch)
		return ch
	}
	register(ch)
	return ch
}

// Publish delivers event to the subscribers of topic and to every
// all-topic subscriber. A full subscriber channel drops the event and
// increments Dropped.
func (b *EventBus) Publish(topic string, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	// Don't publish if bus is closed
	if b.closed {
		return
	}

	// Send to topic-specific subscribers
	for _, ch := range b.subs[topic] {
		b.send(ch, event)
	}

	// Send to all-topic subscribers
	for _, ch := range b.allSubs {
		b.send(ch, event)
	}
}

func (b *EventBus) send(ch chan Event, event Event) {
	select {
	case ch <- event:
	default:
		// Channel full, drop event (non-blocking)
		b.dropped.Add(1)
	}
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (b *EventBus) Dropped() uint64 {
	return b.dropped.Load()
}

// Close closes every subscriber channel. It is idempotent.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	// Close all topic-specific subscribers
	for _, channels := range b.subs {
		for _, ch := range channels {
			close(ch)
		}
	}
	// Close all-topic subscribers
	for _, ch := range b.allSubs {
		close(ch)
	}
}
