// Package events is the shell's listener registry.
//
// Pages subscribe through a Scope during Init; the bootstrapper disposes the scope once
// the page load ends so no listener outlives its page.
package events

import "sync"

// Topics published by the shell
const (
	SessionChanged = "session.changed"
	Navigated      = "navigated"
)

// Handler receives a published payload
type Handler func(payload any)

// Subscription unregisters a single handler
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	bus   *Bus
	topic string
	id    uint64
	once  sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.remove(s.topic, s.id)
	})
}

type listener struct {
	id uint64
	fn Handler
}

// Bus dispatches payloads to the handlers subscribed to a topic, in subscription order
type Bus struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[string][]listener
	disposed  bool
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]listener)}
}

// Subscribe registers fn for topic. Subscribing to a disposed bus is a no-op.
func (b *Bus) Subscribe(topic string, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &subscription{bus: b, topic: topic, id: b.nextID}
	if b.disposed {
		return sub
	}
	b.listeners[topic] = append(b.listeners[topic], listener{id: sub.id, fn: fn})
	return sub
}

// Publish calls every handler of topic synchronously
func (b *Bus) Publish(topic string, payload any) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.listeners[topic]))
	for _, l := range b.listeners[topic] {
		handlers = append(handlers, l.fn)
	}
	b.mu.Unlock()

	// Called outside the lock so handlers may subscribe or unsubscribe
	for _, fn := range handlers {
		fn(payload)
	}
}

// Len returns the number of handlers registered for topic
func (b *Bus) Len(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[topic])
}

// Dispose unregisters every handler and rejects later subscriptions
func (b *Bus) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = make(map[string][]listener)
	b.disposed = true
}

func (b *Bus) remove(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ls := b.listeners[topic]
	for i, l := range ls {
		if l.id == id {
			b.listeners[topic] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(b.listeners[topic]) == 0 {
		delete(b.listeners, topic)
	}
}
