package events

import "sync"

// Scope groups subscriptions so they can be released together when a page ends
type Scope struct {
	bus      *Bus
	mu       sync.Mutex
	subs     []Subscription
	disposed bool
}

// Scope creates a subscription scope on b
func (b *Bus) Scope() *Scope {
	return &Scope{bus: b}
}

// Subscribe registers fn on the underlying bus and tracks it for Dispose
func (s *Scope) Subscribe(topic string, fn Handler) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return noopSubscription{}
	}
	sub := s.bus.Subscribe(topic, fn)
	s.subs = append(s.subs, sub)
	return sub
}

// Publish publishes on the underlying bus
func (s *Scope) Publish(topic string, payload any) {
	s.bus.Publish(topic, payload)
}

// Dispose unsubscribes everything registered through the scope
func (s *Scope) Dispose() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.disposed = true
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}
