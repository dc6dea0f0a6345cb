package events

import (
	"sync"
)

// SessionExpired is published when the API layer observes an authorization
// failure on an authenticated call. Subscribers treat it as a forced-logout
// and re-authentication prompt.
type SessionExpired struct {
	Status  int
	Message string
}

// Bus is a minimal in-process publish/subscribe fan-out for session
// lifecycle notifications. Publishing is synchronous with respect to the
// triggering event; subscribers must not block.
type Bus struct {
	mu          sync.RWMutex
	subscribers []func(SessionExpired)
}

func NewBus() *Bus {
	return &Bus{}
}

// SubscribeSessionExpired registers a handler for session-expired
// notifications. Handlers are invoked in subscription order.
func (b *Bus) SubscribeSessionExpired(fn func(SessionExpired)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// PublishSessionExpired delivers the event to every subscriber.
func (b *Bus) PublishSessionExpired(ev SessionExpired) {
	b.mu.RLock()
	subs := make([]func(SessionExpired), len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}
