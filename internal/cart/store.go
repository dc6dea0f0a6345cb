package cart

import (
	"sync"

	"go.uber.org/zap"

	"orchid-storefront/internal/domain"
)

// Store owns the live cart state. Mutations are synchronous; every state
// change is broadcast to all subscribers.
type Store struct {
	reducer Reducer
	logger  *zap.Logger

	mu          sync.RWMutex
	state       State
	subscribers []func(State)
}

// NewStore creates an empty cart store.
func NewStore(reducer Reducer, logger *zap.Logger) *Store {
	return &Store{
		reducer: reducer,
		logger:  logger,
		state:   Empty(),
	}
}

// Subscribe registers fn to be called after every state change.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// AddItem adds quantity of orchid to the cart, merging into an existing
// line. A product without an id is rejected without mutating the cart.
func (s *Store) AddItem(orchid domain.Orchid, quantity int) {
	if orchid.ID == "" {
		s.logger.Warn("Rejected cart add: product has no id",
			zap.String("name", orchid.Name),
		)
		return
	}
	s.dispatch(AddItem{Orchid: orchid, Quantity: quantity})
}

// RemoveItem deletes the line for id, if present.
func (s *Store) RemoveItem(id string) {
	s.dispatch(RemoveItem{ID: id})
}

// SetQuantity overwrites the quantity of the line for id. Zero or less
// removes the line.
func (s *Store) SetQuantity(id string, quantity int) {
	s.dispatch(SetQuantity{ID: id, Quantity: quantity})
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.dispatch(Clear{})
}

// State returns a snapshot of the current cart.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Lines) == 0
}

func (s *Store) dispatch(cmd Command) {
	s.mu.Lock()
	next := s.reducer.Apply(s.state, cmd)
	// No-op commands (removing an absent line, for instance) must not
	// trigger a re-render
	if next.Equal(s.state) {
		s.mu.Unlock()
		return
	}
	s.state = next
	state := s.state
	subs := make([]func(State), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}
