package session

import (
	"sync"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/cart/domain"
)

// Store keeps one cart per session key. Concurrent requests within the
// same session are last-writer-wins, matching plain session-dict
// semantics.
type Store interface {
	Get(sessionID string) domain.Cart
	Save(sessionID string, cart domain.Cart)
	Delete(sessionID string)
}

type memoryStore struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

func NewMemoryStore() Store {
	return &memoryStore{carts: make(map[string]domain.Cart)}
}

// Get returns a copy of the session's cart, or an empty cart on first
// access.
func (s *memoryStore) Get(sessionID string) domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cart, ok := s.carts[sessionID]; ok {
		return cart.Clone()
	}
	return domain.Cart{}
}

func (s *memoryStore) Save(sessionID string, cart domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = cart.Clone()
}

func (s *memoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
