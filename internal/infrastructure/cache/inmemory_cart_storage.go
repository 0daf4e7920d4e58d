package cache

import (
	"context"
	"sync"

	"github.com/storefront/backend/internal/domain/cart"
)

// InMemoryCartStorage implements cart.Storage using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryCartStorage struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewInMemoryCartStorage creates an empty in-memory storage
func NewInMemoryCartStorage() *InMemoryCartStorage {
	return &InMemoryCartStorage{entries: make(map[string][]byte)}
}

// Load returns a copy of the payload stored under key
func (s *InMemoryCartStorage) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.entries[key]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	return append([]byte(nil), payload...), nil
}

// Save stores a copy of payload under key
func (s *InMemoryCartStorage) Save(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = append([]byte(nil), payload...)
	return nil
}

// Ping always succeeds
func (s *InMemoryCartStorage) Ping(context.Context) error {
	return nil
}

// Close is a no-op
func (s *InMemoryCartStorage) Close() error {
	return nil
}

// Len returns the number of stored carts
func (s *InMemoryCartStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ cart.Storage = (*InMemoryCartStorage)(nil)
