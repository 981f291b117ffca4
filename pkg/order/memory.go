package order

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps orders in process memory. It backs tests and lets
// the service run without DATABASE_URL; records do not survive restarts.
type MemoryStore struct {
	mu     sync.RWMutex
	orders []Order
	nextID int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// Save appends one pending order.
func (s *MemoryStore) Save(ctx context.Context, item string, quantity int, price float64) (int64, error) {
	if err := validate(item, quantity, price); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.orders = append(s.orders, Order{
		ID:        id,
		Item:      item,
		Quantity:  quantity,
		Price:     price,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	})
	return id, nil
}

// ListAll returns orders newest first.
func (s *MemoryStore) ListAll(ctx context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, len(s.orders))
	for i, o := range s.orders {
		out[len(s.orders)-1-i] = o
	}
	return out, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() {}

var _ Store = (*MemoryStore)(nil)
