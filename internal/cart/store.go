package cart

import (
	"context"
	"errors"
	"sync"
)

// ErrBadQuantity rejects Add calls with a non-positive quantity. Callers
// default the quantity to 1; they never pass zero deliberately.
var ErrBadQuantity = errors.New("quantity must be a positive integer")

// Store owns every cart. Storage is the source of truth: each mutation
// is a load-modify-save under one lock, so the saved mapping always
// reflects the last completed intent, then a refresh signal goes out.
type Store struct {
	mu      sync.Mutex
	storage Storage
	bus     *Bus
	metrics *Metrics
}

func NewStore(storage Storage, metrics *Metrics) *Store {
	return &Store{
		storage: storage,
		bus:     NewBus(),
		metrics: metrics,
	}
}

// Get returns the current mapping for a storage key.
func (s *Store) Get(ctx context.Context, key string) (Items, error) {
	return s.storage.Load(ctx, key)
}

// Ping reports whether the storage backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

// Subscribe registers a refresh-signal reader.
func (s *Store) Subscribe() (<-chan Event, func()) {
	return s.bus.Subscribe()
}

// Add increments the quantity for a product, inserting it if absent.
func (s *Store) Add(ctx context.Context, key, productID string, qty int) error {
	if qty <= 0 {
		return ErrBadQuantity
	}
	return s.mutate(ctx, key, "add", func(items Items) {
		items[productID] += qty
	})
}

// SetQuantity pins a product to an exact quantity. Zero or below removes
// the entry entirely.
func (s *Store) SetQuantity(ctx context.Context, key, productID string, qty int) error {
	return s.mutate(ctx, key, "set", func(items Items) {
		if qty <= 0 {
			delete(items, productID)
			return
		}
		items[productID] = qty
	})
}

// Remove deletes a product from the cart. Removing an absent product is
// a no-op, not an error.
func (s *Store) Remove(ctx context.Context, key, productID string) error {
	return s.mutate(ctx, key, "remove", func(items Items) {
		delete(items, productID)
	})
}

func (s *Store) mutate(ctx context.Context, key, op string, fn func(Items)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.storage.Load(ctx, key)
	if err != nil {
		return err
	}

	fn(items)

	if err := s.storage.Save(ctx, key, items); err != nil {
		return err
	}

	s.metrics.mutation(op)
	s.publish(Event{Type: EventMutated, Key: key})
	return nil
}

func (s *Store) publish(e Event) {
	s.metrics.signal(e.Type)
	s.bus.Publish(e)
}
