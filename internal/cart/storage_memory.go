package cart

import (
	"context"
	"sync"
)

type MemStorage struct {
	mu sync.RWMutex
	m  map[string]Items
}

func NewMemStorage() *MemStorage {
	return &MemStorage{m: map[string]Items{}}
}

func (s *MemStorage) Ping(ctx context.Context) error { return nil }

func (s *MemStorage) Load(ctx context.Context, key string) (Items, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.m[key]
	if !ok {
		return Items{}, nil
	}
	return normalize(items.clone()), nil
}

func (s *MemStorage) Save(ctx context.Context, key string, items Items) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[key] = items.clone()
	return nil
}
