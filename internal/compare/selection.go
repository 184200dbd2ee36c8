// Package compare holds the compare tray: up to three products picked
// for side-by-side comparison. Selections are transient; they live in
// memory per browser scope and vanish on restart by design.
package compare

import "sync"

// MaxItems bounds the tray. A toggle on a full tray is ignored rather
// than evicting anything.
const MaxItems = 3

// Sets tracks one selection per browser scope.
type Sets struct {
	mu sync.Mutex
	m  map[string][]string
}

func NewSets() *Sets {
	return &Sets{m: map[string][]string{}}
}

// Toggle removes the id when present and appends it when absent and
// there is room; a toggle on a full tray changes nothing. It returns
// the resulting selection in insertion order.
func (s *Sets) Toggle(scope, id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.m[scope]
	for i, v := range ids {
		if v == id {
			ids = append(ids[:i:i], ids[i+1:]...)
			s.m[scope] = ids
			return cloneIDs(ids)
		}
	}

	if len(ids) < MaxItems {
		ids = append(ids, id)
		s.m[scope] = ids
	}
	return cloneIDs(ids)
}

// IDs returns the current selection in insertion order.
func (s *Sets) IDs(scope string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneIDs(s.m[scope])
}

// Clear empties the selection for a scope.
func (s *Sets) Clear(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, scope)
}

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
