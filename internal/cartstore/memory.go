package cartstore

import (
	"context"
	"sort"
	"sync"

	"storefront-gateway/internal/domain"
)

// MemoryStore is a map-backed Backend used in tests and as the
// degraded fallback when the local cart file cannot be opened.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]Record
}

func NewMemory() *MemoryStore {
	return &MemoryStore{recs: make(map[string]Record)}
}

func (s *MemoryStore) Load(_ context.Context, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.Key] = rec
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, key)
	return nil
}

func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.recs))
	for k := range s.recs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
