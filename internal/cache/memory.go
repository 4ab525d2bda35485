package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is a thread-safe in-process Store with lazy expiry. Expired
// entries are dropped on read and swept opportunistically on write.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed it
		if cur, ok := s.entries[key]; ok && s.now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.entries[key] = entry{value: stored, expiresAt: now.Add(ttl)}

	// Opportunistic sweep keeps the map from accumulating dead entries
	if len(s.entries) > 1024 {
		for k, e := range s.entries {
			if now.After(e.expiresAt) {
				delete(s.entries, k)
			}
		}
	}
	return nil
}

// Len returns the number of stored entries, including not-yet-swept expired ones.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
