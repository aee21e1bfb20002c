package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Store persists wizard drafts by ID
type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, state *State) error
	Delete(ctx context.Context, id string) error
	// Purge removes drafts idle past their TTL and returns how many went
	Purge(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps drafts in process memory. Values are stored encoded so
// callers never share a State with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a memory store. A zero ttl keeps drafts forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) expired(e memoryEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*State, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || s.expired(e, s.now()) {
		return nil, ErrDraftNotFound
	}

	var state State
	if err := json.Unmarshal(e.data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &state, nil
}

func (s *MemoryStore) Save(ctx context.Context, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	e := memoryEntry{data: data}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[state.ID] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Purge(ctx context.Context) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			purged++
		}
	}
	return purged, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}
