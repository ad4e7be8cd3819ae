package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]Snapshot)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.snaps[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if snap.IsExpired() {
		s.mu.Lock()
		delete(s.snaps, id)
		s.mu.Unlock()
		return nil, nil
	}
	snap.State = snap.State.Clone()
	return &snap, nil
}

func (s *MemoryStore) Set(ctx context.Context, snap *Snapshot) error {
	stored := *snap
	stored.State = snap.State.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[snap.ID] = stored
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, id)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, snap := range s.snaps {
		if now.After(snap.ExpiresAt) {
			delete(s.snaps, id)
		}
	}
	return nil
}

// Len returns the number of stored snapshots, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snaps)
}

var _ Store = (*MemoryStore)(nil)
