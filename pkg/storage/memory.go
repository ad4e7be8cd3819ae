package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/hoverfx/pkg/figure"
)

func newID() string { return uuid.NewString() }

// MemoryStore keeps figures in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, notFound(id)
	}
	return &rec, nil
}

func (s *MemoryStore) Put(ctx context.Context, doc *figure.Document) (*Record, error) {
	rec, err := NewRecord(doc, time.Now())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.records[rec.ID]; ok {
		rec.CreatedAt = old.CreatedAt
	}
	s.records[rec.ID] = *rec
	return rec, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return notFound(id)
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		rec.Body = ""
		out = append(out, rec)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
