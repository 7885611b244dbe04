package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bpkcongli/schema-checker/pkg/domain"
)

// Store implements ports.RejectionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Rejection
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Rejection),
	}
}

// Save persists the rejection in memory.
func (s *Store) Save(ctx context.Context, rejection *domain.Rejection) error {
	copied := clone(rejection)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rejection.ID] = copied
	return nil
}

// Load retrieves the rejection from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Rejection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[id]
	if !ok {
		return nil, domain.ErrRejectionNotFound
	}
	return clone(r), nil
}

// List returns rejections newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*domain.Rejection, error) {
	s.mu.RLock()
	out := make([]*domain.Rejection, 0, len(s.data))
	for _, r := range s.data {
		out = append(out, clone(r))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Equal(out[j].At) {
			return out[i].ID > out[j].ID
		}
		return out[i].At.After(out[j].At)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes the rejection from memory.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// clone deep-copies the rejection so callers cannot mutate stored data.
func clone(r *domain.Rejection) *domain.Rejection {
	return r.Clone()
}
