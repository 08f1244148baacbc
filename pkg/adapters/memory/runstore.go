package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/espalier/pkg/domain"
)

// RunStore implements ports.RunStore in memory. Records live for the
// process lifetime; the sqlite adapter is the durable sibling.
type RunStore struct {
	mu   sync.RWMutex
	recs []domain.RunRecord
}

// NewRunStore creates a new in-memory run history.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// Append records a finished run. A missing ID is filled in.
func (s *RunStore) Append(ctx context.Context, rec *domain.RunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, *rec)
	return nil
}

// List returns records newest first.
func (s *RunStore) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RunRecord, 0, len(s.recs))
	for i := len(s.recs) - 1; i >= 0; i-- {
		out = append(out, s.recs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Get retrieves one record by ID.
func (s *RunStore) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.recs {
		if s.recs[i].ID == id {
			rec := s.recs[i]
			return &rec, nil
		}
	}
	return nil, domain.ErrRunNotFound
}
