package memory

import (
	"context"
	"sort"
	"sync"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/storage"
)

// ScenarioResultStore is an in-memory implementation of storage.ScenarioResultStore.
type ScenarioResultStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScenarioResult // keyed by result id
}

// NewScenarioResultStore creates a new in-memory scenario result store.
func NewScenarioResultStore() *ScenarioResultStore {
	return &ScenarioResultStore{
		data: make(map[string]*domain.ScenarioResult),
	}
}

// Insert adds a completed result. Returns ErrDuplicateKey if the ID exists.
func (s *ScenarioResultStore) Insert(_ context.Context, r *domain.ScenarioResult) error {
	if r == nil || r.ID == "" || r.DomainKey == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[r.ID] = r.Clone()
	return nil
}

// GetByID retrieves a result by its ID. Returns ErrNotFound if not exists.
func (s *ScenarioResultStore) GetByID(_ context.Context, id string) (*domain.ScenarioResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return r.Clone(), nil
}

// ListByDomain retrieves results for a domain, ordered by created_at ASC, id ASC,
// without iteration records.
func (s *ScenarioResultStore) ListByDomain(_ context.Context, domainKey string) ([]*domain.ScenarioResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ScenarioResult
	for _, r := range s.data {
		if r.DomainKey != domainKey {
			continue
		}
		c := *r
		c.Results = nil
		result = append(result, c.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

var _ storage.ScenarioResultStore = (*ScenarioResultStore)(nil)
