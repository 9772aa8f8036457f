package memory

import (
	"context"
	"sort"
	"sync"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/storage"
)

type outcomeKey struct {
	resultID string
	index    int
	metric   string
}

// IterationOutcomeStore is an in-memory implementation of storage.IterationOutcomeStore.
type IterationOutcomeStore struct {
	mu   sync.RWMutex
	data map[outcomeKey]*domain.IterationOutcome
}

// NewIterationOutcomeStore creates a new in-memory iteration outcome store.
func NewIterationOutcomeStore() *IterationOutcomeStore {
	return &IterationOutcomeStore{
		data: make(map[outcomeKey]*domain.IterationOutcome),
	}
}

// InsertBulk adds rows atomically. Fails entire batch on any duplicate.
func (s *IterationOutcomeStore) InsertBulk(_ context.Context, rows []*domain.IterationOutcome) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: check for duplicates (existing + intra-batch)
	batchKeys := make(map[outcomeKey]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.ResultID == "" || r.Metric == "" || r.IterationIndex < 0 {
			return storage.ErrInvalidInput
		}
		k := outcomeKey{r.ResultID, r.IterationIndex, r.Metric}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	// Second pass: insert all
	for _, r := range rows {
		copy := *r
		s.data[outcomeKey{r.ResultID, r.IterationIndex, r.Metric}] = &copy
	}

	return nil
}

// GetByResultID retrieves all rows of a result ordered by iteration_index ASC, metric ASC.
func (s *IterationOutcomeStore) GetByResultID(_ context.Context, resultID string) ([]*domain.IterationOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.IterationOutcome
	for k, r := range s.data {
		if k.resultID == resultID {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].IterationIndex != result[j].IterationIndex {
			return result[i].IterationIndex < result[j].IterationIndex
		}
		return result[i].Metric < result[j].Metric
	})

	return result, nil
}

// GetMetricValues retrieves one metric's values ordered by iteration_index ASC.
func (s *IterationOutcomeStore) GetMetricValues(ctx context.Context, resultID, metric string) ([]float64, error) {
	rows, err := s.GetByResultID(ctx, resultID)
	if err != nil {
		return nil, err
	}
	var values []float64
	for _, r := range rows {
		if r.Metric == metric {
			values = append(values, r.Value)
		}
	}
	return values, nil
}

var _ storage.IterationOutcomeStore = (*IterationOutcomeStore)(nil)
