package clickhouse

import (
	"context"
	"fmt"
	"time"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/storage"
)

// IterationOutcomeStore implements storage.IterationOutcomeStore using ClickHouse.
// MergeTree does not enforce uniqueness, so InsertBulk checks keys before sending.
type IterationOutcomeStore struct {
	conn *Conn
}

// NewIterationOutcomeStore creates a new IterationOutcomeStore.
func NewIterationOutcomeStore(conn *Conn) *IterationOutcomeStore {
	return &IterationOutcomeStore{conn: conn}
}

// Compile-time interface check.
var _ storage.IterationOutcomeStore = (*IterationOutcomeStore)(nil)

// InsertBulk adds rows. Fails entire batch on duplicate (result_id, iteration_index, metric).
func (s *IterationOutcomeStore) InsertBulk(ctx context.Context, rows []*domain.IterationOutcome) (err error) {
	if len(rows) == 0 {
		return nil
	}
	defer observe("insert_outcomes", time.Now(), &err)

	// 1. Validate and check intra-batch duplicates
	type key struct {
		resultID string
		index    int
		metric   string
	}
	seen := make(map[key]struct{}, len(rows))
	results := make(map[string]struct{})
	for _, r := range rows {
		if r == nil || r.ResultID == "" || r.Metric == "" || r.IterationIndex < 0 {
			return storage.ErrInvalidInput
		}
		k := key{r.ResultID, r.IterationIndex, r.Metric}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
		results[r.ResultID] = struct{}{}
	}

	// 2. Check against existing rows, one query per result
	for resultID := range results {
		existing, err := s.keys(ctx, resultID)
		if err != nil {
			return fmt.Errorf("check existing outcomes: %w", err)
		}
		for _, k := range existing {
			if _, dup := seen[key{resultID, k.index, k.metric}]; dup {
				return storage.ErrDuplicateKey
			}
		}
	}

	// 3. Send
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO iteration_outcomes (
			result_id, domain_key, iteration_index, metric, value
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		err = batch.Append(r.ResultID, r.DomainKey, uint32(r.IterationIndex), r.Metric, r.Value)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByResultID retrieves all rows of a result ordered by iteration_index ASC, metric ASC.
func (s *IterationOutcomeStore) GetByResultID(ctx context.Context, resultID string) (_ []*domain.IterationOutcome, err error) {
	defer observe("get_outcomes", time.Now(), &err)

	rows, err := s.conn.Query(ctx, `
		SELECT result_id, domain_key, iteration_index, metric, value
		FROM iteration_outcomes
		WHERE result_id = ?
		ORDER BY iteration_index ASC, metric ASC
	`, resultID)
	if err != nil {
		return nil, fmt.Errorf("query by result id: %w", err)
	}
	defer rows.Close()

	var outcomes []*domain.IterationOutcome
	for rows.Next() {
		var (
			o     domain.IterationOutcome
			index uint32
		)
		if err := rows.Scan(&o.ResultID, &o.DomainKey, &index, &o.Metric, &o.Value); err != nil {
			return nil, fmt.Errorf("scan iteration outcome row: %w", err)
		}
		o.IterationIndex = int(index)
		outcomes = append(outcomes, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate iteration outcome rows: %w", err)
	}

	return outcomes, nil
}

// GetMetricValues retrieves one metric's values ordered by iteration_index ASC.
func (s *IterationOutcomeStore) GetMetricValues(ctx context.Context, resultID, metric string) (_ []float64, err error) {
	defer observe("get_metric_values", time.Now(), &err)

	rows, err := s.conn.Query(ctx, `
		SELECT value
		FROM iteration_outcomes
		WHERE result_id = ? AND metric = ?
		ORDER BY iteration_index ASC
	`, resultID, metric)
	if err != nil {
		return nil, fmt.Errorf("query metric values: %w", err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan metric value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metric values: %w", err)
	}

	return values, nil
}

type existingKey struct {
	index  int
	metric string
}

// keys returns the (iteration_index, metric) pairs already stored for resultID.
func (s *IterationOutcomeStore) keys(ctx context.Context, resultID string) ([]existingKey, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT iteration_index, metric
		FROM iteration_outcomes
		WHERE result_id = ?
	`, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []existingKey
	for rows.Next() {
		var (
			index  uint32
			metric string
		)
		if err := rows.Scan(&index, &metric); err != nil {
			return nil, err
		}
		keys = append(keys, existingKey{int(index), metric})
	}
	return keys, rows.Err()
}
