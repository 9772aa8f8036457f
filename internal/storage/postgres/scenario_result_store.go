package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/storage"
)

// ScenarioResultStore implements storage.ScenarioResultStore using PostgreSQL.
// Results live in scenario_results, iteration records in iteration_results.
type ScenarioResultStore struct {
	pool *Pool
}

// NewScenarioResultStore creates a new ScenarioResultStore.
func NewScenarioResultStore(pool *Pool) *ScenarioResultStore {
	return &ScenarioResultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScenarioResultStore = (*ScenarioResultStore)(nil)

const resultColumns = `
	id, scenario_name, description, domain_key, num_iterations, time_horizon_days,
	seed, state, parameters, base_result_id, what_if, summary_stats, percentiles,
	created_at, completed_at
`

// Insert adds a result and its iteration records in one transaction.
// Returns ErrDuplicateKey if the ID exists.
func (s *ScenarioResultStore) Insert(ctx context.Context, r *domain.ScenarioResult) (err error) {
	defer observe("insert_result", time.Now(), &err)

	if r == nil || r.ID == "" || r.DomainKey == "" {
		return storage.ErrInvalidInput
	}

	row, err := encodeResult(r)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1. Result row
	_, err = tx.Exec(ctx, `
		INSERT INTO scenario_results (`+resultColumns+`) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13,
			$14, $15
		)
	`,
		r.ID, r.ScenarioName, r.Description, r.DomainKey, r.NumIterations, r.TimeHorizonDays,
		r.Seed, string(r.State), row.parameters, row.baseResultID, row.whatIf, row.summaryStats, row.percentiles,
		r.CreatedAt, r.CompletedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert scenario result: %w", err)
	}

	// 2. Iteration rows, sent as one batch
	if len(r.Results) > 0 {
		batch := &pgx.Batch{}
		for _, it := range r.Results {
			shocks, features, outcomes, err := encodeIteration(it)
			if err != nil {
				return err
			}
			batch.Queue(`
				INSERT INTO iteration_results (
					result_id, iteration_index, shocks, features, outcomes, confidence
				) VALUES ($1, $2, $3, $4, $5, $6)
			`, r.ID, it.Index, shocks, features, outcomes, it.Confidence)
		}

		br := tx.SendBatch(ctx, batch)
		for range r.Results {
			if _, err := br.Exec(); err != nil {
				br.Close()
				if isDuplicateKeyError(err) {
					return storage.ErrDuplicateKey
				}
				return fmt.Errorf("insert iteration result: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("close batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a result with its iteration records. Returns ErrNotFound if not exists.
func (s *ScenarioResultStore) GetByID(ctx context.Context, id string) (_ *domain.ScenarioResult, err error) {
	defer observe("get_result", time.Now(), &err)

	row := s.pool.QueryRow(ctx, `SELECT `+resultColumns+` FROM scenario_results WHERE id = $1`, id)
	r, err := scanResult(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get scenario result by id: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT iteration_index, shocks, features, outcomes, confidence
		FROM iteration_results
		WHERE result_id = $1
		ORDER BY iteration_index ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query iteration results: %w", err)
	}
	defer rows.Close()

	r.Results = make([]domain.IterationResult, 0, r.NumIterations)
	for rows.Next() {
		var (
			it                         domain.IterationResult
			shocks, features, outcomes []byte
		)
		if err := rows.Scan(&it.Index, &shocks, &features, &outcomes, &it.Confidence); err != nil {
			return nil, fmt.Errorf("scan iteration result row: %w", err)
		}
		if err := decodeJSON(shocks, &it.Shocks, "shocks"); err != nil {
			return nil, err
		}
		if err := decodeJSON(features, &it.Features, "features"); err != nil {
			return nil, err
		}
		if err := decodeJSON(outcomes, &it.Outcomes, "outcomes"); err != nil {
			return nil, err
		}
		r.Results = append(r.Results, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate iteration result rows: %w", err)
	}

	return r, nil
}

// ListByDomain retrieves results for a domain ordered by created_at ASC, id ASC,
// without iteration records.
func (s *ScenarioResultStore) ListByDomain(ctx context.Context, domainKey string) (_ []*domain.ScenarioResult, err error) {
	defer observe("list_results", time.Now(), &err)

	rows, err := s.pool.Query(ctx, `
		SELECT `+resultColumns+`
		FROM scenario_results
		WHERE domain_key = $1
		ORDER BY created_at ASC, id ASC
	`, domainKey)
	if err != nil {
		return nil, fmt.Errorf("query scenario results by domain: %w", err)
	}
	defer rows.Close()

	var results []*domain.ScenarioResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scenario result row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenario result rows: %w", err)
	}

	return results, nil
}

// resultRow holds the JSONB-encoded columns of a scenario_results row.
type resultRow struct {
	parameters   []byte
	baseResultID *string
	whatIf       []byte // nil for plain runs
	summaryStats []byte
	percentiles  []byte
}

func encodeResult(r *domain.ScenarioResult) (*resultRow, error) {
	var (
		row resultRow
		err error
	)
	if row.parameters, err = json.Marshal(r.Parameters); err != nil {
		return nil, fmt.Errorf("encode parameters: %w", err)
	}
	if r.BaseResultID != "" {
		id := r.BaseResultID
		row.baseResultID = &id
	}
	if r.WhatIf != nil {
		if row.whatIf, err = json.Marshal(r.WhatIf); err != nil {
			return nil, fmt.Errorf("encode what-if parameters: %w", err)
		}
	}
	if row.summaryStats, err = json.Marshal(r.SummaryStats); err != nil {
		return nil, fmt.Errorf("encode summary stats: %w", err)
	}
	if row.percentiles, err = json.Marshal(r.Percentiles); err != nil {
		return nil, fmt.Errorf("encode percentiles: %w", err)
	}
	return &row, nil
}

func encodeIteration(it domain.IterationResult) (shocks, features, outcomes []byte, err error) {
	if shocks, err = json.Marshal(it.Shocks); err != nil {
		return nil, nil, nil, fmt.Errorf("encode shocks of iteration %d: %w", it.Index, err)
	}
	if features, err = json.Marshal(it.Features); err != nil {
		return nil, nil, nil, fmt.Errorf("encode features of iteration %d: %w", it.Index, err)
	}
	if outcomes, err = json.Marshal(it.Outcomes); err != nil {
		return nil, nil, nil, fmt.Errorf("encode outcomes of iteration %d: %w", it.Index, err)
	}
	return shocks, features, outcomes, nil
}

func decodeJSON(data []byte, dst any, column string) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", column, err)
	}
	return nil
}

// scanResult scans a scenario_results row selected with resultColumns.
func scanResult(row pgx.Row) (*domain.ScenarioResult, error) {
	var (
		r                                             domain.ScenarioResult
		state                                         string
		baseResultID                                  *string
		parameters, whatIf, summaryStats, percentiles []byte
	)
	err := row.Scan(
		&r.ID, &r.ScenarioName, &r.Description, &r.DomainKey, &r.NumIterations, &r.TimeHorizonDays,
		&r.Seed, &state, &parameters, &baseResultID, &whatIf, &summaryStats, &percentiles,
		&r.CreatedAt, &r.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	r.State = domain.RunState(state)
	if baseResultID != nil {
		r.BaseResultID = *baseResultID
	}
	if err := decodeJSON(parameters, &r.Parameters, "parameters"); err != nil {
		return nil, err
	}
	if len(whatIf) > 0 {
		r.WhatIf = &domain.WhatIfParams{}
		if err := decodeJSON(whatIf, r.WhatIf, "what_if"); err != nil {
			return nil, err
		}
	}
	if err := decodeJSON(summaryStats, &r.SummaryStats, "summary_stats"); err != nil {
		return nil, err
	}
	if err := decodeJSON(percentiles, &r.Percentiles, "percentiles"); err != nil {
		return nil, err
	}
	return &r, nil
}
