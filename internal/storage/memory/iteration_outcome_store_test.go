package memory

import (
	"context"
	"errors"
	"testing"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/storage"
)

func TestIterationOutcomeStore_InsertBulkAndGet(t *testing.T) {
	store := NewIterationOutcomeStore()
	ctx := context.Background()

	rows := []*domain.IterationOutcome{
		{ResultID: "r1", DomainKey: "saas", IterationIndex: 1, Metric: "arr", Value: 90},
		{ResultID: "r1", DomainKey: "saas", IterationIndex: 0, Metric: "churn", Value: 0.1},
		{ResultID: "r1", DomainKey: "saas", IterationIndex: 0, Metric: "arr", Value: 100},
		{ResultID: "r2", DomainKey: "saas", IterationIndex: 0, Metric: "arr", Value: 50},
	}
	if err := store.InsertBulk(ctx, rows); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByResultID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByResultID failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(got))
	}
	if got[0].Metric != "arr" || got[1].Metric != "churn" || got[2].IterationIndex != 1 {
		t.Errorf("Unexpected order: %+v %+v %+v", *got[0], *got[1], *got[2])
	}

	values, err := store.GetMetricValues(ctx, "r1", "arr")
	if err != nil {
		t.Fatalf("GetMetricValues failed: %v", err)
	}
	if len(values) != 2 || values[0] != 100 || values[1] != 90 {
		t.Errorf("Unexpected values: %v", values)
	}
}

func TestIterationOutcomeStore_DuplicateKey(t *testing.T) {
	store := NewIterationOutcomeStore()
	ctx := context.Background()

	row := &domain.IterationOutcome{ResultID: "r1", IterationIndex: 0, Metric: "arr", Value: 1}
	if err := store.InsertBulk(ctx, []*domain.IterationOutcome{row}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.IterationOutcome{row})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestIterationOutcomeStore_IntraBatchDuplicateIsAtomic(t *testing.T) {
	store := NewIterationOutcomeStore()
	ctx := context.Background()

	rows := []*domain.IterationOutcome{
		{ResultID: "r1", IterationIndex: 0, Metric: "arr", Value: 1},
		{ResultID: "r1", IterationIndex: 1, Metric: "arr", Value: 2},
		{ResultID: "r1", IterationIndex: 0, Metric: "arr", Value: 3},
	}
	err := store.InsertBulk(ctx, rows)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	got, _ := store.GetByResultID(ctx, "r1")
	if len(got) != 0 {
		t.Errorf("Expected no rows after failed batch, got %d", len(got))
	}
}

func TestIterationOutcomeStore_InvalidInput(t *testing.T) {
	store := NewIterationOutcomeStore()

	err := store.InsertBulk(context.Background(), []*domain.IterationOutcome{{ResultID: "r1", Metric: ""}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
