package storage

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsMatchThroughWrapping(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrDuplicateKey, ErrInvalidInput}
	for i, want := range sentinels {
		wrapped := fmt.Errorf("insert result r-1: %w", want)
		for j, other := range sentinels {
			if got := errors.Is(wrapped, other); got != (i == j) {
				t.Errorf("errors.Is(%v, %v) = %v", wrapped, other, got)
			}
		}
	}
}

func TestErrDuplicateKeyMentionsImmutability(t *testing.T) {
	if got := ErrDuplicateKey.Error(); got != "duplicate key: stored results are immutable" {
		t.Errorf("unexpected message %q", got)
	}
}
