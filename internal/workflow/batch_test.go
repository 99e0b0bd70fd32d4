package workflow

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ssg-mis/dispatch-api/internal/domain"
)

func TestSubmitBatchAllSucceed(t *testing.T) {
	lines := []*domain.OrderLine{
		line("DO-001A", "c", "p", 1),
		line("DO-001B", "c", "p", 1),
		line("DO-001C", "c", "p", 1),
	}

	var mu sync.Mutex
	submitted := make(map[string]bool)

	result := SubmitBatch(context.Background(), lines, func(ctx context.Context, l *domain.OrderLine) error {
		mu.Lock()
		submitted[l.OrderIdentifier] = true
		mu.Unlock()
		return nil
	})

	if result.SuccessCount != 3 || result.FailureCount != 0 {
		t.Errorf("result = %d/%d, want 3/0", result.SuccessCount, result.FailureCount)
	}
	if len(submitted) != 3 {
		t.Errorf("submitted %d lines, want 3", len(submitted))
	}
}

func TestSubmitBatchPartialFailure(t *testing.T) {
	lines := []*domain.OrderLine{
		line("DO-001A", "c", "p", 1),
		line("DO-001B", "c", "p", 1),
		line("DO-001C", "c", "p", 1),
	}

	result := SubmitBatch(context.Background(), lines, func(ctx context.Context, l *domain.OrderLine) error {
		if l.OrderIdentifier == "DO-001B" {
			return fmt.Errorf("record already exists")
		}
		return nil
	})

	if result.SuccessCount != 2 {
		t.Errorf("SuccessCount = %d, want 2", result.SuccessCount)
	}
	if result.FailureCount != 1 {
		t.Errorf("FailureCount = %d, want 1", result.FailureCount)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("Failures = %d entries, want 1", len(result.Failures))
	}
	f := result.Failures[0]
	if f.OrderIdentifier != "DO-001B" {
		t.Errorf("failed line = %q, want DO-001B", f.OrderIdentifier)
	}
	if f.Error != "record already exists" {
		t.Errorf("failure error = %q", f.Error)
	}
}

func TestSubmitBatchFailuresInInputOrder(t *testing.T) {
	lines := []*domain.OrderLine{
		line("DO-001", "c", "p", 1),
		line("DO-002", "c", "p", 1),
		line("DO-003", "c", "p", 1),
		line("DO-004", "c", "p", 1),
	}

	result := SubmitBatch(context.Background(), lines, func(ctx context.Context, l *domain.OrderLine) error {
		if l.OrderIdentifier == "DO-003" || l.OrderIdentifier == "DO-001" {
			return fmt.Errorf("boom")
		}
		return nil
	})

	if len(result.Failures) != 2 {
		t.Fatalf("Failures = %d, want 2", len(result.Failures))
	}
	if result.Failures[0].OrderIdentifier != "DO-001" || result.Failures[1].OrderIdentifier != "DO-003" {
		t.Errorf("failures out of input order: %s, %s",
			result.Failures[0].OrderIdentifier, result.Failures[1].OrderIdentifier)
	}
}

func TestSubmitBatchEmpty(t *testing.T) {
	result := SubmitBatch(context.Background(), nil, func(ctx context.Context, l *domain.OrderLine) error {
		t.Error("submit called for empty batch")
		return nil
	})
	if result.SuccessCount != 0 || result.FailureCount != 0 {
		t.Errorf("empty batch result = %+v", result)
	}
}
