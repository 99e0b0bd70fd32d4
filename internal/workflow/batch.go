package workflow

import (
	"context"
	"sync"

	"github.com/ssg-mis/dispatch-api/internal/domain"
)

// LineSubmitFunc performs one independent line submission. Submissions within
// a batch have no ordering dependency between lines.
type LineSubmitFunc func(ctx context.Context, line *domain.OrderLine) error

// SubmitBatch fans a batch action out into one submission per line and waits
// for all of them to settle before reporting aggregate results. Per-line
// failures are isolated: they never abort sibling submissions and there is
// no rollback of lines that succeeded. Failures are reported in input order.
func SubmitBatch(ctx context.Context, lines []*domain.OrderLine, submit LineSubmitFunc) *domain.BatchResult {
	errs := make([]error, len(lines))

	var wg sync.WaitGroup
	for i, line := range lines {
		wg.Add(1)
		go func(i int, line *domain.OrderLine) {
			defer wg.Done()
			errs[i] = submit(ctx, line)
		}(i, line)
	}
	wg.Wait()

	result := &domain.BatchResult{}
	for i, line := range lines {
		if errs[i] != nil {
			result.FailureCount++
			result.Failures = append(result.Failures, domain.LineFailure{
				LineID:          line.ID,
				OrderIdentifier: line.OrderIdentifier,
				Error:           errs[i].Error(),
			})
			continue
		}
		result.SuccessCount++
	}
	return result
}
