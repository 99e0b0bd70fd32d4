package workflow

import (
	"github.com/ssg-mis/dispatch-api/internal/domain"
)

// ResolvePending computes the lines currently eligible for action at a
// stage: lines recorded at the prior stage with no record for this stage
// yet. Rejected lines are terminal everywhere, which is also what excludes
// a line whose prior-stage record was a rejection. The inputs are complete
// identifier sets, not windows, so an old record never drops a line out of
// the difference. Comparisons run on the normalized full identifier; the
// result keeps the order of candidates.
//
// For the first stage prior is ignored: every candidate without a record
// for the stage is pending.
func ResolvePending(stage domain.Stage, candidates []*domain.OrderLine, prior, processed, rejected []string) []*domain.OrderLine {
	_, hasPrior := stage.Prev()

	priorSet := identifierSet(prior)
	processedSet := identifierSet(processed)
	terminal := identifierSet(rejected)

	var pending []*domain.OrderLine
	for _, line := range candidates {
		id := domain.NormalizeIdentifier(line.OrderIdentifier)
		if terminal[id] {
			continue
		}
		if hasPrior && !priorSet[id] {
			continue
		}
		if processedSet[id] {
			continue
		}
		pending = append(pending, line)
	}

	return pending
}

func identifierSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[domain.NormalizeIdentifier(id)] = true
	}
	return set
}
