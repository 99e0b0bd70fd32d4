package workflow

import (
	"testing"

	"github.com/ssg-mis/dispatch-api/internal/domain"
)

func identifiers(lines []*domain.OrderLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.OrderIdentifier
	}
	return out
}

func TestResolvePendingSetDifference(t *testing.T) {
	// Prior stage recorded {A, B, C}, current stage processed {B}:
	// pending must be exactly {A, C}.
	candidates := []*domain.OrderLine{
		line("DO-001A", "c", "p", 1),
		line("DO-001B", "c", "p", 1),
		line("DO-001C", "c", "p", 1),
	}
	prior := []string{"DO-001A", "DO-001B", "DO-001C"}
	processed := []string{"DO-001B"}

	pending := ResolvePending(domain.StageCommitmentEntry, candidates, prior, processed, nil)

	got := identifiers(pending)
	want := []string{"DO-001A", "DO-001C"}
	if len(got) != len(want) {
		t.Fatalf("pending = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pending[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolvePendingRequiresPriorRecord(t *testing.T) {
	candidates := []*domain.OrderLine{
		line("DO-002", "c", "p", 1),
		line("DO-003", "c", "p", 1),
	}
	// Only DO-002 passed the prior stage
	prior := []string{"DO-002"}

	pending := ResolvePending(domain.StageCommitmentEntry, candidates, prior, nil, nil)

	if len(pending) != 1 || pending[0].OrderIdentifier != "DO-002" {
		t.Errorf("pending = %v, want [DO-002]", identifiers(pending))
	}
}

func TestResolvePendingFirstStageIgnoresPrior(t *testing.T) {
	candidates := []*domain.OrderLine{
		line("DO-004", "c", "p", 1),
		line("DO-005", "c", "p", 1),
	}
	processed := []string{"DO-004"}

	pending := ResolvePending(domain.StageOrderEntry, candidates, nil, processed, nil)

	if len(pending) != 1 || pending[0].OrderIdentifier != "DO-005" {
		t.Errorf("pending = %v, want [DO-005]", identifiers(pending))
	}
}

func TestResolvePendingRejectedIsTerminal(t *testing.T) {
	candidates := []*domain.OrderLine{
		line("DO-006", "c", "p", 1),
		line("DO-007", "c", "p", 1),
	}
	prior := []string{"DO-006", "DO-007"}

	pending := ResolvePending(domain.StageCommitmentReview, candidates, prior, nil, []string{"DO-007"})

	if len(pending) != 1 || pending[0].OrderIdentifier != "DO-006" {
		t.Errorf("pending = %v, want [DO-006]", identifiers(pending))
	}
}

func TestResolvePendingRejectedPriorDoesNotAdvance(t *testing.T) {
	// A rejection at the prior stage puts the line in both the prior set and
	// the terminal set; terminal wins.
	candidates := []*domain.OrderLine{line("DO-008", "c", "p", 1)}
	prior := []string{"DO-008"}

	pending := ResolvePending(domain.StageCommitmentReview, candidates, prior, nil, []string{"DO-008"})

	if len(pending) != 0 {
		t.Errorf("rejected line advanced to next stage: %v", identifiers(pending))
	}
}

func TestResolvePendingNormalizesIdentifiers(t *testing.T) {
	candidates := []*domain.OrderLine{line("do-009a", "c", "p", 1)}
	prior := []string{"DO-009A"}
	processed := []string{" DO-009A "}

	pending := ResolvePending(domain.StagePreApproval, candidates, prior, processed, nil)

	if len(pending) != 0 {
		t.Errorf("identifier case/whitespace mismatch leaked a processed line: %v", identifiers(pending))
	}
}

func TestResolvePendingExclusivity(t *testing.T) {
	// A line pending at the current stage must not also be pending at the
	// next stage before it is processed here.
	candidates := []*domain.OrderLine{line("DO-010", "c", "p", 1)}
	prior := []string{"DO-010"}

	atEntry := ResolvePending(domain.StageCommitmentEntry, candidates, prior, nil, nil)
	atPlanning := ResolvePending(domain.StageDispatchPlanning, candidates, nil, nil, nil)

	if len(atEntry) != 1 {
		t.Fatalf("line should be pending at commitment entry")
	}
	if len(atPlanning) != 0 {
		t.Errorf("line pending at two stages at once")
	}
}
