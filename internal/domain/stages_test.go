package domain

import "testing"

func TestStageSequenceNavigation(t *testing.T) {
	if _, ok := StageOrderEntry.Prev(); ok {
		t.Error("first stage should have no Prev()")
	}
	if _, ok := StageCreditNote.Next(); ok {
		t.Error("last stage should have no Next()")
	}

	prev, ok := StageCommitmentEntry.Prev()
	if !ok || prev != StageCommitmentReview {
		t.Errorf("StageCommitmentEntry.Prev() = %v, want %v", prev, StageCommitmentReview)
	}

	next, ok := StageGateOut.Next()
	if !ok || next != StageReceiptConfirmation {
		t.Errorf("StageGateOut.Next() = %v, want %v", next, StageReceiptConfirmation)
	}

	// Walking Next() from the first stage visits every stage exactly once
	visited := []Stage{StageOrderEntry}
	current := StageOrderEntry
	for {
		n, ok := current.Next()
		if !ok {
			break
		}
		visited = append(visited, n)
		current = n
	}
	if len(visited) != len(StageSequence) {
		t.Errorf("walked %d stages, want %d", len(visited), len(StageSequence))
	}
}

func TestParseStage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Stage
		ok    bool
	}{
		{name: "slug", input: "commitment-review", want: StageCommitmentReview, ok: true},
		{name: "constant", input: "GATE_OUT", want: StageGateOut, ok: true},
		{name: "unknown", input: "packing", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseStage(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseStage(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseStage(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugRoundTrip(t *testing.T) {
	for _, stage := range StageSequence {
		got, ok := ParseStage(stage.Slug())
		if !ok || got != stage {
			t.Errorf("ParseStage(%q) = %v, %v; want %v", stage.Slug(), got, ok, stage)
		}
	}
}

func TestStageStatusCountsAsDone(t *testing.T) {
	if !StatusApproved.CountsAsDone() {
		t.Error("APPROVED should count as done")
	}
	if !StatusCompleted.CountsAsDone() {
		t.Error("COMPLETED should count as done")
	}
	if StatusRejected.CountsAsDone() {
		t.Error("REJECTED must not count as done")
	}
}

func TestReviewStages(t *testing.T) {
	reviews := []Stage{StagePreApproval, StageCommitmentReview, StageSecurityCheck, StageReceiptConfirmation}
	for _, s := range reviews {
		if !s.IsReview() {
			t.Errorf("%s should be a review stage", s)
		}
	}
	if StageInvoicing.IsReview() {
		t.Error("Invoicing should not be a review stage")
	}
}
