package workflow

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ssg-mis/dispatch-api/internal/domain"
	"github.com/ssg-mis/dispatch-api/pkg/errors"
)

func TestSelectionToggle(t *testing.T) {
	s := NewSelection()

	s.Toggle("DO-001")
	s.Toggle("DO-002")
	if !s.Has("DO-001") || !s.Has("DO-002") || s.Count() != 2 {
		t.Fatalf("toggle on failed: keys=%v", s.Keys())
	}

	s.Toggle("DO-001")
	if s.Has("DO-001") || s.Count() != 1 {
		t.Errorf("toggle off failed: keys=%v", s.Keys())
	}
	if got := s.Keys(); len(got) != 1 || got[0] != "DO-002" {
		t.Errorf("Keys() = %v, want [DO-002]", got)
	}
}

func TestSelectionToggleAll(t *testing.T) {
	displayed := []string{"DO-001", "DO-002", "DO-003"}

	s := NewSelection()
	s.Toggle("DO-002")

	// Partial selection: toggle-all selects everything displayed
	s.ToggleAll(displayed)
	if s.Count() != 3 {
		t.Fatalf("ToggleAll from partial = %d selected, want 3", s.Count())
	}

	// Full selection: toggle-all clears
	s.ToggleAll(displayed)
	if s.Count() != 0 {
		t.Errorf("ToggleAll from full = %d selected, want 0", s.Count())
	}
}

func TestOpenBatchDialog(t *testing.T) {
	groups := Group([]*domain.OrderLine{
		line("DO-001A", "c", "p", 1),
		line("DO-001B", "c", "p", 1),
		line("DO-002", "c", "p", 1),
	})

	sel := NewSelection()
	sel.Toggle("DO-002")
	sel.Toggle("DO-001")

	// First selected group in display order wins, not insertion order
	d, err := OpenBatchDialog(sel, groups)
	if err != nil {
		t.Fatalf("OpenBatchDialog: %v", err)
	}
	if d.Group.GroupKey != "DO-001" {
		t.Errorf("dialog group = %q, want DO-001", d.Group.GroupKey)
	}

	// All member lines start selected
	if got := d.SelectedMembers(); len(got) != 2 {
		t.Errorf("pre-selected members = %d, want 2", len(got))
	}
}

func TestOpenBatchDialogEmptySelection(t *testing.T) {
	_, err := OpenBatchDialog(NewSelection(), nil)
	if _, ok := err.(*errors.ErrEmptySelection); !ok {
		t.Errorf("err = %v, want ErrEmptySelection", err)
	}
}

func TestOpenBatchDialogUnknownKey(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("DO-404")
	_, err := OpenBatchDialog(sel, nil)
	if _, ok := err.(*errors.ErrNotFound); !ok {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBatchDialogNarrowTo(t *testing.T) {
	a := line("DO-001A", "c", "p", 1)
	b := line("DO-001B", "c", "p", 1)
	groups := Group([]*domain.OrderLine{a, b})

	sel := NewSelection()
	sel.Toggle("DO-001")
	d, err := OpenBatchDialog(sel, groups)
	if err != nil {
		t.Fatal(err)
	}

	// Unknown IDs are ignored, not added
	d.NarrowTo([]uuid.UUID{b.ID, uuid.New()})

	got := d.SelectedMembers()
	if len(got) != 1 || got[0].ID != b.ID {
		t.Errorf("narrowed members = %v, want only DO-001B", identifiers(got))
	}
}
