package workflow

import (
	"github.com/google/uuid"

	"github.com/ssg-mis/dispatch-api/internal/domain"
	"github.com/ssg-mis/dispatch-api/pkg/errors"
)

// Selection tracks the group keys an operator has marked for batch action.
// Reset after a successful submission and on dialog close.
type Selection struct {
	keys []string
	set  map[string]bool
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{set: make(map[string]bool)}
}

// Toggle flips membership of one key, keeping insertion order for the rest
func (s *Selection) Toggle(key string) {
	if s.set[key] {
		delete(s.set, key)
		for i, k := range s.keys {
			if k == key {
				s.keys = append(s.keys[:i], s.keys[i+1:]...)
				break
			}
		}
		return
	}
	s.set[key] = true
	s.keys = append(s.keys, key)
}

// ToggleAll selects every displayed key, or clears the selection entirely if
// all of them are already selected. Full toggle, not additive.
func (s *Selection) ToggleAll(displayed []string) {
	allSelected := len(displayed) > 0
	for _, k := range displayed {
		if !s.set[k] {
			allSelected = false
			break
		}
	}
	if allSelected {
		s.Clear()
		return
	}
	s.Clear()
	for _, k := range displayed {
		s.Toggle(k)
	}
}

// Has reports whether a key is selected
func (s *Selection) Has(key string) bool {
	return s.set[key]
}

// Keys returns the selected keys in insertion order
func (s *Selection) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Count returns the number of selected keys
func (s *Selection) Count() int {
	return len(s.keys)
}

// Clear resets the selection
func (s *Selection) Clear() {
	s.keys = nil
	s.set = make(map[string]bool)
}

// BatchDialog narrows a batch action to specific lines within one group.
// The dialog owns a subset of the group's member line IDs; submission
// iterates that subset independently.
type BatchDialog struct {
	Group    *domain.OrderGroup
	selected map[uuid.UUID]bool
}

// OpenBatchDialog resolves a non-empty selection to the first selected group
// in display order. Batch UI processes one order group per invocation, with
// all its lines pre-selected.
func OpenBatchDialog(sel *Selection, groups []*domain.OrderGroup) (*BatchDialog, error) {
	if sel == nil || sel.Count() == 0 {
		return nil, &errors.ErrEmptySelection{}
	}
	for _, g := range groups {
		if sel.Has(g.GroupKey) {
			d := &BatchDialog{
				Group:    g,
				selected: make(map[uuid.UUID]bool, len(g.Members)),
			}
			for _, m := range g.Members {
				d.selected[m.ID] = true
			}
			return d, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "order group", ID: sel.Keys()[0]}
}

// NarrowTo restricts the sub-batch to the given member line IDs. IDs outside
// the group are ignored.
func (d *BatchDialog) NarrowTo(lineIDs []uuid.UUID) {
	keep := make(map[uuid.UUID]bool, len(lineIDs))
	for _, id := range lineIDs {
		keep[id] = true
	}
	for _, m := range d.Group.Members {
		d.selected[m.ID] = keep[m.ID]
	}
}

// SelectedMembers returns the lines still selected, in member order
func (d *BatchDialog) SelectedMembers() []*domain.OrderLine {
	var out []*domain.OrderLine
	for _, m := range d.Group.Members {
		if d.selected[m.ID] {
			out = append(out, m)
		}
	}
	return out
}
