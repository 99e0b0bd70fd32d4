// Package workflow implements the stage-transition and work-item derivation
// engine: grouping raw order lines into actionable order groups, resolving
// per-stage pending sets, filtering, selection tracking, and batch fan-out.
// Everything here is pure in-memory logic; persistence stays behind the
// repository interfaces.
package workflow

import (
	"github.com/ssg-mis/dispatch-api/internal/domain"
)

// Group collapses a flat list of order lines into order-level groups keyed by
// the base order identifier. Group order and member order follow first
// appearance in the input, so the output is stable and deterministic for a
// stable input order. The first line seen for a key seeds the group's header
// attributes; later lines only contribute to the member list.
func Group(lines []*domain.OrderLine) []*domain.OrderGroup {
	var groups []*domain.OrderGroup
	byKey := make(map[string]*domain.OrderGroup)

	for _, line := range lines {
		key := line.BaseIdentifier()
		group, ok := byKey[key]
		if !ok {
			group = &domain.OrderGroup{
				GroupKey:        key,
				CustomerName:    line.CustomerName,
				DeliveryPurpose: line.DeliveryPurpose,
				DeliveryDueDate: line.DeliveryDueDate,
			}
			byKey[key] = group
			groups = append(groups, group)
		}
		group.Members = append(group.Members, line)
	}

	return groups
}
