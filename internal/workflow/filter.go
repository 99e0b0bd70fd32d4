package workflow

import (
	"time"

	"github.com/ssg-mis/dispatch-api/internal/domain"
)

// Due-status filter values compared against a date-only "today"
const (
	DueStatusOnTime  = "on-time"
	DueStatusExpired = "expired"
)

// PartyAll disables the counterparty filter
const PartyAll = "all"

// Criteria narrows a pending set before selection. Zero values disable the
// corresponding filter.
type Criteria struct {
	PartyName string
	StartDate *time.Time // inclusive, truncated to 00:00:00
	EndDate   *time.Time // inclusive, extended to 23:59:59
	DueStatus string     // "", "on-time" or "expired"
}

// IsZero reports whether no filter is active
func (c Criteria) IsZero() bool {
	return (c.PartyName == "" || c.PartyName == PartyAll) &&
		c.StartDate == nil && c.EndDate == nil && c.DueStatus == ""
}

// Filter narrows pending lines by counterparty, date range and due status.
// Pure: re-derivable on every criteria change, never mutates the input. A
// line with no reference timestamp always passes the date filter; a line
// with no due date is never expired, so it only shows in the on-time view.
func Filter(lines []*domain.OrderLine, c Criteria, now time.Time) []*domain.OrderLine {
	if c.IsZero() {
		out := make([]*domain.OrderLine, len(lines))
		copy(out, lines)
		return out
	}

	today := truncateToDay(now)

	var out []*domain.OrderLine
	for _, line := range lines {
		if c.PartyName != "" && c.PartyName != PartyAll && line.CustomerName != c.PartyName {
			continue
		}
		if !matchesDateRange(line.ReferenceTime(), c.StartDate, c.EndDate) {
			continue
		}
		if !matchesDueStatus(line.DeliveryDueDate, c.DueStatus, today) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func matchesDateRange(ref, start, end *time.Time) bool {
	if ref == nil {
		return true
	}
	if start != nil && ref.Before(truncateToDay(*start)) {
		return false
	}
	if end != nil {
		endOfDay := truncateToDay(*end).Add(24*time.Hour - time.Second)
		if ref.After(endOfDay) {
			return false
		}
	}
	return true
}

func matchesDueStatus(due *time.Time, status string, today time.Time) bool {
	if status == "" {
		return true
	}
	if due == nil {
		// A line without a due date can never be expired
		return status != DueStatusExpired
	}
	expired := truncateToDay(*due).Before(today)
	switch status {
	case DueStatusExpired:
		return expired
	case DueStatusOnTime:
		return !expired
	default:
		return true
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
