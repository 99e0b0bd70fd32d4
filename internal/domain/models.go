package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderLine is one unit of a single product within one order. Created once at
// order entry and mutated additively as each stage writes its own fields;
// never deleted. Corrections (damage, credit notes) are new fields on the
// same line, not new rows.
type OrderLine struct {
	ID              uuid.UUID
	OrderIdentifier string // normalized, e.g. "DO-022A"
	CustomerName    string
	ProductName     string
	Quantity        float64
	WeightKg        float64
	Rate            float64
	DeliveryPurpose string

	// Stage-specific fields, written by the stage that owns them
	DeliveryDueDate     *time.Time
	PlannedDispatchDate *time.Time
	VehicleNumber       *string
	DriverName          *string
	InvoiceNumber       *string
	DamageQuantity      *float64
	CreditNoteNumber    *string
	CreditNoteDate      *time.Time
	AttachmentURL       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BaseIdentifier returns the group key shared by sibling lines of one order
func (l *OrderLine) BaseIdentifier() string {
	return BaseOrderIdentifier(l.OrderIdentifier)
}

// ReferenceTime is the timestamp the date-range filter compares against.
// Falls through planned dispatch date, then delivery due date; nil means the
// line always passes the date filter.
func (l *OrderLine) ReferenceTime() *time.Time {
	if l.PlannedDispatchDate != nil {
		return l.PlannedDispatchDate
	}
	if l.DeliveryDueDate != nil {
		return l.DeliveryDueDate
	}
	return nil
}

// OrderGroup is a view-level aggregate of the lines sharing one base order
// identifier. Recomputed on every fetch, never persisted. Header attributes
// come from the first member and are assumed homogeneous across members.
type OrderGroup struct {
	GroupKey        string
	CustomerName    string
	DeliveryPurpose string
	DeliveryDueDate *time.Time
	Members         []*OrderLine
}

// MemberCount returns the number of lines in the group
func (g *OrderGroup) MemberCount() int {
	return len(g.Members)
}

// TotalQuantity sums the quantity over all member lines
func (g *OrderGroup) TotalQuantity() float64 {
	var total float64
	for _, m := range g.Members {
		total += m.Quantity
	}
	return total
}

// StageHistoryEntry records that a line completed a stage. Created exactly
// once per stage action and immutable thereafter; the sole source of truth
// for "has this item been processed at this stage".
type StageHistoryEntry struct {
	ID              uuid.UUID
	OrderIdentifier string // full line identifier, suffix included
	Stage           Stage
	Status          StageStatus
	ProcessedBy     string
	Payload         map[string]interface{} // JSONB, stage-specific form data
	ProductCount    int
	CreatedAt       time.Time
}

// IdempotencyKey guards submit endpoints against duplicate posts of the
// same batch
type IdempotencyKey struct {
	Key         string
	RequestHash string
	CreatedAt   time.Time
}

// LineFailure reports one failed line submission within a batch
type LineFailure struct {
	LineID          uuid.UUID `json:"line_id"`
	OrderIdentifier string    `json:"order_identifier"`
	Error           string    `json:"error"`
}

// BatchResult aggregates per-line outcomes of one batch submission. A batch
// with some lines failing is not rolled back: successful lines are
// committed, failed lines remain pending.
type BatchResult struct {
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	Failures     []LineFailure `json:"failures"`
}
