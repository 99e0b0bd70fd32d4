package domain

// Stage identifies one step of the dispatch workflow
type Stage string

const (
	StageOrderEntry          Stage = "ORDER_ENTRY"
	StagePreApproval         Stage = "PRE_APPROVAL"
	StageCommitmentReview    Stage = "COMMITMENT_REVIEW"
	StageCommitmentEntry     Stage = "COMMITMENT_ENTRY"
	StageDispatchPlanning    Stage = "DISPATCH_PLANNING"
	StageVehicleAssignment   Stage = "VEHICLE_ASSIGNMENT"
	StageLoading             Stage = "LOADING"
	StageSecurityCheck       Stage = "SECURITY_CHECK"
	StageInvoicing           Stage = "INVOICING"
	StageGateOut             Stage = "GATE_OUT"
	StageReceiptConfirmation Stage = "RECEIPT_CONFIRMATION"
	StageDamageAdjustment    Stage = "DAMAGE_ADJUSTMENT"
	StageCreditNote          Stage = "CREDIT_NOTE"
)

// StageSequence is the fixed order items move through. The sequence is not
// configurable at runtime.
var StageSequence = []Stage{
	StageOrderEntry,
	StagePreApproval,
	StageCommitmentReview,
	StageCommitmentEntry,
	StageDispatchPlanning,
	StageVehicleAssignment,
	StageLoading,
	StageSecurityCheck,
	StageInvoicing,
	StageGateOut,
	StageReceiptConfirmation,
	StageDamageAdjustment,
	StageCreditNote,
}

// stageSlugs maps URL slugs to stages
var stageSlugs = map[string]Stage{
	"order-entry":          StageOrderEntry,
	"pre-approval":         StagePreApproval,
	"commitment-review":    StageCommitmentReview,
	"commitment-entry":     StageCommitmentEntry,
	"dispatch-planning":    StageDispatchPlanning,
	"vehicle-assignment":   StageVehicleAssignment,
	"loading":              StageLoading,
	"security-check":       StageSecurityCheck,
	"invoicing":            StageInvoicing,
	"gate-out":             StageGateOut,
	"receipt-confirmation": StageReceiptConfirmation,
	"damage-adjustment":    StageDamageAdjustment,
	"credit-note":          StageCreditNote,
}

var stageDisplayNames = map[Stage]string{
	StageOrderEntry:          "Order Entry",
	StagePreApproval:         "Pre-Approval",
	StageCommitmentReview:    "Commitment Review",
	StageCommitmentEntry:     "Commitment Entry",
	StageDispatchPlanning:    "Dispatch Planning",
	StageVehicleAssignment:   "Vehicle Assignment",
	StageLoading:             "Loading",
	StageSecurityCheck:       "Security Check",
	StageInvoicing:           "Invoicing",
	StageGateOut:             "Gate Out",
	StageReceiptConfirmation: "Receipt Confirmation",
	StageDamageAdjustment:    "Damage Adjustment",
	StageCreditNote:          "Credit Note",
}

// reviewStages accept an explicit approve/reject decision; all other stages
// record Completed.
var reviewStages = map[Stage]bool{
	StagePreApproval:         true,
	StageCommitmentReview:    true,
	StageSecurityCheck:       true,
	StageReceiptConfirmation: true,
}

// ParseStage resolves a URL slug or a raw stage constant
func ParseStage(s string) (Stage, bool) {
	if stage, ok := stageSlugs[s]; ok {
		return stage, true
	}
	stage := Stage(s)
	if stage.IsValid() {
		return stage, true
	}
	return "", false
}

// IsValid checks if the stage is part of the workflow
func (s Stage) IsValid() bool {
	_, ok := stageDisplayNames[s]
	return ok
}

// IsReview reports whether the stage records an approve/reject decision
func (s Stage) IsReview() bool {
	return reviewStages[s]
}

// DisplayName returns the operator-facing stage name
func (s Stage) DisplayName() string {
	if name, ok := stageDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

// Slug returns the URL slug for the stage
func (s Stage) Slug() string {
	for slug, stage := range stageSlugs {
		if stage == s {
			return slug
		}
	}
	return string(s)
}

func (s Stage) index() int {
	for i, stage := range StageSequence {
		if stage == s {
			return i
		}
	}
	return -1
}

// Prev returns the immediately preceding stage. The first stage has none.
func (s Stage) Prev() (Stage, bool) {
	i := s.index()
	if i <= 0 {
		return "", false
	}
	return StageSequence[i-1], true
}

// Next returns the immediately following stage. The last stage has none.
func (s Stage) Next() (Stage, bool) {
	i := s.index()
	if i < 0 || i >= len(StageSequence)-1 {
		return "", false
	}
	return StageSequence[i+1], true
}

// StageStatus is the terminal outcome recorded for a line at a stage
type StageStatus string

const (
	StatusApproved  StageStatus = "APPROVED"
	StatusRejected  StageStatus = "REJECTED"
	StatusCompleted StageStatus = "COMPLETED"
)

// IsValid checks if the status is one of the recordable outcomes
func (s StageStatus) IsValid() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCompleted:
		return true
	default:
		return false
	}
}

// CountsAsDone reports whether the status qualifies the line for the next
// stage's pending set. Rejected lines are terminal and never reappear.
func (s StageStatus) CountsAsDone() bool {
	return s == StatusApproved || s == StatusCompleted
}
