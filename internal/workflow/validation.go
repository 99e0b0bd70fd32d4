package workflow

import (
	"fmt"
	"strconv"

	"github.com/ssg-mis/dispatch-api/internal/domain"
	"github.com/ssg-mis/dispatch-api/pkg/errors"
)

// FieldRule declares one form-field requirement for a stage
type FieldRule struct {
	Name     string
	Required bool
	Numeric  bool // must parse as a number when present
}

// stageRules is the per-stage validation gate checked before any line is
// submitted. Failing validation aborts the entire batch with zero side
// effects.
var stageRules = map[domain.Stage][]FieldRule{
	domain.StageOrderEntry: {
		{Name: "delivery_purpose", Required: true},
		{Name: "quantity", Required: true, Numeric: true},
	},
	domain.StageCommitmentEntry: {
		{Name: "committed_quantity", Required: true, Numeric: true},
	},
	domain.StageDispatchPlanning: {
		{Name: "planned_dispatch_date", Required: true},
	},
	domain.StageVehicleAssignment: {
		{Name: "vehicle_number", Required: true},
		{Name: "driver_name", Required: true},
	},
	domain.StageLoading: {
		{Name: "loaded_quantity", Required: true, Numeric: true},
	},
	domain.StageInvoicing: {
		{Name: "invoice_number", Required: true},
		{Name: "invoice_amount", Numeric: true},
	},
	domain.StageGateOut: {
		{Name: "gate_pass_number", Required: true},
	},
	domain.StageDamageAdjustment: {
		{Name: "damage_quantity", Required: true, Numeric: true},
	},
	domain.StageCreditNote: {
		{Name: "credit_note_number", Required: true},
		{Name: "credit_note_date", Required: true},
		{Name: "credit_amount", Numeric: true},
	},
}

// ValidateForm checks the shared form data of a batch against the stage's
// rules. Numeric fields must parse as numbers or be empty.
func ValidateForm(stage domain.Stage, form map[string]string) error {
	fields := make(map[string]string)
	for _, rule := range stageRules[stage] {
		value := form[rule.Name]
		if rule.Required && value == "" {
			fields[rule.Name] = "required"
			continue
		}
		if rule.Numeric && value != "" {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				fields[rule.Name] = "must be a number"
			}
		}
	}
	if len(fields) > 0 {
		return &errors.ErrValidation{
			Message: fmt.Sprintf("validation failed for stage %s", stage.DisplayName()),
			Fields:  fields,
		}
	}
	return nil
}
