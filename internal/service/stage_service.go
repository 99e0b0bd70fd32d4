package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ssg-mis/dispatch-api/internal/domain"
	"github.com/ssg-mis/dispatch-api/internal/events"
	"github.com/ssg-mis/dispatch-api/internal/repository"
	"github.com/ssg-mis/dispatch-api/internal/workflow"
	"github.com/ssg-mis/dispatch-api/pkg/errors"
)

// StageService orchestrates pending resolution and batch submission for the
// dispatch workflow
type StageService struct {
	repos        *repository.Repositories
	publisher    events.Publisher
	subject      string
	pendingLimit int
	logger       *zap.Logger
}

// NewStageService creates a new stage service
func NewStageService(repos *repository.Repositories, publisher events.Publisher, subject string, pendingLimit int, logger *zap.Logger) *StageService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if pendingLimit <= 0 {
		pendingLimit = 500
	}
	return &StageService{
		repos:        repos,
		publisher:    publisher,
		subject:      subject,
		pendingLimit: pendingLimit,
		logger:       logger,
	}
}

// ResolvePending computes the groups currently eligible for action at a
// stage, filtered by the given criteria. Always served from the source of
// truth; nothing is cached between calls.
func (s *StageService) ResolvePending(ctx context.Context, stage domain.Stage, criteria workflow.Criteria) ([]*domain.OrderGroup, error) {
	candidates, err := s.repos.OrderLine.List(ctx, s.pendingLimit)
	if err != nil {
		return nil, err
	}

	// History sides of the set difference are keyed-only and unwindowed;
	// an old approved line must never fall out of the pending view
	var prior []string
	if prev, ok := stage.Prev(); ok {
		prior, err = s.repos.StageHistory.ListIdentifiersByStage(ctx, prev)
		if err != nil {
			return nil, err
		}
	}

	processed, err := s.repos.StageHistory.ListIdentifiersByStage(ctx, stage)
	if err != nil {
		return nil, err
	}

	rejected, err := s.repos.StageHistory.ListRejectedIdentifiers(ctx)
	if err != nil {
		return nil, err
	}

	pending := workflow.ResolvePending(stage, candidates, prior, processed, rejected)
	pending = workflow.Filter(pending, criteria, time.Now())

	return workflow.Group(pending), nil
}

// History returns the stage's history entries, newest first
func (s *StageService) History(ctx context.Context, stage domain.Stage, limit int) ([]*domain.StageHistoryEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.repos.StageHistory.ListByStage(ctx, stage, limit)
}

// PrepareBatch resolves the current pending groups and opens a batch over
// the first selected one, all member lines pre-selected
func (s *StageService) PrepareBatch(ctx context.Context, stage domain.Stage, selectedKeys []string) (*domain.OrderGroup, error) {
	groups, err := s.ResolvePending(ctx, stage, workflow.Criteria{})
	if err != nil {
		return nil, err
	}

	sel := workflow.NewSelection()
	for _, k := range selectedKeys {
		sel.Toggle(domain.BaseOrderIdentifier(k))
	}

	dialog, err := workflow.OpenBatchDialog(sel, groups)
	if err != nil {
		return nil, err
	}
	return dialog.Group, nil
}

// SubmitBatch validates the shared form once, then fans the action out into
// one independent submission per selected line. Partial failure is reported,
// never rolled back: committed lines stay committed and failed lines remain
// pending for the next resolution.
func (s *StageService) SubmitBatch(ctx context.Context, stage domain.Stage, req BatchSubmitRequest) (*domain.BatchResult, error) {
	status, err := resolveStatus(stage, req.Status)
	if err != nil {
		return nil, err
	}

	// Validation gate: nothing is submitted unless the whole form passes
	if status != domain.StatusRejected {
		if err := workflow.ValidateForm(stage, req.Form); err != nil {
			return nil, err
		}
	}

	ids := make([]uuid.UUID, 0, len(req.LineIDs))
	for _, raw := range req.LineIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, &errors.ErrValidation{
				Message: "invalid line id",
				Fields:  map[string]string{"line_ids": raw},
			}
		}
		ids = append(ids, id)
	}

	lines, err := s.repos.OrderLine.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(lines) != len(ids) {
		return nil, &errors.ErrNotFound{Resource: "order line", ID: "one or more selected lines"}
	}

	result := workflow.SubmitBatch(ctx, lines, func(ctx context.Context, line *domain.OrderLine) error {
		return s.submitLine(ctx, stage, line, status, req.ProcessedBy, req.Form)
	})

	if result.SuccessCount > 0 {
		s.publishCompleted(ctx, stage, lines, result, req.ProcessedBy)
	}

	s.logger.Info("Batch submitted",
		zap.String("stage", string(stage)),
		zap.Int("success_count", result.SuccessCount),
		zap.Int("failure_count", result.FailureCount),
	)

	return result, nil
}

// SubmitLine submits a single line for a stage; the unit the batch fans out
// over, also exposed directly over HTTP
func (s *StageService) SubmitLine(ctx context.Context, stage domain.Stage, lineID uuid.UUID, req LineSubmitRequest) error {
	status, err := resolveStatus(stage, req.Status)
	if err != nil {
		return err
	}

	if status != domain.StatusRejected {
		if err := workflow.ValidateForm(stage, req.Form); err != nil {
			return err
		}
	}

	line, err := s.repos.OrderLine.GetByID(ctx, lineID)
	if err != nil {
		return err
	}

	return s.submitLine(ctx, stage, line, status, req.ProcessedBy, req.Form)
}

// submitLine is one independent submission: re-checks the line is still
// unprocessed and eligible, applies the stage's fields to the row, then
// appends the history entry that makes the transition visible to the
// resolver. The server enforces the same eligibility the pending view
// displays, so a direct single-line POST cannot skip a stage.
func (s *StageService) submitLine(ctx context.Context, stage domain.Stage, line *domain.OrderLine, status domain.StageStatus, processedBy string, form map[string]string) error {
	exists, err := s.repos.StageHistory.ExistsForStage(ctx, stage, line.OrderIdentifier)
	if err != nil {
		return err
	}
	if exists {
		return &errors.ErrAlreadyProcessed{
			OrderIdentifier: line.OrderIdentifier,
			Stage:           string(stage),
		}
	}

	rejected, err := s.repos.StageHistory.HasRejection(ctx, line.OrderIdentifier)
	if err != nil {
		return err
	}
	if rejected {
		return &errors.ErrNotEligible{
			OrderIdentifier: line.OrderIdentifier,
			Stage:           string(stage),
			Reason:          "rejected at an earlier stage",
		}
	}

	if prev, ok := stage.Prev(); ok {
		cleared, err := s.repos.StageHistory.ExistsForStage(ctx, prev, line.OrderIdentifier)
		if err != nil {
			return err
		}
		if !cleared {
			return &errors.ErrNotEligible{
				OrderIdentifier: line.OrderIdentifier,
				Stage:           string(stage),
				Reason:          "prior stage not completed",
			}
		}
	}

	if status != domain.StatusRejected {
		applyStageFields(line, stage, form)
		if err := s.repos.OrderLine.Update(ctx, line); err != nil {
			return err
		}
	}

	payload := make(map[string]interface{}, len(form))
	for k, v := range form {
		payload[k] = v
	}

	return s.repos.StageHistory.Append(ctx, &domain.StageHistoryEntry{
		OrderIdentifier: line.OrderIdentifier,
		Stage:           stage,
		Status:          status,
		ProcessedBy:     processedBy,
		Payload:         payload,
		ProductCount:    1,
	})
}

func (s *StageService) publishCompleted(ctx context.Context, stage domain.Stage, lines []*domain.OrderLine, result *domain.BatchResult, processedBy string) {
	failed := make(map[uuid.UUID]bool, len(result.Failures))
	for _, f := range result.Failures {
		failed[f.LineID] = true
	}

	event := StageCompletedEvent{
		Stage:        string(stage),
		SuccessCount: result.SuccessCount,
		FailureCount: result.FailureCount,
		ProcessedBy:  processedBy,
	}
	for _, line := range lines {
		if !failed[line.ID] {
			event.Identifiers = append(event.Identifiers, line.OrderIdentifier)
		}
	}

	msg, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, s.subject, msg); err != nil {
		s.logger.Warn("Failed to publish stage-completed event",
			zap.String("stage", string(stage)), zap.Error(err))
	}
}

// resolveStatus picks the recorded outcome: review stages take an explicit
// approve/reject decision, all other stages record Completed
func resolveStatus(stage domain.Stage, requested string) (domain.StageStatus, error) {
	requested = strings.ToLower(strings.TrimSpace(requested))

	if stage.IsReview() {
		switch requested {
		case "", "approved":
			return domain.StatusApproved, nil
		case "rejected":
			return domain.StatusRejected, nil
		default:
			return "", &errors.ErrValidation{
				Message: "review stages accept approved or rejected",
				Fields:  map[string]string{"status": requested},
			}
		}
	}

	switch requested {
	case "", "completed":
		return domain.StatusCompleted, nil
	default:
		return "", &errors.ErrValidation{
			Message: "non-review stages record completed",
			Fields:  map[string]string{"status": requested},
		}
	}
}

// applyStageFields writes the stage's own fields onto the line. Stages only
// add; nothing written by an earlier stage is cleared.
func applyStageFields(line *domain.OrderLine, stage domain.Stage, form map[string]string) {
	switch stage {
	case domain.StageOrderEntry:
		if v := form["delivery_purpose"]; v != "" {
			line.DeliveryPurpose = v
		}
		if due, ok := parseDate(form["delivery_due_date"]); ok {
			line.DeliveryDueDate = &due
		}
	case domain.StageDispatchPlanning:
		if planned, ok := parseDate(form["planned_dispatch_date"]); ok {
			line.PlannedDispatchDate = &planned
		}
	case domain.StageVehicleAssignment:
		if v := form["vehicle_number"]; v != "" {
			line.VehicleNumber = &v
		}
		if v := form["driver_name"]; v != "" {
			line.DriverName = &v
		}
	case domain.StageInvoicing:
		if v := form["invoice_number"]; v != "" {
			line.InvoiceNumber = &v
		}
	case domain.StageDamageAdjustment:
		if qty, ok := parseFloat(form["damage_quantity"]); ok {
			line.DamageQuantity = &qty
		}
	case domain.StageCreditNote:
		if v := form["credit_note_number"]; v != "" {
			line.CreditNoteNumber = &v
		}
		if date, ok := parseDate(form["credit_note_date"]); ok {
			line.CreditNoteDate = &date
		}
	}

	if v := form["attachment_url"]; v != "" {
		line.AttachmentURL = &v
	}
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
