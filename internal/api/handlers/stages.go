package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ssg-mis/dispatch-api/internal/api/middleware"
	"github.com/ssg-mis/dispatch-api/internal/domain"
	"github.com/ssg-mis/dispatch-api/internal/repository"
	"github.com/ssg-mis/dispatch-api/internal/service"
	"github.com/ssg-mis/dispatch-api/internal/workflow"
	"github.com/ssg-mis/dispatch-api/pkg/errors"
)

// parseStageParam resolves the :stage path parameter
func parseStageParam(c *gin.Context) (domain.Stage, bool) {
	stage, ok := domain.ParseStage(c.Param("stage"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   (&errors.ErrInvalidStage{Name: c.Param("stage")}).Error(),
		})
		return "", false
	}
	return stage, true
}

// parseCriteria reads the filter query parameters
func parseCriteria(c *gin.Context) workflow.Criteria {
	criteria := workflow.Criteria{
		PartyName: c.Query("party"),
		DueStatus: c.Query("status"),
	}
	if v := c.Query("start_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			criteria.StartDate = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			criteria.EndDate = &t
		}
	}
	return criteria
}

// GroupResponse is the pending-list view of one order group
type GroupResponse struct {
	GroupKey        string         `json:"group_key"`
	CustomerName    string         `json:"customer_name"`
	DeliveryPurpose string         `json:"delivery_purpose,omitempty"`
	DeliveryDueDate *string        `json:"delivery_due_date,omitempty"`
	MemberCount     int            `json:"member_count"`
	TotalQuantity   float64        `json:"total_quantity"`
	Members         []LineResponse `json:"members"`
}

// LineResponse is one order line within a group
type LineResponse struct {
	ID              string   `json:"id"`
	OrderIdentifier string   `json:"order_identifier"`
	CustomerName    string   `json:"customer_name"`
	ProductName     string   `json:"product_name"`
	Quantity        float64  `json:"quantity"`
	WeightKg        float64  `json:"weight_kg"`
	Rate            float64  `json:"rate"`
	VehicleNumber   *string  `json:"vehicle_number,omitempty"`
	DriverName      *string  `json:"driver_name,omitempty"`
	InvoiceNumber   *string  `json:"invoice_number,omitempty"`
	DamageQuantity  *float64 `json:"damage_quantity,omitempty"`
	AttachmentURL   *string  `json:"attachment_url,omitempty"`
}

func toGroupResponse(g *domain.OrderGroup) GroupResponse {
	resp := GroupResponse{
		GroupKey:        g.GroupKey,
		CustomerName:    g.CustomerName,
		DeliveryPurpose: g.DeliveryPurpose,
		MemberCount:     g.MemberCount(),
		TotalQuantity:   g.TotalQuantity(),
		Members:         make([]LineResponse, len(g.Members)),
	}
	if g.DeliveryDueDate != nil {
		due := g.DeliveryDueDate.Format("2006-01-02")
		resp.DeliveryDueDate = &due
	}
	for i, m := range g.Members {
		resp.Members[i] = LineResponse{
			ID:              m.ID.String(),
			OrderIdentifier: m.OrderIdentifier,
			CustomerName:    m.CustomerName,
			ProductName:     m.ProductName,
			Quantity:        m.Quantity,
			WeightKg:        m.WeightKg,
			Rate:            m.Rate,
			VehicleNumber:   m.VehicleNumber,
			DriverName:      m.DriverName,
			InvoiceNumber:   m.InvoiceNumber,
			DamageQuantity:  m.DamageQuantity,
			AttachmentURL:   m.AttachmentURL,
		}
	}
	return resp
}

// HandleListStages handles GET /v1/stages
func HandleListStages() gin.HandlerFunc {
	return func(c *gin.Context) {
		stages := make([]gin.H, len(domain.StageSequence))
		for i, s := range domain.StageSequence {
			stages[i] = gin.H{
				"slug":   s.Slug(),
				"name":   s.DisplayName(),
				"review": s.IsReview(),
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"stages": stages}})
	}
}

// HandleGetPending handles GET /v1/stages/:stage/pending
func HandleGetPending(stageSvc *service.StageService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stage, ok := parseStageParam(c)
		if !ok {
			return
		}

		groups, err := stageSvc.ResolvePending(c.Request.Context(), stage, parseCriteria(c))
		if err != nil {
			logger.Error("Failed to resolve pending set",
				zap.String("stage", string(stage)), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
			return
		}

		groupResponses := make([]GroupResponse, len(groups))
		for i, g := range groups {
			groupResponses[i] = toGroupResponse(g)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"groups": groupResponses},
		})
	}
}

// HandleGetHistory handles GET /v1/stages/:stage/history
func HandleGetHistory(stageSvc *service.StageService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stage, ok := parseStageParam(c)
		if !ok {
			return
		}

		limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
		if err != nil || limit < 1 {
			limit = 100
		}

		entries, err := stageSvc.History(c.Request.Context(), stage, limit)
		if err != nil {
			logger.Error("Failed to fetch stage history",
				zap.String("stage", string(stage)), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
			return
		}

		historyResponses := make([]gin.H, len(entries))
		for i, e := range entries {
			historyResponses[i] = gin.H{
				"id":               e.ID.String(),
				"order_identifier": e.OrderIdentifier,
				"stage":            e.Stage.Slug(),
				"status":           e.Status,
				"processed_by":     e.ProcessedBy,
				"payload":          e.Payload,
				"product_count":    e.ProductCount,
				"created_at":       e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"history": historyResponses},
		})
	}
}

// HandleBatchPreview handles GET /v1/stages/:stage/batch-preview
func HandleBatchPreview(stageSvc *service.StageService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stage, ok := parseStageParam(c)
		if !ok {
			return
		}

		keysParam := c.Query("keys")
		var keys []string
		for _, k := range strings.Split(keysParam, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}

		group, err := stageSvc.PrepareBatch(c.Request.Context(), stage, keys)
		if err != nil {
			switch err.(type) {
			case *errors.ErrEmptySelection:
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			case *errors.ErrNotFound:
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			default:
				logger.Error("Failed to prepare batch", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"group": toGroupResponse(group)},
		})
	}
}

// HandleSubmitBatch handles POST /v1/stages/:stage/submit
func HandleSubmitBatch(stageSvc *service.StageService, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stage, ok := parseStageParam(c)
		if !ok {
			return
		}

		var req service.BatchSubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		result, err := stageSvc.SubmitBatch(c.Request.Context(), stage, req)
		if err != nil {
			respondSubmitError(c, logger, err)
			return
		}

		status := http.StatusOK
		if result.SuccessCount == 0 {
			// Total failure: no state was mutated and the idempotency key
			// stays unconsumed, so the client retries with the same key
			status = http.StatusBadGateway
		} else {
			storeIdempotencyKey(c, repos, logger)
		}
		c.JSON(status, gin.H{
			"success": result.SuccessCount > 0,
			"data":    result,
		})
	}
}

// HandleSubmitLine handles POST /v1/stages/:stage/submit/:id
func HandleSubmitLine(stageSvc *service.StageService, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stage, ok := parseStageParam(c)
		if !ok {
			return
		}

		lineID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid line id"})
			return
		}

		var req service.LineSubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if err := stageSvc.SubmitLine(c.Request.Context(), stage, lineID, req); err != nil {
			respondSubmitError(c, logger, err)
			return
		}

		storeIdempotencyKey(c, repos, logger)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// storeIdempotencyKey records the request's idempotency key once the
// submission mutated state. A key is never consumed by a failed submission.
func storeIdempotencyKey(c *gin.Context, repos *repository.Repositories, logger *zap.Logger) {
	key, requestHash := middleware.GetIdempotencyInfo(c)
	if key == "" {
		return
	}
	err := repos.IdempotencyKey.Create(c.Request.Context(), &domain.IdempotencyKey{
		Key:         key,
		RequestHash: requestHash,
	})
	if err != nil {
		// Failing to record the key never fails the submission itself
		logger.Warn("Failed to store idempotency key", zap.Error(err))
	}
}

// respondSubmitError maps service errors to HTTP responses. Everything is
// recovered at this boundary; nothing crashes the screen.
func respondSubmitError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrValidation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   e.Error(),
			"fields":  e.Fields,
		})
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": e.Error()})
	case *errors.ErrAlreadyProcessed:
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": e.Error()})
	case *errors.ErrNotEligible:
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": e.Error()})
	case *errors.ErrConflict:
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": e.Error()})
	default:
		logger.Error("Submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}
