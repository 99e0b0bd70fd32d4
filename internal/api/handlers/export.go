package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ssg-mis/dispatch-api/internal/service"
)

// HandleExportHistory handles GET /v1/stages/:stage/history/export
func HandleExportHistory(exportSvc *service.ExportService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stage, ok := parseStageParam(c)
		if !ok {
			return
		}

		limit, err := strconv.Atoi(c.DefaultQuery("limit", "1000"))
		if err != nil || limit < 1 {
			limit = 1000
		}

		f, filename, err := exportSvc.ExportHistory(c.Request.Context(), stage, limit)
		if err != nil {
			logger.Error("Failed to export stage history",
				zap.String("stage", string(stage)), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := f.Write(c.Writer); err != nil {
			logger.Error("Failed to write export", zap.Error(err))
		}
	}
}
