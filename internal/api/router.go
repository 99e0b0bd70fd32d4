package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ssg-mis/dispatch-api/internal/api/handlers"
	"github.com/ssg-mis/dispatch-api/internal/api/middleware"
	"github.com/ssg-mis/dispatch-api/internal/config"
	"github.com/ssg-mis/dispatch-api/internal/repository"
	"github.com/ssg-mis/dispatch-api/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, stageSvc *service.StageService, exportSvc *service.ExportService, uploadSvc *service.UploadService, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Dispatch Workflow API",
			"endpoints": []string{
				"GET /health",
				"GET /v1/stages",
				"GET /v1/stages/:stage/pending",
				"GET /v1/stages/:stage/history",
				"GET /v1/stages/:stage/history/export",
				"GET /v1/stages/:stage/batch-preview",
				"POST /v1/stages/:stage/submit",
				"POST /v1/stages/:stage/submit/:id",
				"POST /v1/upload",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/stages", handlers.HandleListStages())
		v1.GET("/stages/:stage/pending", handlers.HandleGetPending(stageSvc, logger))
		v1.GET("/stages/:stage/history", handlers.HandleGetHistory(stageSvc, logger))
		v1.GET("/stages/:stage/history/export", handlers.HandleExportHistory(exportSvc, logger))
		v1.GET("/stages/:stage/batch-preview", handlers.HandleBatchPreview(stageSvc, logger))

		// Submissions guarded against duplicate posts of the same batch
		submitRoutes := v1.Group("")
		submitRoutes.Use(middleware.IdempotencyMiddleware(repos, logger))
		{
			submitRoutes.POST("/stages/:stage/submit", handlers.HandleSubmitBatch(stageSvc, repos, logger))
			submitRoutes.POST("/stages/:stage/submit/:id", handlers.HandleSubmitLine(stageSvc, repos, logger))
		}

		v1.POST("/upload", handlers.HandleUpload(uploadSvc, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
