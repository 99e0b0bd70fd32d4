package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ssg-mis/dispatch-api/internal/service"
)

// HandleUpload handles POST /v1/upload. The returned URL is an opaque
// reference for inclusion in a later submit payload.
func HandleUpload(uploadSvc *service.UploadService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !uploadSvc.Enabled() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   "object storage is not configured",
			})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file is required"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			logger.Error("Failed to open uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
			return
		}
		defer file.Close()

		url, err := uploadSvc.Upload(c.Request.Context(), fileHeader.Filename, fileHeader.Size, file)
		if err != nil {
			logger.Error("Failed to store upload", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "upload failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"url": url},
		})
	}
}
