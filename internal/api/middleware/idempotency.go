package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ssg-mis/dispatch-api/internal/repository"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyMiddleware guards submit endpoints against duplicate posts of
// the same batch. A key is only recorded by the handler after the submission
// mutated state, so a replayed key with the same payload means the batch
// already ran and is acknowledged without re-running it; the same key with a
// different payload is a conflict. A submission that fails outright never
// consumes its key and the retry goes through the handler again.
func IdempotencyMiddleware(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		// Read request body
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.Error("Failed to read request body for idempotency", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to process request"})
			c.Abort()
			return
		}

		// Restore body for handler
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		hash := sha256.Sum256(body)
		requestHash := hex.EncodeToString(hash[:])

		existingKey, err := repos.IdempotencyKey.GetByKey(c.Request.Context(), idempotencyKey)
		if err != nil {
			logger.Error("Failed to check idempotency key", zap.Error(err))
			c.Next()
			return
		}

		if existingKey != nil {
			if existingKey.RequestHash != requestHash {
				c.JSON(http.StatusConflict, gin.H{
					"success": false,
					"error":   "idempotency key conflict: same key used with different payload",
				})
				c.Abort()
				return
			}

			// Same key, same payload: the batch already committed
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "request already processed",
			})
			c.Abort()
			return
		}

		// New key - stored by the handler once the submission succeeds
		c.Set("idempotency_key", idempotencyKey)
		c.Set("idempotency_request_hash", requestHash)

		c.Next()
	}
}

// GetIdempotencyInfo retrieves the pending idempotency key from context.
// Empty when the request carried no key or the key was already recorded.
func GetIdempotencyInfo(c *gin.Context) (key string, requestHash string) {
	keyVal, _ := c.Get("idempotency_key")
	hashVal, _ := c.Get("idempotency_request_hash")

	key, _ = keyVal.(string)
	requestHash, _ = hashVal.(string)

	return key, requestHash
}
