package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/ssg-mis/dispatch-api/internal/repository"
)

// NewRepositories creates all repositories backed by the given database
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		OrderLine:      NewOrderLineRepository(db, logger),
		StageHistory:   NewStageHistoryRepository(db, logger),
		IdempotencyKey: NewIdempotencyKeyRepository(db, logger),
	}
}
