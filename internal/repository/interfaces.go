package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ssg-mis/dispatch-api/internal/domain"
)

// OrderLineRepository defines order line data access methods
type OrderLineRepository interface {
	Create(ctx context.Context, line *domain.OrderLine) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.OrderLine, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.OrderLine, error)
	List(ctx context.Context, limit int) ([]*domain.OrderLine, error)
	ListByBaseIdentifier(ctx context.Context, base string) ([]*domain.OrderLine, error)
	Update(ctx context.Context, line *domain.OrderLine) error
}

// StageHistoryRepository is the append-only per-stage record of completed
// actions, keyed by (stage, order identifier). No update or delete: entries
// are immutable once written.
type StageHistoryRepository interface {
	Append(ctx context.Context, entry *domain.StageHistoryEntry) error
	ListByStage(ctx context.Context, stage domain.Stage, limit int) ([]*domain.StageHistoryEntry, error)
	ListIdentifiersByStage(ctx context.Context, stage domain.Stage) ([]string, error)
	ExistsForStage(ctx context.Context, stage domain.Stage, orderIdentifier string) (bool, error)
	HasRejection(ctx context.Context, orderIdentifier string) (bool, error)
	ListRejectedIdentifiers(ctx context.Context) ([]string, error)
}

// IdempotencyKeyRepository defines idempotency key data access methods
type IdempotencyKeyRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error)
	Create(ctx context.Context, key *domain.IdempotencyKey) error
}

// Repositories aggregates all repositories
type Repositories struct {
	OrderLine      OrderLineRepository
	StageHistory   StageHistoryRepository
	IdempotencyKey IdempotencyKeyRepository
}
