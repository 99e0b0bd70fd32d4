package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ssg-mis/dispatch-api/internal/domain"
	"github.com/ssg-mis/dispatch-api/pkg/errors"
)

type stageHistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStageHistoryRepository creates a new stage history repository
func NewStageHistoryRepository(db *sql.DB, logger *zap.Logger) *stageHistoryRepository {
	return &stageHistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Append writes one immutable history entry. The unique index on
// (stage_name, order_identifier) makes a second terminal entry for the same
// key an ErrConflict instead of a silent duplicate.
func (r *stageHistoryRepository) Append(ctx context.Context, entry *domain.StageHistoryEntry) error {
	query := `
		INSERT INTO stage_history (id, stage_name, order_identifier, status, processed_by, payload, product_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.ProductCount == 0 {
		entry.ProductCount = 1
	}
	entry.OrderIdentifier = domain.NormalizeIdentifier(entry.OrderIdentifier)

	var payloadJSON []byte
	var err error
	if entry.Payload != nil {
		payloadJSON, err = json.Marshal(entry.Payload)
		if err != nil {
			return err
		}
	}

	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		string(entry.Stage),
		entry.OrderIdentifier,
		string(entry.Status),
		entry.ProcessedBy,
		payloadJSON,
		entry.ProductCount,
		entry.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return &errors.ErrConflict{
				Message: "history entry already exists for " + entry.OrderIdentifier + " at " + string(entry.Stage),
			}
		}
		r.logger.Error("Failed to append stage history entry", zap.Error(err))
		return err
	}

	return nil
}

func (r *stageHistoryRepository) ListByStage(ctx context.Context, stage domain.Stage, limit int) ([]*domain.StageHistoryEntry, error) {
	query := `
		SELECT id, stage_name, order_identifier, status, processed_by, payload, product_count, created_at
		FROM stage_history
		WHERE stage_name = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, string(stage), limit)
	if err != nil {
		r.logger.Error("Failed to list stage history", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.StageHistoryEntry
	for rows.Next() {
		var entry domain.StageHistoryEntry
		var payloadJSON []byte

		err := rows.Scan(
			&entry.ID,
			&entry.Stage,
			&entry.OrderIdentifier,
			&entry.Status,
			&entry.ProcessedBy,
			&payloadJSON,
			&entry.ProductCount,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if len(payloadJSON) > 0 {
			if err := json.Unmarshal(payloadJSON, &entry.Payload); err != nil {
				return nil, err
			}
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// ExistsForStage is the index-backed "does an entry exist for this key"
// check the pending resolver relies on.
func (r *stageHistoryRepository) ExistsForStage(ctx context.Context, stage domain.Stage, orderIdentifier string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM stage_history
			WHERE stage_name = $1 AND order_identifier = $2
		)
	`

	var exists bool
	err := r.db.QueryRowContext(ctx, query,
		string(stage),
		domain.NormalizeIdentifier(orderIdentifier),
	).Scan(&exists)

	if err != nil {
		r.logger.Error("Failed to check stage history existence", zap.Error(err))
		return false, err
	}

	return exists, nil
}

// ListIdentifiersByStage returns every identifier with an entry at the
// stage. Keyed-only and unwindowed: the resolver's set difference must see
// the whole history, not a recent page of it.
func (r *stageHistoryRepository) ListIdentifiersByStage(ctx context.Context, stage domain.Stage) ([]string, error) {
	query := `
		SELECT DISTINCT order_identifier
		FROM stage_history
		WHERE stage_name = $1
	`

	rows, err := r.db.QueryContext(ctx, query, string(stage))
	if err != nil {
		r.logger.Error("Failed to list stage identifiers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// HasRejection reports whether the identifier was rejected at any stage
func (r *stageHistoryRepository) HasRejection(ctx context.Context, orderIdentifier string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM stage_history
			WHERE order_identifier = $1 AND status = $2
		)
	`

	var exists bool
	err := r.db.QueryRowContext(ctx, query,
		domain.NormalizeIdentifier(orderIdentifier),
		string(domain.StatusRejected),
	).Scan(&exists)

	if err != nil {
		r.logger.Error("Failed to check rejection", zap.Error(err))
		return false, err
	}

	return exists, nil
}

// ListRejectedIdentifiers returns identifiers rejected at any stage.
// Rejection is terminal: these never reappear in a later pending set.
func (r *stageHistoryRepository) ListRejectedIdentifiers(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT order_identifier
		FROM stage_history
		WHERE status = $1
	`

	rows, err := r.db.QueryContext(ctx, query, string(domain.StatusRejected))
	if err != nil {
		r.logger.Error("Failed to list rejected identifiers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
