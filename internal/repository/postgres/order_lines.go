package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ssg-mis/dispatch-api/internal/domain"
	"github.com/ssg-mis/dispatch-api/pkg/errors"
)

type orderLineRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderLineRepository creates a new order line repository
func NewOrderLineRepository(db *sql.DB, logger *zap.Logger) *orderLineRepository {
	return &orderLineRepository{
		db:     db,
		logger: logger,
	}
}

const orderLineColumns = `
	id, order_identifier, customer_name, product_name, quantity, weight_kg,
	rate, delivery_purpose, delivery_due_date, planned_dispatch_date,
	vehicle_number, driver_name, invoice_number, damage_quantity,
	credit_note_number, credit_note_date, attachment_url, created_at, updated_at
`

func (r *orderLineRepository) Create(ctx context.Context, line *domain.OrderLine) error {
	query := `
		INSERT INTO order_lines (` + orderLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	now := time.Now()
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	if line.CreatedAt.IsZero() {
		line.CreatedAt = now
	}
	line.UpdatedAt = now
	line.OrderIdentifier = domain.NormalizeIdentifier(line.OrderIdentifier)

	_, err := r.db.ExecContext(ctx, query,
		line.ID,
		line.OrderIdentifier,
		line.CustomerName,
		line.ProductName,
		line.Quantity,
		line.WeightKg,
		line.Rate,
		line.DeliveryPurpose,
		line.DeliveryDueDate,
		line.PlannedDispatchDate,
		line.VehicleNumber,
		line.DriverName,
		line.InvoiceNumber,
		line.DamageQuantity,
		line.CreditNoteNumber,
		line.CreditNoteDate,
		line.AttachmentURL,
		line.CreatedAt,
		line.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create order line", zap.Error(err))
		return err
	}

	return nil
}

func (r *orderLineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.OrderLine, error) {
	query := `SELECT ` + orderLineColumns + ` FROM order_lines WHERE id = $1`

	line, err := scanOrderLine(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order line", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get order line by ID", zap.Error(err))
		return nil, err
	}

	return line, nil
}

func (r *orderLineRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.OrderLine, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	// array_position keeps the caller's order, so batch expansion stays
	// deterministic
	query := `
		SELECT ` + orderLineColumns + `
		FROM order_lines
		WHERE id = ANY($1)
		ORDER BY array_position($1, id)
	`

	return r.queryLines(ctx, query, pq.Array(ids))
}

func (r *orderLineRepository) List(ctx context.Context, limit int) ([]*domain.OrderLine, error) {
	query := `
		SELECT ` + orderLineColumns + `
		FROM order_lines
		ORDER BY created_at ASC, order_identifier ASC
		LIMIT $1
	`

	return r.queryLines(ctx, query, limit)
}

func (r *orderLineRepository) ListByBaseIdentifier(ctx context.Context, base string) ([]*domain.OrderLine, error) {
	query := `
		SELECT ` + orderLineColumns + `
		FROM order_lines
		WHERE order_identifier = $1 OR order_identifier LIKE $1 || '%'
		ORDER BY created_at ASC, order_identifier ASC
	`

	lines, err := r.queryLines(ctx, query, domain.NormalizeIdentifier(base))
	if err != nil {
		return nil, err
	}

	// The LIKE prefix over-matches (DO-2 would catch DO-22); keep only lines
	// whose derived base actually equals the requested one
	base = domain.NormalizeIdentifier(base)
	var out []*domain.OrderLine
	for _, line := range lines {
		if line.BaseIdentifier() == base {
			out = append(out, line)
		}
	}
	return out, nil
}

func (r *orderLineRepository) Update(ctx context.Context, line *domain.OrderLine) error {
	query := `
		UPDATE order_lines
		SET customer_name = $2, product_name = $3, quantity = $4,
			weight_kg = $5, rate = $6, delivery_purpose = $7,
			delivery_due_date = $8, planned_dispatch_date = $9,
			vehicle_number = $10, driver_name = $11, invoice_number = $12,
			damage_quantity = $13, credit_note_number = $14,
			credit_note_date = $15, attachment_url = $16, updated_at = $17
		WHERE id = $1
	`

	line.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		line.ID,
		line.CustomerName,
		line.ProductName,
		line.Quantity,
		line.WeightKg,
		line.Rate,
		line.DeliveryPurpose,
		line.DeliveryDueDate,
		line.PlannedDispatchDate,
		line.VehicleNumber,
		line.DriverName,
		line.InvoiceNumber,
		line.DamageQuantity,
		line.CreditNoteNumber,
		line.CreditNoteDate,
		line.AttachmentURL,
		line.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update order line", zap.Error(err))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "order line", ID: line.ID.String()}
	}

	return nil
}

func (r *orderLineRepository) queryLines(ctx context.Context, query string, args ...interface{}) ([]*domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query order lines", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var lines []*domain.OrderLine
	for rows.Next() {
		line, err := scanOrderLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrderLine(row rowScanner) (*domain.OrderLine, error) {
	var line domain.OrderLine
	err := row.Scan(
		&line.ID,
		&line.OrderIdentifier,
		&line.CustomerName,
		&line.ProductName,
		&line.Quantity,
		&line.WeightKg,
		&line.Rate,
		&line.DeliveryPurpose,
		&line.DeliveryDueDate,
		&line.PlannedDispatchDate,
		&line.VehicleNumber,
		&line.DriverName,
		&line.InvoiceNumber,
		&line.DamageQuantity,
		&line.CreditNoteNumber,
		&line.CreditNoteDate,
		&line.AttachmentURL,
		&line.CreatedAt,
		&line.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &line, nil
}
