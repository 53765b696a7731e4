package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks_backend/internal/core/ports/repositories"
	"github.com/corebooks/corebooks_backend/internal/models"
	"github.com/corebooks/corebooks_backend/internal/utils/mapping"
	"github.com/corebooks/corebooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const stockColumns = `stock_id, company_id, product_id, quantity_on_hand, quantity_reserved, quantity_available, last_cost, average_cost, reorder_level, created_at, created_by, last_updated_at, last_updated_by`
const movementColumns = `movement_id, company_id, product_id, movement_date, movement_type, signed_quantity, unit_cost, quantity_before, quantity_after, reference_kind, reference_id, created_at, created_by`

type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new repository for inventory data.
func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepositoryFacade {
	return &PgxInventoryRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

func scanInventoryStock(row pgx.Row) (models.InventoryStock, error) {
	var m models.InventoryStock
	err := row.Scan(
		&m.StockID,
		&m.CompanyID,
		&m.ProductID,
		&m.QuantityOnHand,
		&m.QuantityReserved,
		&m.QuantityAvailable,
		&m.LastCost,
		&m.AverageCost,
		&m.ReorderLevel,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// scanInventoryMovement scans one movement row. reference_kind and
// reference_id are NULL when the movement has no source document.
func scanInventoryMovement(row pgx.Row) (models.InventoryMovement, error) {
	var m models.InventoryMovement
	var referenceKind, referenceID sql.NullString
	err := row.Scan(
		&m.MovementID,
		&m.CompanyID,
		&m.ProductID,
		&m.MovementDate,
		&m.MovementType,
		&m.SignedQuantity,
		&m.UnitCost,
		&m.QuantityBefore,
		&m.QuantityAfter,
		&referenceKind,
		&referenceID,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		return models.InventoryMovement{}, err
	}
	m.ReferenceKind = referenceKind.String
	m.ReferenceID = referenceID.String
	return m, nil
}

// GetStock retrieves the stock row for a product.
func (r *PgxInventoryRepository) GetStock(ctx context.Context, companyID string, productID string) (*domain.InventoryStock, error) {
	query := `SELECT ` + stockColumns + ` FROM inventory_stocks WHERE company_id = $1 AND product_id = $2;`

	m, err := scanInventoryStock(r.Pool.QueryRow(ctx, query, companyID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get stock for product %s: %w", productID, err)
	}
	stock := mapping.ToDomainInventoryStock(m)
	return &stock, nil
}

// ListMovements retrieves a paginated movement history for a product,
// newest first.
func (r *PgxInventoryRepository) ListMovements(ctx context.Context, companyID string, productID string, limit int, nextToken *string) ([]domain.InventoryMovement, *string, error) {
	args := []any{companyID, productID}
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements
		WHERE company_id = $1 AND product_id = $2
	`
	if nextToken != nil && *nextToken != "" {
		movementDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (movement_date, created_at) < ($3, $4)`
		args = append(args, movementDate, createdAt)
	}
	query += fmt.Sprintf(` ORDER BY movement_date DESC, created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	var out []models.InventoryMovement
	for rows.Next() {
		m, err := scanInventoryMovement(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed iterating movement rows: %w", err)
	}

	var token *string
	if len(out) > limit {
		out = out[:limit]
		last := out[len(out)-1]
		t := pagination.EncodeToken(last.MovementDate, last.CreatedAt)
		token = &t
	}
	return mapping.ToDomainInventoryMovementSlice(out), token, nil
}

// ListInboundMovements retrieves a product's inbound movements in
// chronological order.
func (r *PgxInventoryRepository) ListInboundMovements(ctx context.Context, companyID string, productID string) ([]domain.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements
		WHERE company_id = $1 AND product_id = $2 AND signed_quantity > 0
		ORDER BY movement_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbound movements: %w", err)
	}
	defer rows.Close()

	var out []models.InventoryMovement
	for rows.Next() {
		m, err := scanInventoryMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating movement rows: %w", err)
	}
	return mapping.ToDomainInventoryMovementSlice(out), nil
}

// TotalOutboundQuantity sums the absolute outbound quantity for a product.
func (r *PgxInventoryRepository) TotalOutboundQuantity(ctx context.Context, companyID string, productID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(-signed_quantity), 0)
		FROM inventory_movements
		WHERE company_id = $1 AND product_id = $2 AND signed_quantity < 0;
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, companyID, productID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum outbound quantity: %w", err)
	}
	return total, nil
}

// ListBelowReorderLevel retrieves stocks at or under their reorder level.
func (r *PgxInventoryRepository) ListBelowReorderLevel(ctx context.Context, companyID string) ([]domain.InventoryStock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM inventory_stocks
		WHERE company_id = $1 AND reorder_level > 0 AND quantity_available <= reorder_level
		ORDER BY product_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reorder alerts: %w", err)
	}
	defer rows.Close()

	var out []domain.InventoryStock
	for rows.Next() {
		m, err := scanInventoryStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock row: %w", err)
		}
		out = append(out, mapping.ToDomainInventoryStock(m))
	}
	return out, rows.Err()
}

// WithTx runs fn against a transactional repository with bounded retry on
// serialization failures.
func (r *PgxInventoryRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.InventoryTxRepository) error) error {
	return r.runInTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxInventoryTxRepository{tx: tx})
	})
}

// pgxInventoryTxRepository runs stock mutations against one open
// transaction.
type pgxInventoryTxRepository struct {
	tx pgx.Tx
}

var _ portsrepo.InventoryTxRepository = (*pgxInventoryTxRepository)(nil)

// GetStockForUpdate loads and row-locks the stock row, creating it with
// zero quantities when absent. The insert-then-lock keeps first movements
// for the same new product serialised on the unique (company, product)
// constraint.
func (t *pgxInventoryTxRepository) GetStockForUpdate(ctx context.Context, companyID string, productID string, actorID string) (*domain.InventoryStock, error) {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO inventory_stocks (
			stock_id, company_id, product_id,
			quantity_on_hand, quantity_reserved, quantity_available,
			last_cost, average_cost, reorder_level,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, 0, 0, 0, 0, 0, 0, NOW(), $4, NOW(), $4)
		ON CONFLICT (company_id, product_id) DO NOTHING;
	`, uuid.NewString(), companyID, productID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure stock row for product %s: %w", productID, err)
	}

	query := `SELECT ` + stockColumns + ` FROM inventory_stocks WHERE company_id = $1 AND product_id = $2 FOR UPDATE;`
	m, err := scanInventoryStock(t.tx.QueryRow(ctx, query, companyID, productID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock stock row for product %s: %w", productID, err)
	}
	stock := mapping.ToDomainInventoryStock(m)
	return &stock, nil
}

// SaveStock writes the mutated stock row.
func (t *pgxInventoryTxRepository) SaveStock(ctx context.Context, stock domain.InventoryStock) error {
	m := mapping.ToModelInventoryStock(stock)
	tag, err := t.tx.Exec(ctx, `
		UPDATE inventory_stocks
		SET quantity_on_hand = $2, quantity_reserved = $3, quantity_available = $4,
		    last_cost = $5, average_cost = $6, reorder_level = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE stock_id = $1;
	`,
		m.StockID,
		m.QuantityOnHand, m.QuantityReserved, m.QuantityAvailable,
		m.LastCost, m.AverageCost, m.ReorderLevel,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save stock %s: %w", m.StockID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// InsertMovement appends one immutable movement row.
func (t *pgxInventoryTxRepository) InsertMovement(ctx context.Context, movement domain.InventoryMovement) error {
	m := mapping.ToModelInventoryMovement(movement)
	_, err := t.tx.Exec(ctx, `
		INSERT INTO inventory_movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`,
		m.MovementID, m.CompanyID, m.ProductID, m.MovementDate, m.MovementType,
		m.SignedQuantity, m.UnitCost, m.QuantityBefore, m.QuantityAfter,
		nullIfEmpty(m.ReferenceKind), nullIfEmpty(m.ReferenceID), m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert movement %s: %w", m.MovementID, err)
	}
	return nil
}
