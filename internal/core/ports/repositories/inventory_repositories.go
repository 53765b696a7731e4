package repositories

import (
	"context"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventoryReader defines read operations for inventory data.
type InventoryReader interface {
	// GetStock retrieves the stock row for a product.
	GetStock(ctx context.Context, companyID string, productID string) (*domain.InventoryStock, error)

	// ListMovements retrieves a paginated movement history for a product,
	// newest first, using token pagination.
	ListMovements(ctx context.Context, companyID string, productID string, limit int, nextToken *string) ([]domain.InventoryMovement, *string, error)

	// ListInboundMovements retrieves a product's inbound movements in
	// chronological order, for FIFO batch computation.
	ListInboundMovements(ctx context.Context, companyID string, productID string) ([]domain.InventoryMovement, error)

	// TotalOutboundQuantity sums the absolute outbound quantity for a product.
	TotalOutboundQuantity(ctx context.Context, companyID string, productID string) (decimal.Decimal, error)

	// ListBelowReorderLevel retrieves stocks at or under their reorder level.
	ListBelowReorderLevel(ctx context.Context, companyID string) ([]domain.InventoryStock, error)
}

// InventoryTxRepository exposes operations available inside an inventory
// transaction. The stock row is locked before any movement is appended.
type InventoryTxRepository interface {
	// GetStockForUpdate loads and row-locks the stock row, creating it with
	// zero quantities when absent.
	GetStockForUpdate(ctx context.Context, companyID string, productID string, actorID string) (*domain.InventoryStock, error)

	// SaveStock writes the mutated stock row.
	SaveStock(ctx context.Context, stock domain.InventoryStock) error

	// InsertMovement appends one immutable movement row.
	InsertMovement(ctx context.Context, movement domain.InventoryMovement) error
}

// InventoryWriter defines write operations for inventory data.
type InventoryWriter interface {
	// WithTx runs fn inside one database transaction with bounded retry on
	// serialization failures.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx InventoryTxRepository) error) error
}

// InventoryRepositoryFacade combines the inventory repository interfaces.
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryWriter
}
