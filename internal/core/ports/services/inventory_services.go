package services

import (
	"context"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/dto"
)

// InventoryReaderSvc defines read operations over stock and movements.
type InventoryReaderSvc interface {
	// GetStock retrieves the stock row for a product, or an all-zero stock
	// if the product has never moved.
	GetStock(ctx context.Context, companyID string, productID string) (*domain.InventoryStock, error)

	// ListMovements retrieves a product's movement history, newest first,
	// with token pagination.
	ListMovements(ctx context.Context, companyID string, productID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error)

	// FIFOBatches derives the remaining cost batches for a product from its
	// movement history.
	FIFOBatches(ctx context.Context, companyID string, productID string) ([]domain.FIFOBatch, error)

	// ReorderAlerts lists products whose available quantity is at or below
	// their reorder level.
	ReorderAlerts(ctx context.Context, companyID string) ([]domain.InventoryStock, error)
}

// InventoryWriterSvc defines stock mutation operations.
type InventoryWriterSvc interface {
	// RecordMovement applies one stock movement atomically: quantity and
	// weighted-average cost are updated and an immutable movement row with
	// before/after snapshots is appended.
	RecordMovement(ctx context.Context, companyID string, req dto.RecordMovementRequest, actorID string) (*domain.InventoryMovement, error)

	// ReserveStock moves quantity from available to reserved without
	// changing quantity on hand.
	ReserveStock(ctx context.Context, companyID string, productID string, req dto.ReserveStockRequest, actorID string) (*domain.InventoryStock, error)

	// ReleaseReserved returns previously reserved quantity to available.
	ReleaseReserved(ctx context.Context, companyID string, productID string, req dto.ReserveStockRequest, actorID string) (*domain.InventoryStock, error)
}

// InventorySvcFacade combines the inventory service interfaces.
type InventorySvcFacade interface {
	InventoryReaderSvc
	InventoryWriterSvc
}
