package dto

import (
	"time"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordMovementRequest defines a typed stock movement. Direction is
// derived from the movement type, never supplied.
type RecordMovementRequest struct {
	ProductID    string              `json:"productID" binding:"required"`
	MovementType domain.MovementType `json:"movementType" binding:"required,oneof=PURCHASE_IN SALES_OUT PURCHASE_RETURN SALES_RETURN ADJUSTMENT_IN ADJUSTMENT_OUT OPENING_STOCK"`
	Quantity     decimal.Decimal     `json:"quantity" binding:"required"`
	UnitCost     *decimal.Decimal    `json:"unitCost"` // Required for inbound movements
	MovementDate *time.Time          `json:"movementDate" time_format:"2006-01-02"`
	Reference    *DocumentRefRequest `json:"reference"`
}

// ReserveStockRequest adjusts the reserved quantity of a product.
type ReserveStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// InventoryStockResponse mirrors domain.InventoryStock.
type InventoryStockResponse struct {
	ProductID         string          `json:"productID"`
	QuantityOnHand    decimal.Decimal `json:"quantityOnHand"`
	QuantityReserved  decimal.Decimal `json:"quantityReserved"`
	QuantityAvailable decimal.Decimal `json:"quantityAvailable"`
	LastCost          decimal.Decimal `json:"lastCost"`
	AverageCost       decimal.Decimal `json:"averageCost"`
	ReorderLevel      decimal.Decimal `json:"reorderLevel"`
	BelowReorder      bool            `json:"belowReorder"`
}

// InventoryMovementResponse mirrors domain.InventoryMovement.
type InventoryMovementResponse struct {
	MovementID     string              `json:"movementID"`
	ProductID      string              `json:"productID"`
	MovementDate   time.Time           `json:"movementDate"`
	MovementType   domain.MovementType `json:"movementType"`
	SignedQuantity decimal.Decimal     `json:"signedQuantity"`
	UnitCost       decimal.Decimal     `json:"unitCost"`
	QuantityBefore decimal.Decimal     `json:"quantityBefore"`
	QuantityAfter  decimal.Decimal     `json:"quantityAfter"`
	Reference      *DocumentRefRequest `json:"reference,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	CreatedBy      string              `json:"createdBy"`
}

// ListMovementsParams paginates movement history.
type ListMovementsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListMovementsResponse is a page of movements plus the next cursor.
type ListMovementsResponse struct {
	Movements []InventoryMovementResponse `json:"movements"`
	NextToken *string                     `json:"nextToken,omitempty"`
}

// FIFOBatchResponse mirrors domain.FIFOBatch.
type FIFOBatchResponse struct {
	MovementID   string          `json:"movementID"`
	MovementDate time.Time       `json:"movementDate"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	Quantity     decimal.Decimal `json:"quantity"`
	Remaining    decimal.Decimal `json:"remaining"`
}

// ToInventoryStockResponse converts a domain stock row.
func ToInventoryStockResponse(s *domain.InventoryStock) InventoryStockResponse {
	return InventoryStockResponse{
		ProductID:         s.ProductID,
		QuantityOnHand:    s.QuantityOnHand,
		QuantityReserved:  s.QuantityReserved,
		QuantityAvailable: s.QuantityAvailable,
		LastCost:          s.LastCost,
		AverageCost:       s.AverageCost,
		ReorderLevel:      s.ReorderLevel,
		BelowReorder:      s.BelowReorderLevel(),
	}
}

// ToInventoryMovementResponse converts a domain movement row.
func ToInventoryMovementResponse(m *domain.InventoryMovement) InventoryMovementResponse {
	resp := InventoryMovementResponse{
		MovementID:     m.MovementID,
		ProductID:      m.ProductID,
		MovementDate:   m.MovementDate,
		MovementType:   m.MovementType,
		SignedQuantity: m.SignedQuantity,
		UnitCost:       m.UnitCost,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
	if !m.Reference.IsZero() {
		resp.Reference = &DocumentRefRequest{Kind: m.Reference.Kind, ID: m.Reference.ID}
	}
	return resp
}

// ToInventoryMovementResponses converts a slice of domain movements.
func ToInventoryMovementResponses(movements []domain.InventoryMovement) []InventoryMovementResponse {
	out := make([]InventoryMovementResponse, len(movements))
	for i := range movements {
		out[i] = ToInventoryMovementResponse(&movements[i])
	}
	return out
}

// ToFIFOBatchResponses converts domain FIFO batches.
func ToFIFOBatchResponses(batches []domain.FIFOBatch) []FIFOBatchResponse {
	out := make([]FIFOBatchResponse, len(batches))
	for i, b := range batches {
		out[i] = FIFOBatchResponse{
			MovementID:   b.MovementID,
			MovementDate: b.MovementDate,
			UnitCost:     b.UnitCost,
			Quantity:     b.Quantity,
			Remaining:    b.Remaining,
		}
	}
	return out
}
