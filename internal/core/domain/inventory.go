package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType classifies an inventory movement. Direction is fixed by the
// type and never supplied by callers.
type MovementType string

const (
	MovementPurchaseIn     MovementType = "PURCHASE_IN"
	MovementSalesOut       MovementType = "SALES_OUT"
	MovementPurchaseReturn MovementType = "PURCHASE_RETURN"
	MovementSalesReturn    MovementType = "SALES_RETURN"
	MovementAdjustmentIn   MovementType = "ADJUSTMENT_IN"
	MovementAdjustmentOut  MovementType = "ADJUSTMENT_OUT"
	MovementOpeningStock   MovementType = "OPENING_STOCK"
)

// Inbound reports whether the movement type increases stock on hand.
func (t MovementType) Inbound() (bool, bool) {
	switch t {
	case MovementPurchaseIn, MovementSalesReturn, MovementAdjustmentIn, MovementOpeningStock:
		return true, true
	case MovementSalesOut, MovementPurchaseReturn, MovementAdjustmentOut:
		return false, true
	default:
		return false, false
	}
}

// InventoryStock is the current stock state for one product.
// QuantityAvailable is derivative: recomputed as onHand − reserved on every
// mutation, never trusted independently.
type InventoryStock struct {
	StockID           string          `json:"stockID"`
	CompanyID         string          `json:"companyID"`
	ProductID         string          `json:"productID"`
	QuantityOnHand    decimal.Decimal `json:"quantityOnHand"`
	QuantityReserved  decimal.Decimal `json:"quantityReserved"`
	QuantityAvailable decimal.Decimal `json:"quantityAvailable"`
	LastCost          decimal.Decimal `json:"lastCost"`
	AverageCost       decimal.Decimal `json:"averageCost"`
	ReorderLevel      decimal.Decimal `json:"reorderLevel"`
	AuditFields
}

// Recompute refreshes the derivative available quantity.
func (s *InventoryStock) Recompute() {
	s.QuantityAvailable = s.QuantityOnHand.Sub(s.QuantityReserved)
}

// HasAvailable reports whether qty units can be taken or reserved.
func (s InventoryStock) HasAvailable(qty decimal.Decimal) bool {
	return s.QuantityOnHand.Sub(s.QuantityReserved).GreaterThanOrEqual(qty)
}

// BelowReorderLevel reports whether available stock is at or under the
// configured reorder threshold.
func (s InventoryStock) BelowReorderLevel() bool {
	return s.ReorderLevel.IsPositive() && s.QuantityAvailable.LessThanOrEqual(s.ReorderLevel)
}

// InventoryMovement is one immutable row of the stock audit trail. Rows are
// append-only: they are never updated or deleted, and are the source for
// weighted-average recomputation and FIFO batch queries.
type InventoryMovement struct {
	MovementID     string          `json:"movementID"`
	CompanyID      string          `json:"companyID"`
	ProductID      string          `json:"productID"`
	MovementDate   time.Time       `json:"movementDate"`
	MovementType   MovementType    `json:"movementType"`
	SignedQuantity decimal.Decimal `json:"signedQuantity"` // Positive = in, negative = out
	UnitCost       decimal.Decimal `json:"unitCost"`       // Snapshot at movement time
	QuantityBefore decimal.Decimal `json:"quantityBefore"`
	QuantityAfter  decimal.Decimal `json:"quantityAfter"`
	Reference      DocumentRef     `json:"reference,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}

// FIFOBatch is one inbound movement with the quantity still unconsumed by
// later outbound movements, for FIFO cost queries.
type FIFOBatch struct {
	MovementID   string          `json:"movementID"`
	MovementDate time.Time       `json:"movementDate"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	Quantity     decimal.Decimal `json:"quantity"`  // Original inbound quantity
	Remaining    decimal.Decimal `json:"remaining"` // After consuming cumulative outbound
}

// ComputeFIFOBatches walks inbound movements in chronological order and
// consumes totalOutbound from the oldest batches first. Batches fully
// consumed are dropped from the result.
func ComputeFIFOBatches(inbound []InventoryMovement, totalOutbound decimal.Decimal) []FIFOBatch {
	remainingOut := totalOutbound
	var out []FIFOBatch
	for _, mv := range inbound {
		qty := mv.SignedQuantity
		if !qty.IsPositive() {
			continue
		}
		remaining := qty
		if remainingOut.IsPositive() {
			if remainingOut.GreaterThanOrEqual(qty) {
				remainingOut = remainingOut.Sub(qty)
				continue
			}
			remaining = qty.Sub(remainingOut)
			remainingOut = decimal.Zero
		}
		out = append(out, FIFOBatch{
			MovementID:   mv.MovementID,
			MovementDate: mv.MovementDate,
			UnitCost:     mv.UnitCost,
			Quantity:     qty,
			Remaining:    remaining,
		})
	}
	return out
}
