package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryStock is the persistence shape of per-product stock state.
type InventoryStock struct {
	StockID           string
	CompanyID         string
	ProductID         string
	QuantityOnHand    decimal.Decimal
	QuantityReserved  decimal.Decimal
	QuantityAvailable decimal.Decimal
	LastCost          decimal.Decimal
	AverageCost       decimal.Decimal
	ReorderLevel      decimal.Decimal
	AuditFields
}

// InventoryMovement is the persistence shape of one append-only movement
// row. Movements are never updated or deleted.
type InventoryMovement struct {
	MovementID     string
	CompanyID      string
	ProductID      string
	MovementDate   time.Time
	MovementType   string
	SignedQuantity decimal.Decimal
	UnitCost       decimal.Decimal
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	ReferenceKind  string // Empty when the movement has no source document; stored as NULL
	ReferenceID    string
	CreatedAt      time.Time
	CreatedBy      string
}
