package mapping

import (
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/models"
)

func ToModelInventoryStock(s domain.InventoryStock) models.InventoryStock {
	return models.InventoryStock{
		StockID:           s.StockID,
		CompanyID:         s.CompanyID,
		ProductID:         s.ProductID,
		QuantityOnHand:    s.QuantityOnHand,
		QuantityReserved:  s.QuantityReserved,
		QuantityAvailable: s.QuantityAvailable,
		LastCost:          s.LastCost,
		AverageCost:       s.AverageCost,
		ReorderLevel:      s.ReorderLevel,
		AuditFields:       toModelAuditFields(s.AuditFields),
	}
}

func ToDomainInventoryStock(s models.InventoryStock) domain.InventoryStock {
	return domain.InventoryStock{
		StockID:           s.StockID,
		CompanyID:         s.CompanyID,
		ProductID:         s.ProductID,
		QuantityOnHand:    s.QuantityOnHand,
		QuantityReserved:  s.QuantityReserved,
		QuantityAvailable: s.QuantityAvailable,
		LastCost:          s.LastCost,
		AverageCost:       s.AverageCost,
		ReorderLevel:      s.ReorderLevel,
		AuditFields:       toDomainAuditFields(s.AuditFields),
	}
}

func ToModelInventoryMovement(m domain.InventoryMovement) models.InventoryMovement {
	return models.InventoryMovement{
		MovementID:     m.MovementID,
		CompanyID:      m.CompanyID,
		ProductID:      m.ProductID,
		MovementDate:   m.MovementDate,
		MovementType:   string(m.MovementType),
		SignedQuantity: m.SignedQuantity,
		UnitCost:       m.UnitCost,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		ReferenceKind:  string(m.Reference.Kind),
		ReferenceID:    m.Reference.ID,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}

func ToDomainInventoryMovement(m models.InventoryMovement) domain.InventoryMovement {
	return domain.InventoryMovement{
		MovementID:     m.MovementID,
		CompanyID:      m.CompanyID,
		ProductID:      m.ProductID,
		MovementDate:   m.MovementDate,
		MovementType:   domain.MovementType(m.MovementType),
		SignedQuantity: m.SignedQuantity,
		UnitCost:       m.UnitCost,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reference: domain.DocumentRef{
			Kind: domain.DocumentKind(m.ReferenceKind),
			ID:   m.ReferenceID,
		},
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
}

func ToDomainInventoryMovementSlice(in []models.InventoryMovement) []domain.InventoryMovement {
	out := make([]domain.InventoryMovement, len(in))
	for i, m := range in {
		out[i] = ToDomainInventoryMovement(m)
	}
	return out
}
