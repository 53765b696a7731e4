package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks_backend/internal/core/ports/repositories"
	portssvc "github.com/corebooks/corebooks_backend/internal/core/ports/services"
	"github.com/corebooks/corebooks_backend/internal/dto"
	"github.com/corebooks/corebooks_backend/internal/middleware"
	"github.com/corebooks/corebooks_backend/internal/utils/money"
)

var (
	ErrQuantityNotPositive = errors.New("movement quantity must be positive")
	ErrUnitCostRequired    = errors.New("unit cost is required for inbound movements")
	ErrInsufficientStock   = errors.New("insufficient available stock")
	ErrUnknownMovement     = errors.New("unknown movement type")
	ErrReserveTooMuch      = errors.New("cannot reserve more than available")
	ErrReleaseTooMuch      = errors.New("cannot release more than reserved")
)

// inventoryService maintains per-product stock state and its audit trail.
type inventoryService struct {
	inventoryRepo portsrepo.InventoryRepositoryFacade
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(inventoryRepo portsrepo.InventoryRepositoryFacade) portssvc.InventorySvcFacade {
	return &inventoryService{inventoryRepo: inventoryRepo}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// GetStock retrieves the stock row for a product, zero-valued if the
// product has never moved.
func (s *inventoryService) GetStock(ctx context.Context, companyID string, productID string) (*domain.InventoryStock, error) {
	stock, err := s.inventoryRepo.GetStock(ctx, companyID, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.InventoryStock{
				CompanyID:         companyID,
				ProductID:         productID,
				QuantityOnHand:    decimal.Zero,
				QuantityReserved:  decimal.Zero,
				QuantityAvailable: decimal.Zero,
				LastCost:          decimal.Zero,
				AverageCost:       decimal.Zero,
				ReorderLevel:      decimal.Zero,
			}, nil
		}
		return nil, err
	}
	return stock, nil
}

// ListMovements retrieves a product's movement history, newest first.
func (s *inventoryService) ListMovements(ctx context.Context, companyID string, productID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	movements, nextToken, err := s.inventoryRepo.ListMovements(ctx, companyID, productID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return &dto.ListMovementsResponse{
		Movements: dto.ToInventoryMovementResponses(movements),
		NextToken: nextToken,
	}, nil
}

// FIFOBatches derives the remaining cost batches from the movement trail:
// chronological inbound movements minus the cumulative outbound quantity.
func (s *inventoryService) FIFOBatches(ctx context.Context, companyID string, productID string) ([]domain.FIFOBatch, error) {
	inbound, err := s.inventoryRepo.ListInboundMovements(ctx, companyID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbound movements: %w", err)
	}
	totalOut, err := s.inventoryRepo.TotalOutboundQuantity(ctx, companyID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum outbound quantity: %w", err)
	}
	return domain.ComputeFIFOBatches(inbound, totalOut), nil
}

// ReorderAlerts lists products at or under their reorder level.
func (s *inventoryService) ReorderAlerts(ctx context.Context, companyID string) ([]domain.InventoryStock, error) {
	return s.inventoryRepo.ListBelowReorderLevel(ctx, companyID)
}

// RecordMovement applies one typed stock movement atomically. The stock
// row is locked first; the weighted-average cost is recomputed from the
// pre-mutation snapshot for inbound movements, and outbound movements are
// rejected when they exceed the available quantity.
func (s *inventoryService) RecordMovement(ctx context.Context, companyID string, req dto.RecordMovementRequest, actorID string) (*domain.InventoryMovement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrQuantityNotPositive, req.Quantity.String())
	}
	inbound, known := req.MovementType.Inbound()
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMovement, req.MovementType)
	}
	if inbound && (req.UnitCost == nil || req.UnitCost.IsNegative()) {
		return nil, fmt.Errorf("%w: %s", ErrUnitCostRequired, req.MovementType)
	}

	var ref domain.DocumentRef
	if req.Reference != nil {
		ref = domain.DocumentRef{Kind: req.Reference.Kind, ID: req.Reference.ID}
		if err := ref.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	movementDate := time.Now().UTC()
	if req.MovementDate != nil {
		movementDate = *req.MovementDate
	}

	var movement *domain.InventoryMovement
	err := s.inventoryRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.InventoryTxRepository) error {
		stock, err := tx.GetStockForUpdate(ctx, companyID, req.ProductID, actorID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		before := stock.QuantityOnHand
		signedQty := req.Quantity
		unitCost := stock.AverageCost

		if inbound {
			unitCost = money.Round(*req.UnitCost)
			// Average is recomputed from the snapshot before this movement
			// touches the quantity.
			stock.AverageCost = money.WeightedAverage(stock.QuantityOnHand, stock.AverageCost, req.Quantity, unitCost)
			stock.LastCost = unitCost
			stock.QuantityOnHand = stock.QuantityOnHand.Add(req.Quantity)
		} else {
			if !stock.HasAvailable(req.Quantity) {
				return fmt.Errorf("%w: requested %s, available %s", ErrInsufficientStock,
					req.Quantity.String(), stock.QuantityOnHand.Sub(stock.QuantityReserved).String())
			}
			signedQty = req.Quantity.Neg()
			stock.QuantityOnHand = stock.QuantityOnHand.Sub(req.Quantity)
		}
		stock.Recompute()
		stock.Touch(actorID, now)

		if err := tx.SaveStock(ctx, *stock); err != nil {
			return err
		}

		mv := domain.InventoryMovement{
			MovementID:     uuid.NewString(),
			CompanyID:      companyID,
			ProductID:      req.ProductID,
			MovementDate:   movementDate,
			MovementType:   req.MovementType,
			SignedQuantity: signedQty,
			UnitCost:       unitCost,
			QuantityBefore: before,
			QuantityAfter:  stock.QuantityOnHand,
			Reference:      ref,
			CreatedAt:      now,
			CreatedBy:      actorID,
		}
		if err := tx.InsertMovement(ctx, mv); err != nil {
			return err
		}
		movement = &mv
		return nil
	})
	if err != nil {
		logger.Warn("Stock movement rejected", slog.String("product_id", req.ProductID),
			slog.String("movement_type", string(req.MovementType)), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Stock movement recorded",
		slog.String("movement_id", movement.MovementID),
		slog.String("product_id", req.ProductID),
		slog.String("movement_type", string(req.MovementType)),
		slog.String("quantity", movement.SignedQuantity.String()))
	return movement, nil
}

// ReserveStock moves quantity from available to reserved.
func (s *inventoryService) ReserveStock(ctx context.Context, companyID string, productID string, req dto.ReserveStockRequest, actorID string) (*domain.InventoryStock, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrQuantityNotPositive, req.Quantity.String())
	}

	var out *domain.InventoryStock
	err := s.inventoryRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.InventoryTxRepository) error {
		stock, err := tx.GetStockForUpdate(ctx, companyID, productID, actorID)
		if err != nil {
			return err
		}
		if !stock.HasAvailable(req.Quantity) {
			return fmt.Errorf("%w: requested %s, available %s", ErrReserveTooMuch,
				req.Quantity.String(), stock.QuantityOnHand.Sub(stock.QuantityReserved).String())
		}
		stock.QuantityReserved = stock.QuantityReserved.Add(req.Quantity)
		stock.Recompute()
		stock.Touch(actorID, time.Now().UTC())
		if err := tx.SaveStock(ctx, *stock); err != nil {
			return err
		}
		out = stock
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Stock reserved", slog.String("product_id", productID), slog.String("quantity", req.Quantity.String()))
	return out, nil
}

// ReleaseReserved returns previously reserved quantity to available.
func (s *inventoryService) ReleaseReserved(ctx context.Context, companyID string, productID string, req dto.ReserveStockRequest, actorID string) (*domain.InventoryStock, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrQuantityNotPositive, req.Quantity.String())
	}

	var out *domain.InventoryStock
	err := s.inventoryRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.InventoryTxRepository) error {
		stock, err := tx.GetStockForUpdate(ctx, companyID, productID, actorID)
		if err != nil {
			return err
		}
		if stock.QuantityReserved.LessThan(req.Quantity) {
			return fmt.Errorf("%w: requested %s, reserved %s", ErrReleaseTooMuch,
				req.Quantity.String(), stock.QuantityReserved.String())
		}
		stock.QuantityReserved = stock.QuantityReserved.Sub(req.Quantity)
		stock.Recompute()
		stock.Touch(actorID, time.Now().UTC())
		if err := tx.SaveStock(ctx, *stock); err != nil {
			return err
		}
		out = stock
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Reserved stock released", slog.String("product_id", productID), slog.String("quantity", req.Quantity.String()))
	return out, nil
}
