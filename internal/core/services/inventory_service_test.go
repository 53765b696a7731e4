package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	portssvc "github.com/corebooks/corebooks_backend/internal/core/ports/services"
	"github.com/corebooks/corebooks_backend/internal/core/services"
	"github.com/corebooks/corebooks_backend/internal/dto"
)

func newInventoryService() (portssvc.InventorySvcFacade, *MockInventoryRepository) {
	repo := &MockInventoryRepository{tx: &MockInventoryTxRepository{}}
	return services.NewInventoryService(repo), repo
}

func stockOnHand(qty, avgCost string) *domain.InventoryStock {
	stock := &domain.InventoryStock{
		StockID:          "stock-1",
		CompanyID:        testCompanyID,
		ProductID:        "prod-1",
		QuantityOnHand:   dec(qty),
		QuantityReserved: decimal.Zero,
		LastCost:         dec(avgCost),
		AverageCost:      dec(avgCost),
		ReorderLevel:     decimal.Zero,
	}
	stock.Recompute()
	return stock
}

func TestGetStock_NeverMovedReadsAsZero(t *testing.T) {
	svc, repo := newInventoryService()
	ctx := context.Background()

	repo.On("GetStock", ctx, testCompanyID, "prod-9").Return(nil, apperrors.ErrNotFound)

	stock, err := svc.GetStock(ctx, testCompanyID, "prod-9")

	assert.NoError(t, err)
	assert.True(t, stock.QuantityOnHand.IsZero())
	assert.True(t, stock.AverageCost.IsZero())
	assert.Equal(t, "prod-9", stock.ProductID)
}

func TestRecordMovement_InboundRecomputesAverage(t *testing.T) {
	svc, repo := newInventoryService()
	ctx := context.Background()
	unitCost := dec("13.00")

	repo.On("WithTx", ctx).Return(nil)
	repo.tx.On("GetStockForUpdate", ctx, testCompanyID, "prod-1", testActorID).Return(stockOnHand("100", "10.00"), nil)
	// 100 @ 10.00 plus 50 @ 13.00 averages to 11.00.
	repo.tx.On("SaveStock", ctx, mock.MatchedBy(func(stock domain.InventoryStock) bool {
		return stock.QuantityOnHand.Equal(dec("150")) &&
			stock.AverageCost.Equal(dec("11.00")) &&
			stock.LastCost.Equal(dec("13.00")) &&
			stock.QuantityAvailable.Equal(dec("150"))
	})).Return(nil)
	repo.tx.On("InsertMovement", ctx, mock.MatchedBy(func(mv domain.InventoryMovement) bool {
		return mv.SignedQuantity.Equal(dec("50")) &&
			mv.UnitCost.Equal(dec("13.00")) &&
			mv.QuantityBefore.Equal(dec("100")) &&
			mv.QuantityAfter.Equal(dec("150"))
	})).Return(nil)

	movement, err := svc.RecordMovement(ctx, testCompanyID, dto.RecordMovementRequest{
		ProductID:    "prod-1",
		MovementType: domain.MovementPurchaseIn,
		Quantity:     dec("50"),
		UnitCost:     &unitCost,
	}, testActorID)

	assert.NoError(t, err)
	assert.Equal(t, domain.MovementPurchaseIn, movement.MovementType)
	repo.tx.AssertExpectations(t)
}

func TestRecordMovement_OutboundKeepsAverage(t *testing.T) {
	svc, repo := newInventoryService()
	ctx := context.Background()

	repo.On("WithTx", ctx).Return(nil)
	repo.tx.On("GetStockForUpdate", ctx, testCompanyID, "prod-1", testActorID).Return(stockOnHand("100", "10.00"), nil)
	repo.tx.On("SaveStock", ctx, mock.MatchedBy(func(stock domain.InventoryStock) bool {
		// Issues never move the average cost.
		return stock.QuantityOnHand.Equal(dec("60")) && stock.AverageCost.Equal(dec("10.00"))
	})).Return(nil)
	repo.tx.On("InsertMovement", ctx, mock.MatchedBy(func(mv domain.InventoryMovement) bool {
		return mv.SignedQuantity.Equal(dec("-40")) && mv.UnitCost.Equal(dec("10.00"))
	})).Return(nil)

	movement, err := svc.RecordMovement(ctx, testCompanyID, dto.RecordMovementRequest{
		ProductID:    "prod-1",
		MovementType: domain.MovementSalesOut,
		Quantity:     dec("40"),
	}, testActorID)

	assert.NoError(t, err)
	assert.True(t, movement.SignedQuantity.IsNegative())
}

func TestRecordMovement_Oversell(t *testing.T) {
	svc, repo := newInventoryService()
	ctx := context.Background()

	stock := stockOnHand("10", "10.00")
	stock.QuantityReserved = dec("4")
	stock.Recompute()

	repo.On("WithTx", ctx).Return(nil)
	repo.tx.On("GetStockForUpdate", ctx, testCompanyID, "prod-1", testActorID).Return(stock, nil)

	_, err := svc.RecordMovement(ctx, testCompanyID, dto.RecordMovementRequest{
		ProductID:    "prod-1",
		MovementType: domain.MovementSalesOut,
		Quantity:     dec("7"), // only 6 available, 4 are reserved
	}, testActorID)

	assert.ErrorIs(t, err, services.ErrInsufficientStock)
	repo.tx.AssertNotCalled(t, "SaveStock", mock.Anything, mock.Anything)
	repo.tx.AssertNotCalled(t, "InsertMovement", mock.Anything, mock.Anything)
}

func TestRecordMovement_Validation(t *testing.T) {
	t.Run("non-positive quantity", func(t *testing.T) {
		svc, repo := newInventoryService()

		_, err := svc.RecordMovement(context.Background(), testCompanyID, dto.RecordMovementRequest{
			ProductID:    "prod-1",
			MovementType: domain.MovementSalesOut,
			Quantity:     dec("0"),
		}, testActorID)

		assert.ErrorIs(t, err, services.ErrQuantityNotPositive)
		repo.AssertNotCalled(t, "WithTx", mock.Anything)
	})

	t.Run("unknown movement type", func(t *testing.T) {
		svc, _ := newInventoryService()

		_, err := svc.RecordMovement(context.Background(), testCompanyID, dto.RecordMovementRequest{
			ProductID:    "prod-1",
			MovementType: "TRANSFER",
			Quantity:     dec("5"),
		}, testActorID)

		assert.ErrorIs(t, err, services.ErrUnknownMovement)
	})

	t.Run("inbound without unit cost", func(t *testing.T) {
		svc, _ := newInventoryService()

		_, err := svc.RecordMovement(context.Background(), testCompanyID, dto.RecordMovementRequest{
			ProductID:    "prod-1",
			MovementType: domain.MovementPurchaseIn,
			Quantity:     dec("5"),
		}, testActorID)

		assert.ErrorIs(t, err, services.ErrUnitCostRequired)
	})
}

func TestReserveStock(t *testing.T) {
	t.Run("moves quantity to reserved", func(t *testing.T) {
		svc, repo := newInventoryService()
		ctx := context.Background()

		repo.On("WithTx", ctx).Return(nil)
		repo.tx.On("GetStockForUpdate", ctx, testCompanyID, "prod-1", testActorID).Return(stockOnHand("100", "10.00"), nil)
		repo.tx.On("SaveStock", ctx, mock.MatchedBy(func(stock domain.InventoryStock) bool {
			return stock.QuantityReserved.Equal(dec("30")) &&
				stock.QuantityOnHand.Equal(dec("100")) &&
				stock.QuantityAvailable.Equal(dec("70"))
		})).Return(nil)

		stock, err := svc.ReserveStock(ctx, testCompanyID, "prod-1", dto.ReserveStockRequest{Quantity: dec("30")}, testActorID)

		assert.NoError(t, err)
		assert.True(t, dec("70").Equal(stock.QuantityAvailable))
		repo.tx.AssertExpectations(t)
	})

	t.Run("cannot reserve beyond available", func(t *testing.T) {
		svc, repo := newInventoryService()
		ctx := context.Background()

		stock := stockOnHand("10", "10.00")
		stock.QuantityReserved = dec("8")
		stock.Recompute()

		repo.On("WithTx", ctx).Return(nil)
		repo.tx.On("GetStockForUpdate", ctx, testCompanyID, "prod-1", testActorID).Return(stock, nil)

		_, err := svc.ReserveStock(ctx, testCompanyID, "prod-1", dto.ReserveStockRequest{Quantity: dec("3")}, testActorID)

		assert.ErrorIs(t, err, services.ErrReserveTooMuch)
	})
}

func TestReleaseReserved(t *testing.T) {
	t.Run("returns quantity to available", func(t *testing.T) {
		svc, repo := newInventoryService()
		ctx := context.Background()

		stock := stockOnHand("100", "10.00")
		stock.QuantityReserved = dec("30")
		stock.Recompute()

		repo.On("WithTx", ctx).Return(nil)
		repo.tx.On("GetStockForUpdate", ctx, testCompanyID, "prod-1", testActorID).Return(stock, nil)
		repo.tx.On("SaveStock", ctx, mock.MatchedBy(func(s domain.InventoryStock) bool {
			return s.QuantityReserved.Equal(dec("10")) && s.QuantityAvailable.Equal(dec("90"))
		})).Return(nil)

		got, err := svc.ReleaseReserved(ctx, testCompanyID, "prod-1", dto.ReserveStockRequest{Quantity: dec("20")}, testActorID)

		assert.NoError(t, err)
		assert.True(t, dec("90").Equal(got.QuantityAvailable))
	})

	t.Run("cannot release more than reserved", func(t *testing.T) {
		svc, repo := newInventoryService()
		ctx := context.Background()

		stock := stockOnHand("100", "10.00")
		stock.QuantityReserved = dec("5")
		stock.Recompute()

		repo.On("WithTx", ctx).Return(nil)
		repo.tx.On("GetStockForUpdate", ctx, testCompanyID, "prod-1", testActorID).Return(stock, nil)

		_, err := svc.ReleaseReserved(ctx, testCompanyID, "prod-1", dto.ReserveStockRequest{Quantity: dec("6")}, testActorID)

		assert.ErrorIs(t, err, services.ErrReleaseTooMuch)
	})
}

func TestFIFOBatches(t *testing.T) {
	svc, repo := newInventoryService()
	ctx := context.Background()

	base := day(2026, time.February, 1)
	inbound := []domain.InventoryMovement{
		{MovementID: "mv-1", MovementDate: base, SignedQuantity: dec("100"), UnitCost: dec("10.00")},
		{MovementID: "mv-2", MovementDate: base.AddDate(0, 0, 7), SignedQuantity: dec("50"), UnitCost: dec("12.00")},
	}

	repo.On("ListInboundMovements", ctx, testCompanyID, "prod-1").Return(inbound, nil)
	repo.On("TotalOutboundQuantity", ctx, testCompanyID, "prod-1").Return(dec("110"), nil)

	batches, err := svc.FIFOBatches(ctx, testCompanyID, "prod-1")

	assert.NoError(t, err)
	assert.Len(t, batches, 1)
	assert.Equal(t, "mv-2", batches[0].MovementID)
	assert.True(t, dec("40").Equal(batches[0].Remaining))
}

func TestListMovements_DefaultsLimit(t *testing.T) {
	svc, repo := newInventoryService()
	ctx := context.Background()

	repo.On("ListMovements", ctx, testCompanyID, "prod-1", 20, (*string)(nil)).
		Return([]domain.InventoryMovement{}, nil, nil)

	resp, err := svc.ListMovements(ctx, testCompanyID, "prod-1", dto.ListMovementsParams{})

	assert.NoError(t, err)
	assert.Empty(t, resp.Movements)
	repo.AssertExpectations(t)
}
