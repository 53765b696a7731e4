package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	portssvc "github.com/corebooks/corebooks_backend/internal/core/ports/services"
	"github.com/corebooks/corebooks_backend/internal/core/services"
	"github.com/corebooks/corebooks_backend/internal/dto"
	"github.com/corebooks/corebooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// inventoryHandler handles HTTP requests for the inventory costing ledger.
type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

// newInventoryHandler creates a new inventoryHandler.
func newInventoryHandler(is portssvc.InventorySvcFacade) *inventoryHandler {
	return &inventoryHandler{
		inventoryService: is,
	}
}

// registerInventoryRoutes registers routes related to inventory.
func registerInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := newInventoryHandler(inventoryService)

	inventory := rg.Group("/inventory")
	{
		inventory.POST("/movements", h.recordMovement)
		inventory.GET("/reorder-alerts", h.reorderAlerts)
		inventory.GET("/:productID/stock", h.getStock)
		inventory.GET("/:productID/movements", h.listMovements)
		inventory.GET("/:productID/fifo-batches", h.fifoBatches)
		inventory.POST("/:productID/reserve", h.reserveStock)
		inventory.POST("/:productID/release", h.releaseReserved)
	}
}

// recordMovement godoc
// @Summary Record a stock movement
// @Description Applies one typed movement atomically, updating quantity and weighted-average cost
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   movement body dto.RecordMovementRequest true "Movement details"
// @Success 201 {object} dto.InventoryMovementResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Insufficient available stock"
// @Failure 503 {object} map[string]string "Concurrent conflict, retry"
// @Failure 500 {object} map[string]string "Failed to record movement"
// @Router /inventory/movements [post]
func (h *inventoryHandler) recordMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, actorID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	logger = logger.With(slog.String("product_id", req.ProductID), slog.String("movement_type", string(req.MovementType)))

	movement, err := h.inventoryService.RecordMovement(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuantityNotPositive),
			errors.Is(err, services.ErrUnitCostRequired),
			errors.Is(err, services.ErrUnknownMovement),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error recording movement", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInsufficientStock):
			logger.Warn("Insufficient stock for movement", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConcurrency):
			logger.Warn("Concurrent conflict recording movement", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Conflicting update, please retry"})
		default:
			logger.Error("Failed to record movement in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record movement"})
		}
		return
	}

	logger.Info("Movement recorded successfully", slog.String("movement_id", movement.MovementID))
	c.JSON(http.StatusCreated, dto.ToInventoryMovementResponse(movement))
}

// getStock godoc
// @Summary Get stock for a product
// @Description Retrieves the stock row; products that never moved return all zeroes
// @Tags inventory
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {object} dto.InventoryStockResponse
// @Failure 500 {object} map[string]string "Failed to retrieve stock"
// @Router /inventory/{productID}/stock [get]
func (h *inventoryHandler) getStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	companyID, _, ok := tenantFromContext(c)
	if !ok {
		return
	}

	stock, err := h.inventoryService.GetStock(c.Request.Context(), companyID, productID)
	if err != nil {
		logger.Error("Failed to get stock", slog.String("error", err.Error()), slog.String("product_id", productID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stock"})
		return
	}

	c.JSON(http.StatusOK, dto.ToInventoryStockResponse(stock))
}

// listMovements godoc
// @Summary List movements for a product
// @Description Retrieves the product's movement history, newest first, with token pagination
// @Tags inventory
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list movements"
// @Router /inventory/{productID}/movements [get]
func (h *inventoryHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListMovements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	companyID, _, ok := tenantFromContext(c)
	if !ok {
		return
	}

	resp, err := h.inventoryService.ListMovements(c.Request.Context(), companyID, productID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list movements", slog.String("error", err.Error()), slog.String("product_id", productID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list movements"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// fifoBatches godoc
// @Summary FIFO cost batches for a product
// @Description Derives the remaining cost batches from the product's movement history
// @Tags inventory
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {array} dto.FIFOBatchResponse
// @Failure 500 {object} map[string]string "Failed to derive batches"
// @Router /inventory/{productID}/fifo-batches [get]
func (h *inventoryHandler) fifoBatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	companyID, _, ok := tenantFromContext(c)
	if !ok {
		return
	}

	batches, err := h.inventoryService.FIFOBatches(c.Request.Context(), companyID, productID)
	if err != nil {
		logger.Error("Failed to derive FIFO batches", slog.String("error", err.Error()), slog.String("product_id", productID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to derive batches"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFIFOBatchResponses(batches))
}

// reorderAlerts godoc
// @Summary List products at or below their reorder level
// @Description Retrieves stock rows whose available quantity is at or below the configured reorder level
// @Tags inventory
// @Produce  json
// @Success 200 {array} dto.InventoryStockResponse
// @Failure 500 {object} map[string]string "Failed to list reorder alerts"
// @Router /inventory/reorder-alerts [get]
func (h *inventoryHandler) reorderAlerts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, _, ok := tenantFromContext(c)
	if !ok {
		return
	}

	stocks, err := h.inventoryService.ReorderAlerts(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list reorder alerts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reorder alerts"})
		return
	}

	resp := make([]dto.InventoryStockResponse, len(stocks))
	for i := range stocks {
		resp[i] = dto.ToInventoryStockResponse(&stocks[i])
	}
	c.JSON(http.StatusOK, resp)
}

// reserveStock godoc
// @Summary Reserve stock for a product
// @Description Moves quantity from available to reserved without changing quantity on hand
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   reserve body dto.ReserveStockRequest true "Quantity to reserve"
// @Success 200 {object} dto.InventoryStockResponse
// @Failure 400 {object} map[string]string "Invalid quantity"
// @Failure 409 {object} map[string]string "Cannot reserve more than available"
// @Failure 503 {object} map[string]string "Concurrent conflict, retry"
// @Failure 500 {object} map[string]string "Failed to reserve stock"
// @Router /inventory/{productID}/reserve [post]
func (h *inventoryHandler) reserveStock(c *gin.Context) {
	h.reservationChange(c, "reserve", h.inventoryService.ReserveStock, services.ErrReserveTooMuch)
}

// releaseReserved godoc
// @Summary Release reserved stock for a product
// @Description Returns previously reserved quantity to available
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   release body dto.ReserveStockRequest true "Quantity to release"
// @Success 200 {object} dto.InventoryStockResponse
// @Failure 400 {object} map[string]string "Invalid quantity"
// @Failure 409 {object} map[string]string "Cannot release more than reserved"
// @Failure 503 {object} map[string]string "Concurrent conflict, retry"
// @Failure 500 {object} map[string]string "Failed to release stock"
// @Router /inventory/{productID}/release [post]
func (h *inventoryHandler) releaseReserved(c *gin.Context) {
	h.reservationChange(c, "release", h.inventoryService.ReleaseReserved, services.ErrReleaseTooMuch)
}

type reservationFn func(ctx context.Context, companyID, productID string, req dto.ReserveStockRequest, actorID string) (*domain.InventoryStock, error)

func (h *inventoryHandler) reservationChange(c *gin.Context, action string, fn reservationFn, conflictErr error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	var req dto.ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for reservation change", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, actorID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	logger = logger.With(slog.String("product_id", productID), slog.String("action", action))

	stock, err := fn(c.Request.Context(), companyID, productID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuantityNotPositive), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error on reservation change", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, conflictErr):
			logger.Warn("Reservation change rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConcurrency):
			logger.Warn("Concurrent conflict on reservation change", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Conflicting update, please retry"})
		default:
			logger.Error("Failed reservation change", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " stock"})
		}
		return
	}

	logger.Info("Reservation change applied")
	c.JSON(http.StatusOK, dto.ToInventoryStockResponse(stock))
}
