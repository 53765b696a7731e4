package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	portssvc "github.com/corebooks/corebooks_backend/internal/core/ports/services"
	"github.com/corebooks/corebooks_backend/internal/core/services"
	"github.com/corebooks/corebooks_backend/internal/dto"
	"github.com/corebooks/corebooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// balanceHandler handles HTTP requests for aggregated account balances.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

// newBalanceHandler creates a new balanceHandler.
func newBalanceHandler(bs portssvc.BalanceSvcFacade) *balanceHandler {
	return &balanceHandler{
		balanceService: bs,
	}
}

// registerBalanceRoutes registers routes related to account balances.
func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := newBalanceHandler(balanceService)

	periods := rg.Group("/periods/:periodID")
	{
		periods.GET("/balances", h.listBalances)
		periods.GET("/balances/:accountID", h.getBalance)
		periods.GET("/trial-balance", h.trialBalance)
	}
	rg.POST("/balances/carry-forward", h.carryForward)
}

// getBalance godoc
// @Summary Get one account's balance for a period
// @Description Retrieves the balance row; accounts with no activity return all zeroes
// @Tags balances
// @Produce  json
// @Param   periodID path string true "Fiscal period ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} map[string]string "Period or account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Router /periods/{periodID}/balances/{accountID} [get]
func (h *balanceHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")
	accountID := c.Param("accountID")

	companyID, _, ok := tenantFromContext(c)
	if !ok {
		return
	}

	balance, err := h.balanceService.GetBalance(c.Request.Context(), companyID, accountID, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Period or account not found"})
			return
		}
		logger.Error("Failed to get balance", slog.String("error", err.Error()),
			slog.String("account_id", accountID), slog.String("period_id", periodID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance))
}

// listBalances godoc
// @Summary List balances for a period
// @Description Retrieves every balance row for a period ordered by account code
// @Tags balances
// @Produce  json
// @Param   periodID path string true "Fiscal period ID"
// @Success 200 {array} dto.AccountBalanceResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to list balances"
// @Router /periods/{periodID}/balances [get]
func (h *balanceHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	companyID, _, ok := tenantFromContext(c)
	if !ok {
		return
	}

	balances, err := h.balanceService.ListByPeriod(c.Request.Context(), companyID, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
			return
		}
		logger.Error("Failed to list balances", slog.String("error", err.Error()), slog.String("period_id", periodID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list balances"})
		return
	}

	resp := make([]dto.AccountBalanceResponse, len(balances))
	for i := range balances {
		resp[i] = dto.ToAccountBalanceResponse(&balances[i])
	}
	c.JSON(http.StatusOK, resp)
}

// trialBalance godoc
// @Summary Trial balance for a period
// @Description Produces the trial balance and verifies the debit/credit identity
// @Tags balances
// @Produce  json
// @Param   periodID path string true "Fiscal period ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to build trial balance"
// @Router /periods/{periodID}/trial-balance [get]
func (h *balanceHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	companyID, _, ok := tenantFromContext(c)
	if !ok {
		return
	}

	tb, err := h.balanceService.TrialBalance(c.Request.Context(), companyID, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
			return
		}
		logger.Error("Failed to build trial balance", slog.String("error", err.Error()), slog.String("period_id", periodID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build trial balance"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// carryForward godoc
// @Summary Carry closing balances forward
// @Description Copies closing balances of the preceding period into the target period's opening balances; idempotent
// @Tags balances
// @Accept  json
// @Produce  json
// @Param   carry body dto.CarryForwardRequest true "Target period"
// @Success 200 {object} dto.CarryForwardResponse
// @Failure 400 {object} map[string]string "Invalid input or no preceding period"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Target period is not postable"
// @Failure 503 {object} map[string]string "Concurrent conflict, retry"
// @Failure 500 {object} map[string]string "Failed to carry balances forward"
// @Router /balances/carry-forward [post]
func (h *balanceHandler) carryForward(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CarryForwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CarryForward", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, actorID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	logger = logger.With(slog.String("to_period_id", req.ToPeriodID))

	resp, err := h.balanceService.CarryForward(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
		case errors.Is(err, services.ErrNoPrecedingPeriod), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error carrying forward", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrCarryIntoClosed), errors.Is(err, apperrors.ErrStateConflict):
			logger.Warn("Carry forward rejected by period state", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConcurrency):
			logger.Warn("Concurrent conflict carrying forward", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Conflicting update, please retry"})
		default:
			logger.Error("Failed to carry balances forward", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to carry balances forward"})
		}
		return
	}

	logger.Info("Balances carried forward", slog.Int64("accounts_carried", resp.AccountsCarried))
	c.JSON(http.StatusOK, resp)
}
