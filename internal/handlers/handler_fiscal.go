package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	portssvc "github.com/corebooks/corebooks_backend/internal/core/ports/services"
	"github.com/corebooks/corebooks_backend/internal/core/services"
	"github.com/corebooks/corebooks_backend/internal/dto"
	"github.com/corebooks/corebooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// fiscalHandler handles HTTP requests related to the fiscal calendar.
type fiscalHandler struct {
	fiscalService portssvc.FiscalSvcFacade
}

// newFiscalHandler creates a new fiscalHandler.
func newFiscalHandler(fs portssvc.FiscalSvcFacade) *fiscalHandler {
	return &fiscalHandler{
		fiscalService: fs,
	}
}

// registerFiscalRoutes registers routes related to fiscal years and periods.
func registerFiscalRoutes(rg *gin.RouterGroup, fiscalService portssvc.FiscalSvcFacade) {
	h := newFiscalHandler(fiscalService)

	years := rg.Group("/fiscal-years")
	{
		years.POST("", h.createFiscalYear)
		years.GET("", h.listFiscalYears)
		years.GET("/:yearID", h.getFiscalYear)
		years.POST("/:yearID/close", h.closeYear)
		years.POST("/:yearID/lock", h.lockYear)
		years.POST("/:yearID/set-current", h.setCurrentYear)
	}

	periods := rg.Group("/fiscal-periods")
	{
		periods.GET("/for-date", h.findPeriodForDate)
		periods.GET("/:periodID", h.getPeriod)
		periods.GET("/:periodID/can-close", h.canClosePeriod)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
		periods.POST("/:periodID/adjusting", h.markPeriodAdjusting)
	}
}

// createFiscalYear godoc
// @Summary Create a fiscal year
// @Description Creates a fiscal year with generated calendar-month periods
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   year body dto.CreateFiscalYearRequest true "Fiscal year details"
// @Success 201 {object} dto.FiscalYearResponse
// @Failure 400 {object} map[string]string "Invalid input format or dates"
// @Failure 409 {object} map[string]string "Year overlaps an existing year"
// @Failure 500 {object} map[string]string "Failed to create fiscal year"
// @Router /fiscal-years [post]
func (h *fiscalHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFiscalYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, actorID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	logger = logger.With(slog.String("company_id", companyID), slog.String("year_name", req.Name))

	year, periods, err := h.fiscalService.CreateFiscalYear(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrYearDatesInvalid), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error creating fiscal year", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrYearOverlap):
			logger.Warn("Fiscal year overlap", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create fiscal year in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fiscal year"})
		}
		return
	}

	logger.Info("Fiscal year created successfully", slog.String("year_id", year.YearID))
	c.JSON(http.StatusCreated, dto.ToFiscalYearResponse(year, periods))
}

// getFiscalYear godoc
// @Summary Get a fiscal year
// @Description Retrieves a fiscal year with its periods
// @Tags fiscal
// @Produce  json
// @Param   yearID path string true "Fiscal year ID"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fiscal year"
// @Router /fiscal-years/{yearID} [get]
func (h *fiscalHandler) getFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	yearID := c.Param("yearID")

	companyID, _, ok := tenantFromContext(c)
	if !ok {
		return
	}

	year, periods, err := h.fiscalService.GetYear(c.Request.Context(), companyID, yearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal year not found"})
			return
		}
		logger.Error("Failed to get fiscal year", slog.String("error", err.Error()), slog.String("year_id", yearID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fiscal year"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(year, periods))
}

// listFiscalYears godoc
// @Summary List fiscal years
// @Description Retrieves the company's fiscal years ordered by start date
// @Tags fiscal
// @Produce  json
// @Success 200 {array} dto.FiscalYearResponse
// @Failure 500 {object} map[string]string "Failed to list fiscal years"
// @Router /fiscal-years [get]
func (h *fiscalHandler) listFiscalYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, _, ok := tenantFromContext(c)
	if !ok {
		return
	}

	years, err := h.fiscalService.ListYears(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list fiscal years", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fiscal years"})
		return
	}

	resp := make([]dto.FiscalYearResponse, len(years))
	for i := range years {
		resp[i] = dto.ToFiscalYearResponse(&years[i], nil)
	}
	c.JSON(http.StatusOK, resp)
}

// getPeriod godoc
// @Summary Get a fiscal period
// @Description Retrieves a fiscal period by its ID
// @Tags fiscal
// @Produce  json
// @Param   periodID path string true "Fiscal period ID"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fiscal period"
// @Router /fiscal-periods/{periodID} [get]
func (h *fiscalHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	companyID, _, ok := tenantFromContext(c)
	if !ok {
		return
	}

	period, err := h.fiscalService.GetPeriod(c.Request.Context(), companyID, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal period not found"})
			return
		}
		logger.Error("Failed to get fiscal period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fiscal period"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// findPeriodForDate godoc
// @Summary Find the fiscal period containing a date
// @Description Retrieves the fiscal period whose date range contains the given date
// @Tags fiscal
// @Produce  json
// @Param   date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "No period covers the date"
// @Failure 500 {object} map[string]string "Failed to find fiscal period"
// @Router /fiscal-periods/for-date [get]
func (h *fiscalHandler) findPeriodForDate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, _, ok := tenantFromContext(c)
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	period, err := h.fiscalService.FindPeriodForDate(c.Request.Context(), companyID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No fiscal period covers the date"})
			return
		}
		logger.Error("Failed to find period for date", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find fiscal period"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// canClosePeriod godoc
// @Summary Check whether a period can close
// @Description Reports whether every lower-numbered period of the year is already closed
// @Tags fiscal
// @Produce  json
// @Param   periodID path string true "Fiscal period ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 500 {object} map[string]string "Failed to check fiscal period"
// @Router /fiscal-periods/{periodID}/can-close [get]
func (h *fiscalHandler) canClosePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	companyID, _, ok := tenantFromContext(c)
	if !ok {
		return
	}

	canClose, err := h.fiscalService.CanClosePeriod(c.Request.Context(), companyID, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal period not found"})
			return
		}
		logger.Error("Failed to check period closeability", slog.String("error", err.Error()), slog.String("period_id", periodID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check fiscal period"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"canClose": canClose})
}

// closePeriod godoc
// @Summary Close a fiscal period
// @Description Closes the period; periods close in ascending order within their year
// @Tags fiscal
// @Produce  json
// @Param   periodID path string true "Fiscal period ID"
// @Success 204 "Period closed"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 409 {object} map[string]string "Period cannot close in its current state"
// @Failure 500 {object} map[string]string "Failed to close fiscal period"
// @Router /fiscal-periods/{periodID}/close [post]
func (h *fiscalHandler) closePeriod(c *gin.Context) {
	h.periodTransition(c, "close", h.fiscalService.ClosePeriod)
}

// reopenPeriod godoc
// @Summary Reopen a closed fiscal period
// @Description Reopens the period; periods reopen in descending order and never in a locked year
// @Tags fiscal
// @Produce  json
// @Param   periodID path string true "Fiscal period ID"
// @Success 204 "Period reopened"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 409 {object} map[string]string "Period cannot reopen in its current state"
// @Failure 500 {object} map[string]string "Failed to reopen fiscal period"
// @Router /fiscal-periods/{periodID}/reopen [post]
func (h *fiscalHandler) reopenPeriod(c *gin.Context) {
	h.periodTransition(c, "reopen", h.fiscalService.ReopenPeriod)
}

// markPeriodAdjusting godoc
// @Summary Mark a period as adjusting
// @Description Moves an open period into the adjusting state
// @Tags fiscal
// @Produce  json
// @Param   periodID path string true "Fiscal period ID"
// @Success 204 "Period marked adjusting"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 409 {object} map[string]string "Period is not open"
// @Failure 500 {object} map[string]string "Failed to update fiscal period"
// @Router /fiscal-periods/{periodID}/adjusting [post]
func (h *fiscalHandler) markPeriodAdjusting(c *gin.Context) {
	h.periodTransition(c, "mark adjusting", h.fiscalService.MarkPeriodAdjusting)
}

// periodTransition runs one period state transition and maps its errors.
func (h *fiscalHandler) periodTransition(c *gin.Context, action string, fn func(ctx context.Context, companyID, periodID, actorID string) error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	companyID, actorID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	logger = logger.With(slog.String("period_id", periodID), slog.String("action", action))

	err := fn(c.Request.Context(), companyID, periodID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal period not found"})
		case errors.Is(err, apperrors.ErrStateConflict),
			errors.Is(err, services.ErrPeriodCloseOrder),
			errors.Is(err, services.ErrPeriodReopenOrder),
			errors.Is(err, services.ErrReopenInLockedYear):
			logger.Warn("Period transition rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConcurrency):
			logger.Warn("Concurrent conflict on period transition", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Conflicting update, please retry"})
		default:
			logger.Error("Failed period transition", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " fiscal period"})
		}
		return
	}

	logger.Info("Period transition applied")
	c.Status(http.StatusNoContent)
}

// closeYear godoc
// @Summary Close a fiscal year
// @Description Closes the year once every period is closed
// @Tags fiscal
// @Produce  json
// @Param   yearID path string true "Fiscal year ID"
// @Success 204 "Year closed"
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 409 {object} map[string]string "Year cannot close in its current state"
// @Failure 500 {object} map[string]string "Failed to close fiscal year"
// @Router /fiscal-years/{yearID}/close [post]
func (h *fiscalHandler) closeYear(c *gin.Context) {
	h.yearTransition(c, "close", h.fiscalService.CloseYear)
}

// lockYear godoc
// @Summary Lock a closed fiscal year
// @Description Locks the year and cascades the lock to its periods; irreversible
// @Tags fiscal
// @Produce  json
// @Param   yearID path string true "Fiscal year ID"
// @Success 204 "Year locked"
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 409 {object} map[string]string "Year is not closed"
// @Failure 500 {object} map[string]string "Failed to lock fiscal year"
// @Router /fiscal-years/{yearID}/lock [post]
func (h *fiscalHandler) lockYear(c *gin.Context) {
	h.yearTransition(c, "lock", h.fiscalService.LockYear)
}

// setCurrentYear godoc
// @Summary Set the company's current fiscal year
// @Description Marks the year as current, clearing the flag from any other year
// @Tags fiscal
// @Produce  json
// @Param   yearID path string true "Fiscal year ID"
// @Success 204 "Current year updated"
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 409 {object} map[string]string "Locked years cannot become current"
// @Failure 500 {object} map[string]string "Failed to set current year"
// @Router /fiscal-years/{yearID}/set-current [post]
func (h *fiscalHandler) setCurrentYear(c *gin.Context) {
	h.yearTransition(c, "set current", h.fiscalService.SetCurrentYear)
}

// yearTransition runs one year state transition and maps its errors.
func (h *fiscalHandler) yearTransition(c *gin.Context, action string, fn func(ctx context.Context, companyID, yearID, actorID string) error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	yearID := c.Param("yearID")

	companyID, actorID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	logger = logger.With(slog.String("year_id", yearID), slog.String("action", action))

	err := fn(c.Request.Context(), companyID, yearID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal year not found"})
		case errors.Is(err, apperrors.ErrStateConflict),
			errors.Is(err, services.ErrYearPeriodsOpen),
			errors.Is(err, services.ErrYearNotClosed):
			logger.Warn("Year transition rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConcurrency):
			logger.Warn("Concurrent conflict on year transition", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Conflicting update, please retry"})
		default:
			logger.Error("Failed year transition", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " fiscal year"})
		}
		return
	}

	logger.Info("Year transition applied")
	c.Status(http.StatusNoContent)
}
