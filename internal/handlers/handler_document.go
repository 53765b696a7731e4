package handlers

import (
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

// documentHandler handles HTTP requests for the document-to-journal bridge.
type documentHandler struct {
	bridgeService portssvc.DocumentBridgeSvcFacade
}

// newDocumentHandler creates a new documentHandler.
func newDocumentHandler(bs portssvc.DocumentBridgeSvcFacade) *documentHandler {
	return &documentHandler{
		bridgeService: bs,
	}
}

// registerDocumentRoutes registers routes related to document posting.
func registerDocumentRoutes(rg *gin.RouterGroup, bridgeService portssvc.DocumentBridgeSvcFacade) {
	h := newDocumentHandler(bridgeService)

	documents := rg.Group("/documents")
	{
		documents.POST("/post", h.postDocument)
		documents.POST("/:kind/:id/void", h.voidDocument)
	}
}

// postDocument godoc
// @Summary Post a business document to the journal
// @Description Builds a journal entry from the document's allocations and posts it in one shot
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   document body dto.PostDocumentRequest true "Document posting details"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Document already has a posted entry"
// @Failure 503 {object} map[string]string "Concurrent conflict, retry"
// @Failure 500 {object} map[string]string "Failed to post document"
// @Router /documents/post [post]
func (h *documentHandler) postDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, actorID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	logger = logger.With(slog.String("ref_kind", string(req.Reference.Kind)), slog.String("ref_id", req.Reference.ID))

	entry, err := h.bridgeService.PostDocument(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation),
			errors.Is(err, services.ErrEntryUnbalanced),
			errors.Is(err, services.ErrDateOutsidePeriod),
			errors.Is(err, services.ErrAccountNotPostable):
			logger.Warn("Validation error posting document", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrDocumentAlreadyPosted), errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Document already posted", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrPeriodNotPostable), errors.Is(err, apperrors.ErrStateConflict):
			logger.Warn("Document posting rejected by period state", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConcurrency):
			logger.Warn("Concurrent conflict posting document", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Conflicting update, please retry"})
		default:
			logger.Error("Failed to post document in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post document"})
		}
		return
	}

	logger.Info("Document posted successfully", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// voidDocument godoc
// @Summary Void the journal entry of a document
// @Description Voids the entry generated from the document, re-opening the reference for posting
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   kind path string true "Document kind" Enums(SALES_INVOICE, SALES_RETURN, PURCHASE_INVOICE, PURCHASE_RETURN, PAYMENT, RECEIPT, EXPENSE, INVENTORY_ADJ, OPENING)
// @Param   id path string true "Document ID"
// @Param   void body dto.VoidJournalEntryRequest true "Void reason"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid document kind or missing reason"
// @Failure 404 {object} map[string]string "No entry for the reference"
// @Failure 409 {object} map[string]string "Entry is not posted or already reversed"
// @Failure 503 {object} map[string]string "Concurrent conflict, retry"
// @Failure 500 {object} map[string]string "Failed to void document"
// @Router /documents/{kind}/{id}/void [post]
func (h *documentHandler) voidDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ref := domain.DocumentRef{Kind: domain.DocumentKind(c.Param("kind")), ID: c.Param("id")}
	if err := ref.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req dto.VoidJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for VoidDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, actorID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	logger = logger.With(slog.String("ref_kind", string(ref.Kind)), slog.String("ref_id", ref.ID))

	entry, err := h.bridgeService.VoidDocument(c.Request.Context(), companyID, ref, req.Reason, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No entry for the reference"})
		case errors.Is(err, services.ErrVoidReasonMissing), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error voiding document", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrEntryNotPosted),
			errors.Is(err, services.ErrEntryReversed),
			errors.Is(err, services.ErrPeriodNotPostable),
			errors.Is(err, apperrors.ErrStateConflict):
			logger.Warn("Document void rejected by entry or period state", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConcurrency):
			logger.Warn("Concurrent conflict voiding document", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Conflicting update, please retry"})
		default:
			logger.Error("Failed to void document in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to void document"})
		}
		return
	}

	logger.Info("Document entry voided successfully", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}
