package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	portssvc "github.com/corebooks/corebooks_backend/internal/core/ports/services"
	"github.com/corebooks/corebooks_backend/internal/dto"
	"github.com/corebooks/corebooks_backend/internal/middleware"
)

var ErrDocumentAlreadyPosted = errors.New("document already has a posted journal entry")

// documentBridgeService turns business documents into journal entries.
// The per-document accounting rules stay with the calling module; the
// bridge enforces one live entry per document and delegates the posting
// mechanics to the journal engine.
type documentBridgeService struct {
	journalSvc portssvc.JournalSvcFacade
}

// NewDocumentBridgeService creates a new document bridge service.
func NewDocumentBridgeService(journalSvc portssvc.JournalSvcFacade) portssvc.DocumentBridgeSvcFacade {
	return &documentBridgeService{journalSvc: journalSvc}
}

var _ portssvc.DocumentBridgeSvcFacade = (*documentBridgeService)(nil)

// PostDocument builds a journal entry from the document's allocations and
// posts it in one shot. Idempotency guard: a reference that already has a
// non-voided entry is rejected.
func (s *documentBridgeService) PostDocument(ctx context.Context, companyID string, req dto.PostDocumentRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ref := domain.DocumentRef{Kind: req.Reference.Kind, ID: req.Reference.ID}
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if ref.IsZero() {
		return nil, fmt.Errorf("%w: document reference is required", apperrors.ErrValidation)
	}

	existing, err := s.journalSvc.FindByReference(ctx, companyID, ref)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check document reference: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: entry %s", ErrDocumentAlreadyPosted, existing.EntryID)
	}

	lines := make([]dto.JournalLineRequest, len(req.Allocations))
	for i, alloc := range req.Allocations {
		lines[i] = dto.JournalLineRequest{
			AccountID:  alloc.AccountID,
			Debit:      alloc.Debit,
			Credit:     alloc.Credit,
			CustomerID: alloc.CustomerID,
			SupplierID: alloc.SupplierID,
			ProductID:  alloc.ProductID,
			ExpenseID:  alloc.ExpenseID,
			Memo:       alloc.Memo,
		}
	}

	draft, err := s.journalSvc.CreateDraft(ctx, companyID, dto.CreateJournalEntryRequest{
		EntryDate:    req.EntryDate,
		Reference:    &req.Reference,
		CurrencyCode: req.CurrencyCode,
		ExchangeRate: req.ExchangeRate,
		Memo:         req.Memo,
		Lines:        lines,
	}, actorID)
	if err != nil {
		return nil, err
	}

	posted, err := s.journalSvc.PostEntry(ctx, companyID, draft.EntryID, actorID)
	if err != nil {
		// Leave no half-posted artifacts behind. Best effort: the draft
		// carries no balance effect either way.
		if delErr := s.journalSvc.DeleteDraft(ctx, companyID, draft.EntryID, actorID); delErr != nil {
			logger.Error("Failed to clean up draft after posting failure",
				slog.String("entry_id", draft.EntryID), slog.String("error", delErr.Error()))
		}
		return nil, err
	}

	logger.Info("Document posted",
		slog.String("document_kind", string(ref.Kind)),
		slog.String("document_id", ref.ID),
		slog.String("entry_id", posted.EntryID))
	return posted, nil
}

// VoidDocument voids the journal entry generated from the document, which
// re-opens the reference for posting.
func (s *documentBridgeService) VoidDocument(ctx context.Context, companyID string, ref domain.DocumentRef, reason string, actorID string) (*domain.JournalEntry, error) {
	entry, err := s.journalSvc.FindByReference(ctx, companyID, ref)
	if err != nil {
		return nil, err
	}
	return s.journalSvc.VoidEntry(ctx, companyID, entry.EntryID, reason, actorID)
}
