package services

import (
	"context"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/dto"
)

// DocumentBridgeSvc turns business documents into posted journal entries.
type DocumentBridgeSvc interface {
	// PostDocument builds a journal entry from the document's allocations
	// and posts it in one shot. A second call for the same reference is
	// rejected with apperrors.ErrDuplicate unless the earlier entry was
	// voided.
	PostDocument(ctx context.Context, companyID string, req dto.PostDocumentRequest, actorID string) (*domain.JournalEntry, error)

	// VoidDocument voids the journal entry generated from the document,
	// which re-opens the reference for posting.
	VoidDocument(ctx context.Context, companyID string, ref domain.DocumentRef, reason string, actorID string) (*domain.JournalEntry, error)
}

// DocumentBridgeSvcFacade is the document bridge service surface.
type DocumentBridgeSvcFacade interface {
	DocumentBridgeSvc
}
