package services

import (
	"context"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries.
type JournalReaderSvc interface {
	// GetEntry retrieves an entry with its lines.
	GetEntry(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error)

	// FindByReference retrieves the non-voided entry generated from a
	// source document, or apperrors.ErrNotFound.
	FindByReference(ctx context.Context, companyID string, ref domain.DocumentRef) (*domain.JournalEntry, error)

	// ListEntries retrieves entries filtered by period or date range.
	ListEntries(ctx context.Context, companyID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)

	// CanPost reports whether the entry satisfies every posting
	// precondition: draft status, exact balance, at least two lines, and a
	// postable period.
	CanPost(ctx context.Context, companyID string, entryID string) (bool, error)

	// CanVoid reports whether the entry can be voided: posted and not
	// already reversed by another entry.
	CanVoid(ctx context.Context, companyID string, entryID string) (bool, error)
}

// JournalWriterSvc defines write operations for journal entries.
type JournalWriterSvc interface {
	// CreateDraft persists a new draft entry with its lines. Balance is not
	// required yet; totals are recomputed from the lines.
	CreateDraft(ctx context.Context, companyID string, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error)

	// UpdateDraft replaces a draft's header fields and lines.
	UpdateDraft(ctx context.Context, companyID string, entryID string, req dto.UpdateJournalEntryRequest, actorID string) (*domain.JournalEntry, error)

	// DeleteDraft removes a draft entry entirely.
	DeleteDraft(ctx context.Context, companyID string, entryID string, actorID string) error

	// PostEntry atomically posts a draft: allocates the entry number,
	// stamps the poster and applies every line's deltas to the period's
	// account balances. Nothing is observable on failure.
	PostEntry(ctx context.Context, companyID string, entryID string, actorID string) (*domain.JournalEntry, error)

	// VoidEntry atomically reverses a posted entry's balance effect and
	// stamps it voided with the mandatory reason. The entry and its lines
	// are preserved for audit.
	VoidEntry(ctx context.Context, companyID string, entryID string, reason string, actorID string) (*domain.JournalEntry, error)

	// ReverseEntry creates and posts a new entry with swapped debits and
	// credits, linked to the original. The original stays posted.
	ReverseEntry(ctx context.Context, companyID string, entryID string, actorID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines the journal service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
