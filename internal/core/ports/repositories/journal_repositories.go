package repositories

import (
	"context"
	"time"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceDelta is the per-account debit/credit effect of posting or voiding
// an entry within one period.
type BalanceDelta struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindEntryByID retrieves an entry header by ID.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves an entry's lines ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindEntryByReference retrieves the entry generated from a source
	// document, voided entries excluded.
	FindEntryByReference(ctx context.Context, companyID string, ref domain.DocumentRef) (*domain.JournalEntry, error)

	// ListEntriesByPeriod retrieves a period's entries ordered by entry number.
	ListEntriesByPeriod(ctx context.Context, companyID string, periodID string) ([]domain.JournalEntry, error)

	// ListEntriesByDateRange retrieves a paginated list of entries within
	// [from, to], newest first, using token pagination.
	ListEntriesByDateRange(ctx context.Context, companyID string, from, to time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalTxRepository exposes the operations available inside a posting
// transaction. Every method runs against the same database transaction;
// the lock order is period, then entry, then accounts, then balances.
type JournalTxRepository interface {
	// GetEntryForUpdate loads and row-locks an entry header.
	GetEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// GetPeriodForUpdate loads and row-locks a fiscal period.
	GetPeriodForUpdate(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// LockAccounts loads and row-locks the referenced accounts. Missing
	// accounts surface as apperrors.ErrIntegrity.
	LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// AllocateEntryNumber increments the per-(company, year) counter row and
	// returns the next sequence value. The counter row is created on first
	// use; the upsert serialises concurrent allocators.
	AllocateEntryNumber(ctx context.Context, companyID string, year int) (int64, error)

	// MarkPosted stamps the entry posted with its allocated number.
	MarkPosted(ctx context.Context, entryID string, entryNumber string, actorID string, now time.Time) error

	// MarkVoided stamps the entry voided with the reason.
	MarkVoided(ctx context.Context, entryID string, actorID string, reason string, now time.Time) error

	// SetReversedBy links the original entry to its reversal.
	SetReversedBy(ctx context.Context, entryID string, reversalEntryID string, actorID string, now time.Time) error

	// InsertEntry persists a new entry header.
	InsertEntry(ctx context.Context, entry domain.JournalEntry) error

	// InsertLines persists an entry's lines.
	InsertLines(ctx context.Context, lines []domain.JournalLine) error

	// ApplyBalanceDeltas applies per-account debit/credit deltas to the
	// (account, period) balance rows, creating absent rows with zero
	// opening values. The statement is an atomic upsert-increment: deltas
	// from concurrent transactions never overwrite each other.
	ApplyBalanceDeltas(ctx context.Context, companyID string, periodID string, deltas map[string]BalanceDelta, actorID string, now time.Time) error
}

// JournalWriter defines write operations for journal data.
type JournalWriter interface {
	// WithTx runs fn inside one database transaction, retrying a bounded
	// number of times on serialization failures. Everything fn writes is
	// committed together or not at all.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx JournalTxRepository) error) error

	// SaveDraft persists a draft entry with its lines atomically.
	SaveDraft(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// UpdateDraft replaces a draft entry's header fields and lines. Fails
	// with apperrors.ErrStateConflict when the entry is not a draft.
	UpdateDraft(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// DeleteDraft removes a draft entry and its lines. Fails with
	// apperrors.ErrStateConflict when the entry is not a draft.
	DeleteDraft(ctx context.Context, entryID string) error
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
