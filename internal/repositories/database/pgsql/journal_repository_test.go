package pgsql

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
)

// recordingQuerier captures the statement and bound arguments handed to
// the write helpers, without a database.
type recordingQuerier struct {
	sql  string
	args []any
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql = sql
	q.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (q *recordingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("unexpected Query")
}

func (q *recordingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("unexpected QueryRow")
}

// stubEntryRow plays back one entry row for the scan helpers. A nil
// value stands in for SQL NULL and leaves the destination untouched.
type stubEntryRow struct {
	vals []any
}

func (r stubEntryRow) Scan(dest ...any) error {
	for i, v := range r.vals {
		if v == nil {
			continue
		}
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *time.Time:
			*d = v.(time.Time)
		case *decimal.Decimal:
			*d = v.(decimal.Decimal)
		case *sql.NullString:
			*d = v.(sql.NullString)
		}
	}
	return nil
}

func TestInsertEntryBindsNullForDraftNumberAndAbsentReference(t *testing.T) {
	q := &recordingQuerier{}
	entry := domain.JournalEntry{
		EntryID:      "entry-1",
		CompanyID:    "company-1",
		EntryDate:    time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		PeriodID:     "period-3",
		EntryType:    domain.EntryManual,
		CurrencyCode: "USD",
		ExchangeRate: decimal.NewFromInt(1),
		TotalDebit:   decimal.RequireFromString("150.00"),
		TotalCredit:  decimal.RequireFromString("150.00"),
		Status:       domain.EntryDraft,
	}

	err := insertEntry(context.Background(), q, entry)

	assert.NoError(t, err)
	assert.Contains(t, q.sql, "INSERT INTO journal_entries")
	assert.Len(t, q.args, 25)
	// Drafts carry no entry number and this entry has no source document.
	// All three must bind SQL NULL so the partial unique index on
	// (company_id, entry_number) ignores them: two drafts in the same
	// company must never collide on an empty-string key.
	assert.Equal(t, sql.NullString{}, q.args[2], "entry_number")
	assert.Equal(t, sql.NullString{}, q.args[6], "reference_kind")
	assert.Equal(t, sql.NullString{}, q.args[7], "reference_id")
}

func TestInsertEntryBindsAllocatedNumberAndReference(t *testing.T) {
	q := &recordingQuerier{}
	entry := domain.JournalEntry{
		EntryID:     "entry-2",
		CompanyID:   "company-1",
		EntryNumber: "JE-2026-000001",
		EntryDate:   time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		PeriodID:    "period-3",
		EntryType:   domain.EntrySalesInvoice,
		Reference: domain.DocumentRef{
			Kind: domain.DocSalesInvoice,
			ID:   "inv-42",
		},
		CurrencyCode: "USD",
		ExchangeRate: decimal.NewFromInt(1),
		Status:       domain.EntryPosted,
	}

	err := insertEntry(context.Background(), q, entry)

	assert.NoError(t, err)
	assert.Equal(t, sql.NullString{String: "JE-2026-000001", Valid: true}, q.args[2])
	assert.Equal(t, sql.NullString{String: "SALES_INVOICE", Valid: true}, q.args[6])
	assert.Equal(t, sql.NullString{String: "inv-42", Valid: true}, q.args[7])
}

func TestScanJournalEntryMapsNullDraftColumnsToEmpty(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	row := stubEntryRow{vals: []any{
		"entry-1", "company-1",
		nil, // entry_number
		time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		"period-3", "MANUAL",
		nil, nil, // reference_kind, reference_id
		"USD", decimal.NewFromInt(1),
		decimal.RequireFromString("150.00"), decimal.RequireFromString("150.00"),
		"DRAFT", "",
		nil, nil, // reverses_entry_id, reversed_by_entry_id
		"", nil, // posted_by, posted_at
		"", nil, "", // voided_by, voided_at, void_reason
		now, "user-1", now, "user-1",
	}}

	m, err := scanJournalEntry(row)

	assert.NoError(t, err)
	assert.Equal(t, "entry-1", m.EntryID)
	assert.Empty(t, m.EntryNumber)
	assert.Empty(t, m.ReferenceKind)
	assert.Empty(t, m.ReferenceID)
}
