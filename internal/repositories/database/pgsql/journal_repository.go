package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks_backend/internal/core/ports/repositories"
	"github.com/corebooks/corebooks_backend/internal/models"
	"github.com/corebooks/corebooks_backend/internal/utils/mapping"
	"github.com/corebooks/corebooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, company_id, entry_number, entry_date, period_id, entry_type, reference_kind, reference_id, currency_code, exchange_rate, total_debit, total_credit, status, memo, reverses_entry_id, reversed_by_entry_id, posted_by, posted_at, voided_by, voided_at, void_reason, created_at, created_by, last_updated_at, last_updated_by`
const lineColumns = `line_id, entry_id, line_number, account_id, debit, credit, base_debit, base_credit, customer_id, supplier_id, product_id, expense_id, memo, created_at, created_by, last_updated_at, last_updated_by`

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, letting the
// reader queries run inside or outside a transaction.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// scanJournalEntry scans one entry row. entry_number is NULL until
// posting allocates one; reference_kind/reference_id are NULL when the
// entry has no source document.
func scanJournalEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	var entryNumber, referenceKind, referenceID sql.NullString
	err := row.Scan(
		&m.EntryID,
		&m.CompanyID,
		&entryNumber,
		&m.EntryDate,
		&m.PeriodID,
		&m.EntryType,
		&referenceKind,
		&referenceID,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Status,
		&m.Memo,
		&m.ReversesEntryID,
		&m.ReversedByEntryID,
		&m.PostedBy,
		&m.PostedAt,
		&m.VoidedBy,
		&m.VoidedAt,
		&m.VoidReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.JournalEntry{}, err
	}
	m.EntryNumber = entryNumber.String
	m.ReferenceKind = referenceKind.String
	m.ReferenceID = referenceID.String
	return m, nil
}

func scanJournalLine(row pgx.Row) (models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.LineNumber,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&m.BaseDebit,
		&m.BaseCredit,
		&m.CustomerID,
		&m.SupplierID,
		&m.ProductID,
		&m.ExpenseID,
		&m.Memo,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func findEntryByID(ctx context.Context, q pgxQuerier, entryID string, forUpdate bool) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	query += `;`

	m, err := scanJournalEntry(q.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

func insertEntry(ctx context.Context, q pgxQuerier, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25);
	`
	_, err := q.Exec(ctx, query,
		m.EntryID, m.CompanyID, nullIfEmpty(m.EntryNumber), m.EntryDate, m.PeriodID, m.EntryType,
		nullIfEmpty(m.ReferenceKind), nullIfEmpty(m.ReferenceID), m.CurrencyCode, m.ExchangeRate,
		m.TotalDebit, m.TotalCredit, m.Status, m.Memo,
		m.ReversesEntryID, m.ReversedByEntryID,
		m.PostedBy, m.PostedAt, m.VoidedBy, m.VoidedAt, m.VoidReason,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: entry %s", apperrors.ErrDuplicate, m.EntryID)
		}
		return fmt.Errorf("failed to insert entry %s: %w", m.EntryID, err)
	}
	return nil
}

func insertLines(ctx context.Context, q pgxQuerier, lines []domain.JournalLine) error {
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(`
			INSERT INTO journal_lines (`+lineColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
		`,
			m.LineID, m.EntryID, m.LineNumber, m.AccountID,
			m.Debit, m.Credit, m.BaseDebit, m.BaseCredit,
			m.CustomerID, m.SupplierID, m.ProductID, m.ExpenseID, m.Memo,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}

	var br pgx.BatchResults
	switch conn := q.(type) {
	case pgx.Tx:
		br = conn.SendBatch(ctx, batch)
	case *pgxpool.Pool:
		br = conn.SendBatch(ctx, batch)
	default:
		return fmt.Errorf("unsupported querier type for batch insert")
	}
	defer br.Close()
	for range lines {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert journal line: %w", err)
		}
	}
	return nil
}

// FindEntryByID retrieves an entry header by ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return findEntryByID(ctx, r.Pool, entryID, false)
}

// FindLinesByEntryID retrieves an entry's lines ordered by line number.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_number;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var out []models.JournalLine
	for rows.Next() {
		m, err := scanJournalLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating line rows: %w", err)
	}
	return mapping.ToDomainJournalLineSlice(out), nil
}

// FindEntryByReference retrieves the entry generated from a source
// document. Voided entries are excluded so a voided document can be
// posted again.
func (r *PgxJournalRepository) FindEntryByReference(ctx context.Context, companyID string, ref domain.DocumentRef) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND reference_kind = $2 AND reference_id = $3 AND status <> $4
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, companyID, string(ref.Kind), ref.ID, string(domain.EntryVoided)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry for document %s/%s: %w", ref.Kind, ref.ID, err)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// ListEntriesByPeriod retrieves a period's entries ordered by entry number.
func (r *PgxJournalRepository) ListEntriesByPeriod(ctx context.Context, companyID string, periodID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND period_id = $2
		ORDER BY entry_number, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries by period: %w", err)
	}
	defer rows.Close()

	var out []domain.JournalEntry
	for rows.Next() {
		m, err := scanJournalEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		out = append(out, mapping.ToDomainJournalEntry(m))
	}
	return out, rows.Err()
}

// ListEntriesByDateRange retrieves a page of entries within [from, to],
// newest first, resuming after the token's (entry_date, created_at) cursor.
func (r *PgxJournalRepository) ListEntriesByDateRange(ctx context.Context, companyID string, from, to time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := []any{companyID, from, to}
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND entry_date >= $2 AND entry_date <= $3
	`
	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (entry_date, created_at) < ($4, $5)`
		args = append(args, entryDate, createdAt)
	}
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var out []domain.JournalEntry
	for rows.Next() {
		m, err := scanJournalEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		out = append(out, mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed iterating entry rows: %w", err)
	}

	var token *string
	if len(out) > limit {
		out = out[:limit]
		last := out[len(out)-1]
		t := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &t
	}
	return out, token, nil
}

// SaveDraft persists a draft entry with its lines atomically.
func (r *PgxJournalRepository) SaveDraft(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	return r.runInTx(ctx, func(tx pgx.Tx) error {
		if err := insertEntry(ctx, tx, entry); err != nil {
			return err
		}
		return insertLines(ctx, tx, lines)
	})
}

// UpdateDraft replaces a draft entry's header fields and lines.
func (r *PgxJournalRepository) UpdateDraft(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	m := mapping.ToModelJournalEntry(entry)

	return r.runInTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE journal_entries
			SET entry_date = $2, period_id = $3, memo = $4, total_debit = $5, total_credit = $6,
			    last_updated_at = $7, last_updated_by = $8
			WHERE entry_id = $1 AND status = $9;
		`,
			m.EntryID, m.EntryDate, m.PeriodID, m.Memo, m.TotalDebit, m.TotalCredit,
			m.LastUpdatedAt, m.LastUpdatedBy, string(domain.EntryDraft),
		)
		if err != nil {
			return fmt.Errorf("failed to update draft %s: %w", m.EntryID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: entry is not an editable draft", apperrors.ErrStateConflict)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, m.EntryID); err != nil {
			return fmt.Errorf("failed to clear draft lines: %w", err)
		}
		return insertLines(ctx, tx, lines)
	})
}

// DeleteDraft removes a draft entry and its lines.
func (r *PgxJournalRepository) DeleteDraft(ctx context.Context, entryID string) error {
	return r.runInTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
			return fmt.Errorf("failed to delete draft lines: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = $2;`, entryID, string(domain.EntryDraft))
		if err != nil {
			return fmt.Errorf("failed to delete draft %s: %w", entryID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: entry is not a deletable draft", apperrors.ErrStateConflict)
		}
		return nil
	})
}

// WithTx runs fn against a transactional repository with bounded retry on
// serialization failures.
func (r *PgxJournalRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.JournalTxRepository) error) error {
	return r.runInTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxJournalTxRepository{tx: tx})
	})
}

// pgxJournalTxRepository runs the posting-transaction operations against
// one open pgx transaction.
type pgxJournalTxRepository struct {
	tx pgx.Tx
}

var _ portsrepo.JournalTxRepository = (*pgxJournalTxRepository)(nil)

// GetEntryForUpdate loads and row-locks an entry header.
func (t *pgxJournalTxRepository) GetEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return findEntryByID(ctx, t.tx, entryID, true)
}

// GetPeriodForUpdate loads and row-locks a fiscal period.
func (t *pgxJournalTxRepository) GetPeriodForUpdate(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods WHERE period_id = $1 FOR UPDATE;`

	m, err := scanFiscalPeriod(t.tx.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock period %s: %w", periodID, err)
	}
	period := mapping.ToDomainFiscalPeriod(m)
	return &period, nil
}

// LockAccounts loads and row-locks the referenced accounts. The IDs are
// sorted by the query so concurrent postings acquire locks in the same
// order.
func (t *pgxJournalTxRepository) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`

	rows, err := t.tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		out[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating account rows: %w", err)
	}
	if len(out) != len(accountIDs) {
		for _, id := range accountIDs {
			if _, ok := out[id]; !ok {
				return nil, fmt.Errorf("%w: account %s", apperrors.ErrIntegrity, id)
			}
		}
	}
	return out, nil
}

// AllocateEntryNumber increments the per-(company, year) counter and
// returns the next value. The upsert serialises concurrent allocators on
// the counter row.
func (t *pgxJournalTxRepository) AllocateEntryNumber(ctx context.Context, companyID string, year int) (int64, error) {
	query := `
		INSERT INTO journal_sequences (company_id, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, year)
		DO UPDATE SET last_value = journal_sequences.last_value + 1
		RETURNING last_value;
	`
	var seq int64
	if err := t.tx.QueryRow(ctx, query, companyID, year).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to allocate entry number: %w", err)
	}
	return seq, nil
}

// MarkPosted stamps the entry posted with its allocated number.
func (t *pgxJournalTxRepository) MarkPosted(ctx context.Context, entryID string, entryNumber string, actorID string, now time.Time) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = $2, entry_number = $3, posted_by = $4, posted_at = $5,
		    last_updated_at = $5, last_updated_by = $4
		WHERE entry_id = $1 AND status = $6;
	`, entryID, string(domain.EntryPosted), entryNumber, actorID, now, string(domain.EntryDraft))
	if err != nil {
		return fmt.Errorf("failed to mark entry posted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry is not a draft", apperrors.ErrStateConflict)
	}
	return nil
}

// MarkVoided stamps the entry voided with the reason.
func (t *pgxJournalTxRepository) MarkVoided(ctx context.Context, entryID string, actorID string, reason string, now time.Time) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = $2, voided_by = $3, voided_at = $4, void_reason = $5,
		    last_updated_at = $4, last_updated_by = $3
		WHERE entry_id = $1 AND status = $6;
	`, entryID, string(domain.EntryVoided), actorID, now, reason, string(domain.EntryPosted))
	if err != nil {
		return fmt.Errorf("failed to mark entry voided: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry is not posted", apperrors.ErrStateConflict)
	}
	return nil
}

// SetReversedBy links the original entry to its reversal.
func (t *pgxJournalTxRepository) SetReversedBy(ctx context.Context, entryID string, reversalEntryID string, actorID string, now time.Time) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE journal_entries
		SET reversed_by_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND reversed_by_entry_id IS NULL;
	`, entryID, reversalEntryID, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to link reversal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry already reversed", apperrors.ErrStateConflict)
	}
	return nil
}

// InsertEntry persists a new entry header inside the transaction.
func (t *pgxJournalTxRepository) InsertEntry(ctx context.Context, entry domain.JournalEntry) error {
	return insertEntry(ctx, t.tx, entry)
}

// InsertLines persists an entry's lines inside the transaction.
func (t *pgxJournalTxRepository) InsertLines(ctx context.Context, lines []domain.JournalLine) error {
	return insertLines(ctx, t.tx, lines)
}

// ApplyBalanceDeltas upserts per-account debit/credit deltas into the
// (account, period) balance rows, applying the
// (domain.AccountBalance).AddMovement rule in SQL. The increment happens
// inside the statement, so concurrent postings never lose each other's
// deltas; the derived closing and net columns are recomputed in the same
// statement.
func (t *pgxJournalTxRepository) ApplyBalanceDeltas(ctx context.Context, companyID string, periodID string, deltas map[string]portsrepo.BalanceDelta, actorID string, now time.Time) error {
	query := `
		INSERT INTO account_balances (
			balance_id, company_id, account_id, period_id,
			opening_debit, opening_credit, period_debit, period_credit,
			closing_debit, closing_credit, net_balance,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES (
			gen_random_uuid()::text, $1, $2, $3,
			0, 0, $4, $5,
			$4, $5, $4 - $5,
			$6, $7, $6, $7
		)
		ON CONFLICT (account_id, period_id)
		DO UPDATE SET
			period_debit   = account_balances.period_debit + EXCLUDED.period_debit,
			period_credit  = account_balances.period_credit + EXCLUDED.period_credit,
			closing_debit  = account_balances.opening_debit + account_balances.period_debit + EXCLUDED.period_debit,
			closing_credit = account_balances.opening_credit + account_balances.period_credit + EXCLUDED.period_credit,
			net_balance    = (account_balances.opening_debit + account_balances.period_debit + EXCLUDED.period_debit)
			               - (account_balances.opening_credit + account_balances.period_credit + EXCLUDED.period_credit),
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	batch := &pgx.Batch{}
	for accountID, delta := range deltas {
		batch.Queue(query, companyID, accountID, periodID, delta.Debit, delta.Credit, now, actorID)
	}
	br := t.tx.SendBatch(ctx, batch)
	defer br.Close()
	for range deltas {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to apply balance delta: %w", err)
		}
	}
	return nil
}
