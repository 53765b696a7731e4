package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks_backend/internal/core/ports/repositories"
	"github.com/corebooks/corebooks_backend/internal/models"
	"github.com/corebooks/corebooks_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const balanceColumns = `balance_id, company_id, account_id, period_id, opening_debit, opening_credit, period_debit, period_credit, closing_debit, closing_credit, net_balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxBalanceRepository struct {
	BaseRepository
}

// newPgxBalanceRepository creates a new repository for balance data.
func newPgxBalanceRepository(pool *pgxpool.Pool) portsrepo.BalanceRepositoryFacade {
	return &PgxBalanceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

func scanAccountBalance(row pgx.Row) (models.AccountBalance, error) {
	var m models.AccountBalance
	err := row.Scan(
		&m.BalanceID,
		&m.CompanyID,
		&m.AccountID,
		&m.PeriodID,
		&m.OpeningDebit,
		&m.OpeningCredit,
		&m.PeriodDebit,
		&m.PeriodCredit,
		&m.ClosingDebit,
		&m.ClosingCredit,
		&m.NetBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// GetBalance retrieves the balance row for (account, period).
func (r *PgxBalanceRepository) GetBalance(ctx context.Context, accountID string, periodID string) (*domain.AccountBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM account_balances WHERE account_id = $1 AND period_id = $2;`

	m, err := scanAccountBalance(r.Pool.QueryRow(ctx, query, accountID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get balance for account %s: %w", accountID, err)
	}
	balance := mapping.ToDomainAccountBalance(m)
	return &balance, nil
}

// ListBalancesByPeriod retrieves every balance row of a period, ordered by
// the account code.
func (r *PgxBalanceRepository) ListBalancesByPeriod(ctx context.Context, companyID string, periodID string) ([]domain.AccountBalance, error) {
	query := `
		SELECT ` + balanceColumnsPrefixed("b") + `
		FROM account_balances b
		JOIN accounts a ON a.account_id = b.account_id
		WHERE b.company_id = $1 AND b.period_id = $2
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	var out []domain.AccountBalance
	for rows.Next() {
		m, err := scanAccountBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}
		out = append(out, mapping.ToDomainAccountBalance(m))
	}
	return out, rows.Err()
}

func balanceColumnsPrefixed(alias string) string {
	return alias + `.balance_id, ` + alias + `.company_id, ` + alias + `.account_id, ` + alias + `.period_id, ` +
		alias + `.opening_debit, ` + alias + `.opening_credit, ` + alias + `.period_debit, ` + alias + `.period_credit, ` +
		alias + `.closing_debit, ` + alias + `.closing_credit, ` + alias + `.net_balance, ` +
		alias + `.created_at, ` + alias + `.created_by, ` + alias + `.last_updated_at, ` + alias + `.last_updated_by`
}

// TrialBalance retrieves the period's closing balances for all non-header
// accounts, joined with account details and ordered by code.
func (r *PgxBalanceRepository) TrialBalance(ctx context.Context, companyID string, periodID string) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type, b.closing_debit, b.closing_credit
		FROM account_balances b
		JOIN accounts a ON a.account_id = b.account_id
		WHERE b.company_id = $1 AND b.period_id = $2 AND a.is_header = FALSE
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance: %w", err)
	}
	defer rows.Close()

	var out []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string
		err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &accountType, &row.ClosingDebit, &row.ClosingCredit)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		out = append(out, row)
	}
	return out, rows.Err()
}

// CarryForward copies fromPeriod's closing balances into toPeriod's
// opening balances in one statement. The upsert applies the
// (domain.AccountBalance).SetOpening rule in SQL: re-running overwrites
// the opening figures with the same deterministic values; period
// movement already in toPeriod is preserved and its closing figures
// recomputed.
func (r *PgxBalanceRepository) CarryForward(ctx context.Context, companyID string, fromPeriodID, toPeriodID string, actorID string, now time.Time) (int64, error) {
	query := `
		INSERT INTO account_balances (
			balance_id, company_id, account_id, period_id,
			opening_debit, opening_credit, period_debit, period_credit,
			closing_debit, closing_credit, net_balance,
			created_at, created_by, last_updated_at, last_updated_by
		)
		SELECT
			gen_random_uuid()::text, src.company_id, src.account_id, $3,
			src.closing_debit, src.closing_credit, 0, 0,
			src.closing_debit, src.closing_credit, src.closing_debit - src.closing_credit,
			$4, $5, $4, $5
		FROM account_balances src
		WHERE src.company_id = $1 AND src.period_id = $2
		ON CONFLICT (account_id, period_id)
		DO UPDATE SET
			opening_debit  = EXCLUDED.opening_debit,
			opening_credit = EXCLUDED.opening_credit,
			closing_debit  = EXCLUDED.opening_debit + account_balances.period_debit,
			closing_credit = EXCLUDED.opening_credit + account_balances.period_credit,
			net_balance    = (EXCLUDED.opening_debit + account_balances.period_debit)
			               - (EXCLUDED.opening_credit + account_balances.period_credit),
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, fromPeriodID, toPeriodID, now, actorID)
	if err != nil {
		return 0, fmt.Errorf("failed to carry balances forward: %w", err)
	}
	return tag.RowsAffected(), nil
}
