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

const fiscalYearColumns = `year_id, company_id, name, start_date, end_date, status, is_current, created_at, created_by, last_updated_at, last_updated_by`
const fiscalPeriodColumns = `period_id, year_id, period_number, name, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxFiscalRepository struct {
	BaseRepository
}

// newPgxFiscalRepository creates a new repository for fiscal calendar data.
func newPgxFiscalRepository(pool *pgxpool.Pool) portsrepo.FiscalRepositoryFacade {
	return &PgxFiscalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalRepositoryFacade = (*PgxFiscalRepository)(nil)

func scanFiscalYear(row pgx.Row) (models.FiscalYear, error) {
	var m models.FiscalYear
	err := row.Scan(
		&m.YearID,
		&m.CompanyID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.IsCurrent,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanFiscalPeriod(row pgx.Row) (models.FiscalPeriod, error) {
	var m models.FiscalPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.YearID,
		&m.PeriodNumber,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindYearByID retrieves a fiscal year by ID.
func (r *PgxFiscalRepository) FindYearByID(ctx context.Context, yearID string) (*domain.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years WHERE year_id = $1;`

	m, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, yearID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", yearID, err)
	}
	year := mapping.ToDomainFiscalYear(m)
	return &year, nil
}

// ListYears retrieves all fiscal years of a company ordered by start date.
func (r *PgxFiscalRepository) ListYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years WHERE company_id = $1 ORDER BY start_date;`

	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal years: %w", err)
	}
	defer rows.Close()

	var out []domain.FiscalYear
	for rows.Next() {
		m, err := scanFiscalYear(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal year row: %w", err)
		}
		out = append(out, mapping.ToDomainFiscalYear(m))
	}
	return out, rows.Err()
}

// YearOverlaps reports whether any existing year of the company overlaps
// the [start, end] window.
func (r *PgxFiscalRepository) YearOverlaps(ctx context.Context, companyID string, start, end time.Time, excludeYearID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM fiscal_years
			WHERE company_id = $1 AND start_date <= $3 AND end_date >= $2 AND year_id <> $4
		);
	`
	var overlaps bool
	err := r.Pool.QueryRow(ctx, query, companyID, start, end, excludeYearID).Scan(&overlaps)
	if err != nil {
		return false, fmt.Errorf("failed to check fiscal year overlap: %w", err)
	}
	return overlaps, nil
}

// FindPeriodByID retrieves a fiscal period by ID.
func (r *PgxFiscalRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods WHERE period_id = $1;`

	m, err := scanFiscalPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	period := mapping.ToDomainFiscalPeriod(m)
	return &period, nil
}

// ListPeriodsByYear retrieves a year's periods ordered by period number.
func (r *PgxFiscalRepository) ListPeriodsByYear(ctx context.Context, yearID string) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods WHERE year_id = $1 ORDER BY period_number;`

	rows, err := r.Pool.Query(ctx, query, yearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var out []models.FiscalPeriod
	for rows.Next() {
		m, err := scanFiscalPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating period rows: %w", err)
	}
	return mapping.ToDomainFiscalPeriodSlice(out), nil
}

// FindPeriodForDate retrieves the period of the company whose window
// contains the date.
func (r *PgxFiscalRepository) FindPeriodForDate(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumnsPrefixed("p") + `
		FROM fiscal_periods p
		JOIN fiscal_years y ON y.year_id = p.year_id
		WHERE y.company_id = $1 AND p.start_date <= $2 AND p.end_date >= $2;
	`
	m, err := scanFiscalPeriod(r.Pool.QueryRow(ctx, query, companyID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period for date %s: %w", date.Format("2006-01-02"), err)
	}
	period := mapping.ToDomainFiscalPeriod(m)
	return &period, nil
}

// periodColumnsPrefixed qualifies the period column list with a table alias.
func periodColumnsPrefixed(alias string) string {
	return alias + `.period_id, ` + alias + `.year_id, ` + alias + `.period_number, ` + alias + `.name, ` +
		alias + `.start_date, ` + alias + `.end_date, ` + alias + `.status, ` +
		alias + `.created_at, ` + alias + `.created_by, ` + alias + `.last_updated_at, ` + alias + `.last_updated_by`
}

// SaveYearWithPeriods persists a fiscal year and its generated periods
// in one transaction.
func (r *PgxFiscalRepository) SaveYearWithPeriods(ctx context.Context, year domain.FiscalYear, periods []domain.FiscalPeriod) error {
	my := mapping.ToModelFiscalYear(year)

	return r.runInTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO fiscal_years (`+fiscalYearColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
		`,
			my.YearID, my.CompanyID, my.Name, my.StartDate, my.EndDate,
			my.Status, my.IsCurrent,
			my.CreatedAt, my.CreatedBy, my.LastUpdatedAt, my.LastUpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: fiscal year %s", apperrors.ErrDuplicate, my.Name)
			}
			return fmt.Errorf("failed to insert fiscal year: %w", err)
		}

		batch := &pgx.Batch{}
		for _, p := range periods {
			mp := mapping.ToModelFiscalPeriod(p)
			batch.Queue(`
				INSERT INTO fiscal_periods (`+fiscalPeriodColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
			`,
				mp.PeriodID, mp.YearID, mp.PeriodNumber, mp.Name, mp.StartDate, mp.EndDate,
				mp.Status,
				mp.CreatedAt, mp.CreatedBy, mp.LastUpdatedAt, mp.LastUpdatedBy,
			)
		}
		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for range periods {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to insert fiscal period: %w", err)
			}
		}
		return nil
	})
}

// UpdatePeriodStatus transitions a period guarded by its expected statuses.
func (r *PgxFiscalRepository) UpdatePeriodStatus(ctx context.Context, periodID string, expected []domain.FiscalPeriodStatus, target domain.FiscalPeriodStatus, actorID string, now time.Time) error {
	expectedStrs := make([]string, len(expected))
	for i, s := range expected {
		expectedStrs[i] = string(s)
	}

	query := `
		UPDATE fiscal_periods
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE period_id = $1 AND status = ANY($5);
	`
	tag, err := r.Pool.Exec(ctx, query, periodID, string(target), now, actorID, expectedStrs)
	if err != nil {
		return fmt.Errorf("failed to update period status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the period is gone or its status moved underneath us.
		var current string
		err := r.Pool.QueryRow(ctx, `SELECT status FROM fiscal_periods WHERE period_id = $1;`, periodID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read period status: %w", err)
		}
		return fmt.Errorf("%w: period is %s", apperrors.ErrStateConflict, current)
	}
	return nil
}

// UpdateYearStatus transitions a year guarded by its expected statuses.
func (r *PgxFiscalRepository) UpdateYearStatus(ctx context.Context, yearID string, expected []domain.FiscalYearStatus, target domain.FiscalYearStatus, actorID string, now time.Time) error {
	expectedStrs := make([]string, len(expected))
	for i, s := range expected {
		expectedStrs[i] = string(s)
	}

	query := `
		UPDATE fiscal_years
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE year_id = $1 AND status = ANY($5);
	`
	tag, err := r.Pool.Exec(ctx, query, yearID, string(target), now, actorID, expectedStrs)
	if err != nil {
		return fmt.Errorf("failed to update year status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var current string
		err := r.Pool.QueryRow(ctx, `SELECT status FROM fiscal_years WHERE year_id = $1;`, yearID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read year status: %w", err)
		}
		return fmt.Errorf("%w: year is %s", apperrors.ErrStateConflict, current)
	}
	return nil
}

// LockYearCascade sets a closed year and every one of its periods to LOCKED
// in one transaction.
func (r *PgxFiscalRepository) LockYearCascade(ctx context.Context, yearID string, actorID string, now time.Time) error {
	return r.runInTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE fiscal_years
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE year_id = $1 AND status = $5;
		`, yearID, string(domain.YearLocked), now, actorID, string(domain.YearClosed))
		if err != nil {
			return fmt.Errorf("failed to lock year: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: year is not closed", apperrors.ErrStateConflict)
		}

		_, err = tx.Exec(ctx, `
			UPDATE fiscal_periods
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE year_id = $1;
		`, yearID, string(domain.PeriodLocked), now, actorID)
		if err != nil {
			return fmt.Errorf("failed to lock periods: %w", err)
		}
		return nil
	})
}

// SetCurrentYear flags yearID as the company's current year and clears the
// flag on all others.
func (r *PgxFiscalRepository) SetCurrentYear(ctx context.Context, companyID string, yearID string, actorID string, now time.Time) error {
	return r.runInTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE fiscal_years
			SET is_current = FALSE, last_updated_at = $2, last_updated_by = $3
			WHERE company_id = $1 AND is_current = TRUE;
		`, companyID, now, actorID)
		if err != nil {
			return fmt.Errorf("failed to clear current year flag: %w", err)
		}

		tag, err := tx.Exec(ctx, `
			UPDATE fiscal_years
			SET is_current = TRUE, last_updated_at = $3, last_updated_by = $4
			WHERE year_id = $1 AND company_id = $2;
		`, yearID, companyID, now, actorID)
		if err != nil {
			return fmt.Errorf("failed to set current year: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}
