package repositories

import (
	"context"
	"time"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
)

// FiscalReader defines read operations for fiscal calendar data.
type FiscalReader interface {
	// FindYearByID retrieves a fiscal year by ID.
	FindYearByID(ctx context.Context, yearID string) (*domain.FiscalYear, error)

	// ListYears retrieves all fiscal years of a company ordered by start date.
	ListYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error)

	// YearOverlaps reports whether any existing year of the company overlaps
	// the [start, end] window, excluding excludeYearID.
	YearOverlaps(ctx context.Context, companyID string, start, end time.Time, excludeYearID string) (bool, error)

	// FindPeriodByID retrieves a fiscal period by ID.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// ListPeriodsByYear retrieves a year's periods ordered by period number.
	ListPeriodsByYear(ctx context.Context, yearID string) ([]domain.FiscalPeriod, error)

	// FindPeriodForDate retrieves the period of the company whose window
	// contains the date.
	FindPeriodForDate(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error)
}

// FiscalWriter defines write operations for fiscal calendar data.
type FiscalWriter interface {
	// SaveYearWithPeriods persists a fiscal year and its generated periods
	// atomically.
	SaveYearWithPeriods(ctx context.Context, year domain.FiscalYear, periods []domain.FiscalPeriod) error

	// UpdatePeriodStatus transitions a period from one of the expected
	// statuses to the target status. Returns apperrors.ErrStateConflict if
	// the period is not in an expected status.
	UpdatePeriodStatus(ctx context.Context, periodID string, expected []domain.FiscalPeriodStatus, target domain.FiscalPeriodStatus, actorID string, now time.Time) error

	// UpdateYearStatus transitions a year the same way.
	UpdateYearStatus(ctx context.Context, yearID string, expected []domain.FiscalYearStatus, target domain.FiscalYearStatus, actorID string, now time.Time) error

	// LockYearCascade sets the year and every one of its periods to LOCKED
	// in one transaction. Only valid from a CLOSED year.
	LockYearCascade(ctx context.Context, yearID string, actorID string, now time.Time) error

	// SetCurrentYear flags yearID as the company's current year and clears
	// the flag on all others, atomically.
	SetCurrentYear(ctx context.Context, companyID string, yearID string, actorID string, now time.Time) error
}

// FiscalRepositoryFacade combines all fiscal repository interfaces.
type FiscalRepositoryFacade interface {
	FiscalReader
	FiscalWriter
}
