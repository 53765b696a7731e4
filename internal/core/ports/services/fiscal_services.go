package services

import (
	"context"
	"time"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/dto"
)

// FiscalReaderSvc defines read operations on the fiscal calendar.
type FiscalReaderSvc interface {
	// GetYear retrieves a fiscal year with its periods.
	GetYear(ctx context.Context, companyID string, yearID string) (*domain.FiscalYear, []domain.FiscalPeriod, error)

	// ListYears retrieves the company's fiscal years.
	ListYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error)

	// GetPeriod retrieves a fiscal period.
	GetPeriod(ctx context.Context, companyID string, periodID string) (*domain.FiscalPeriod, error)

	// FindPeriodForDate retrieves the period containing the date.
	FindPeriodForDate(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error)

	// CanClosePeriod reports whether the period may close now (all
	// lower-numbered periods of its year already closed).
	CanClosePeriod(ctx context.Context, companyID string, periodID string) (bool, error)
}

// FiscalWriterSvc defines write operations on the fiscal calendar.
type FiscalWriterSvc interface {
	// CreateFiscalYear validates non-overlap and persists the year with its
	// generated calendar-month periods.
	CreateFiscalYear(ctx context.Context, companyID string, req dto.CreateFiscalYearRequest, actorID string) (*domain.FiscalYear, []domain.FiscalPeriod, error)

	// ClosePeriod closes a period; periods close in ascending order.
	ClosePeriod(ctx context.Context, companyID string, periodID string, actorID string) error

	// ReopenPeriod reopens a closed period; periods reopen in reverse order.
	ReopenPeriod(ctx context.Context, companyID string, periodID string, actorID string) error

	// MarkPeriodAdjusting moves an open period into the adjusting state.
	MarkPeriodAdjusting(ctx context.Context, companyID string, periodID string, actorID string) error

	// CloseYear closes a year once every period is closed.
	CloseYear(ctx context.Context, companyID string, yearID string, actorID string) error

	// LockYear locks a closed year and cascades the lock to its periods.
	// Terminal and irreversible.
	LockYear(ctx context.Context, companyID string, yearID string, actorID string) error

	// SetCurrentYear marks the year as the company's current one.
	SetCurrentYear(ctx context.Context, companyID string, yearID string, actorID string) error
}

// FiscalSvcFacade combines the fiscal service interfaces.
type FiscalSvcFacade interface {
	FiscalReaderSvc
	FiscalWriterSvc
}
