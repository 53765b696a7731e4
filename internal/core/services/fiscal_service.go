package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks_backend/internal/core/ports/repositories"
	portssvc "github.com/corebooks/corebooks_backend/internal/core/ports/services"
	"github.com/corebooks/corebooks_backend/internal/dto"
	"github.com/corebooks/corebooks_backend/internal/middleware"
)

var (
	ErrYearOverlap        = errors.New("fiscal year overlaps an existing year")
	ErrYearDatesInvalid   = errors.New("fiscal year end date must not precede start date")
	ErrPeriodCloseOrder   = errors.New("periods must close in ascending order")
	ErrPeriodReopenOrder  = errors.New("periods must reopen in descending order")
	ErrYearPeriodsOpen    = errors.New("year still has open periods")
	ErrYearNotClosed      = errors.New("year must be closed before locking")
	ErrReopenInLockedYear = errors.New("cannot reopen a period of a locked year")
)

// fiscalService manages fiscal years and posting periods.
type fiscalService struct {
	fiscalRepo portsrepo.FiscalRepositoryFacade
}

// NewFiscalService creates a new fiscal calendar service.
func NewFiscalService(fiscalRepo portsrepo.FiscalRepositoryFacade) portssvc.FiscalSvcFacade {
	return &fiscalService{fiscalRepo: fiscalRepo}
}

var _ portssvc.FiscalSvcFacade = (*fiscalService)(nil)

// CreateFiscalYear validates non-overlap and persists the year together
// with its generated calendar-month periods.
func (s *fiscalService) CreateFiscalYear(ctx context.Context, companyID string, req dto.CreateFiscalYearRequest, actorID string) (*domain.FiscalYear, []domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	start := req.StartDate.UTC().Truncate(24 * time.Hour)
	end := req.EndDate.UTC().Truncate(24 * time.Hour)
	if end.Before(start) {
		return nil, nil, fmt.Errorf("%w: %s before %s", ErrYearDatesInvalid, end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	overlaps, err := s.fiscalRepo.YearOverlaps(ctx, companyID, start, end, "")
	if err != nil {
		logger.Error("Failed to check fiscal year overlap", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to check year overlap: %w", err)
	}
	if overlaps {
		return nil, nil, fmt.Errorf("%w: [%s, %s]", ErrYearOverlap, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	now := time.Now().UTC()
	year := domain.FiscalYear{
		YearID:      uuid.NewString(),
		CompanyID:   companyID,
		Name:        req.Name,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.YearOpen,
		IsCurrent:   req.IsCurrent,
		AuditFields: domain.NewAuditFields(actorID, now),
	}

	boundaries := domain.MonthlyPeriodBoundaries(start, end)
	periods := make([]domain.FiscalPeriod, len(boundaries))
	for i, b := range boundaries {
		periods[i] = domain.FiscalPeriod{
			PeriodID:     uuid.NewString(),
			YearID:       year.YearID,
			PeriodNumber: b.Number,
			Name:         b.Name,
			StartDate:    b.StartDate,
			EndDate:      b.EndDate,
			Status:       domain.PeriodOpen,
			AuditFields:  domain.NewAuditFields(actorID, now),
		}
	}

	if err := s.fiscalRepo.SaveYearWithPeriods(ctx, year, periods); err != nil {
		logger.Error("Failed to save fiscal year", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, nil, fmt.Errorf("failed to save fiscal year: %w", err)
	}

	if req.IsCurrent {
		if err := s.fiscalRepo.SetCurrentYear(ctx, companyID, year.YearID, actorID, now); err != nil {
			logger.Error("Failed to flag current fiscal year", slog.String("error", err.Error()), slog.String("year_id", year.YearID))
			return nil, nil, fmt.Errorf("failed to set current year: %w", err)
		}
	}

	logger.Info("Fiscal year created", slog.String("year_id", year.YearID), slog.Int("periods", len(periods)))
	return &year, periods, nil
}

// getYearScoped fetches a year and enforces tenant scope.
func (s *fiscalService) getYearScoped(ctx context.Context, companyID string, yearID string) (*domain.FiscalYear, error) {
	year, err := s.fiscalRepo.FindYearByID(ctx, yearID)
	if err != nil {
		return nil, err
	}
	if year.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return year, nil
}

// getPeriodScoped fetches a period plus its year and enforces tenant scope.
func (s *fiscalService) getPeriodScoped(ctx context.Context, companyID string, periodID string) (*domain.FiscalPeriod, *domain.FiscalYear, error) {
	period, err := s.fiscalRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, nil, err
	}
	year, err := s.getYearScoped(ctx, companyID, period.YearID)
	if err != nil {
		return nil, nil, err
	}
	return period, year, nil
}

// GetYear retrieves a fiscal year with its periods.
func (s *fiscalService) GetYear(ctx context.Context, companyID string, yearID string) (*domain.FiscalYear, []domain.FiscalPeriod, error) {
	year, err := s.getYearScoped(ctx, companyID, yearID)
	if err != nil {
		return nil, nil, err
	}
	periods, err := s.fiscalRepo.ListPeriodsByYear(ctx, yearID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return year, periods, nil
}

// ListYears retrieves the company's fiscal years.
func (s *fiscalService) ListYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error) {
	return s.fiscalRepo.ListYears(ctx, companyID)
}

// GetPeriod retrieves a fiscal period.
func (s *fiscalService) GetPeriod(ctx context.Context, companyID string, periodID string) (*domain.FiscalPeriod, error) {
	period, _, err := s.getPeriodScoped(ctx, companyID, periodID)
	return period, err
}

// FindPeriodForDate retrieves the period containing the date.
func (s *fiscalService) FindPeriodForDate(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error) {
	return s.fiscalRepo.FindPeriodForDate(ctx, companyID, date)
}

// CanClosePeriod reports whether every lower-numbered period of the year is
// already closed or locked.
func (s *fiscalService) CanClosePeriod(ctx context.Context, companyID string, periodID string) (bool, error) {
	period, _, err := s.getPeriodScoped(ctx, companyID, periodID)
	if err != nil {
		return false, err
	}
	if !period.IsPostable() {
		return false, nil
	}
	periods, err := s.fiscalRepo.ListPeriodsByYear(ctx, period.YearID)
	if err != nil {
		return false, fmt.Errorf("failed to list periods: %w", err)
	}
	for _, p := range periods {
		if p.PeriodNumber < period.PeriodNumber && p.IsPostable() {
			return false, nil
		}
	}
	return true, nil
}

// ClosePeriod closes a period. Periods close strictly in ascending order
// within their year.
func (s *fiscalService) ClosePeriod(ctx context.Context, companyID string, periodID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, _, err := s.getPeriodScoped(ctx, companyID, periodID)
	if err != nil {
		return err
	}
	if !period.IsPostable() {
		return fmt.Errorf("%w: period %d is %s", apperrors.ErrStateConflict, period.PeriodNumber, period.Status)
	}

	periods, err := s.fiscalRepo.ListPeriodsByYear(ctx, period.YearID)
	if err != nil {
		return fmt.Errorf("failed to list periods: %w", err)
	}
	for _, p := range periods {
		if p.PeriodNumber < period.PeriodNumber && p.IsPostable() {
			return fmt.Errorf("%w: period %d is still %s", ErrPeriodCloseOrder, p.PeriodNumber, p.Status)
		}
	}

	err = s.fiscalRepo.UpdatePeriodStatus(ctx, periodID,
		[]domain.FiscalPeriodStatus{domain.PeriodOpen, domain.PeriodAdjusting},
		domain.PeriodClosed, actorID, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to close period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return err
	}

	logger.Info("Period closed", slog.String("period_id", periodID), slog.Int("period_number", period.PeriodNumber))
	return nil
}

// ReopenPeriod reopens a closed period. Periods reopen strictly in reverse
// order, and never inside a locked year.
func (s *fiscalService) ReopenPeriod(ctx context.Context, companyID string, periodID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, year, err := s.getPeriodScoped(ctx, companyID, periodID)
	if err != nil {
		return err
	}
	if year.Status == domain.YearLocked {
		return ErrReopenInLockedYear
	}
	if period.Status != domain.PeriodClosed {
		return fmt.Errorf("%w: period %d is %s", apperrors.ErrStateConflict, period.PeriodNumber, period.Status)
	}

	periods, err := s.fiscalRepo.ListPeriodsByYear(ctx, period.YearID)
	if err != nil {
		return fmt.Errorf("failed to list periods: %w", err)
	}
	for _, p := range periods {
		if p.PeriodNumber > period.PeriodNumber && p.Status == domain.PeriodClosed {
			return fmt.Errorf("%w: period %d is still closed", ErrPeriodReopenOrder, p.PeriodNumber)
		}
	}

	// Reopening into a closed year also reopens the year.
	if year.Status == domain.YearClosed {
		err = s.fiscalRepo.UpdateYearStatus(ctx, year.YearID,
			[]domain.FiscalYearStatus{domain.YearClosed}, domain.YearOpen, actorID, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to reopen year", slog.String("error", err.Error()), slog.String("year_id", year.YearID))
			return err
		}
	}

	err = s.fiscalRepo.UpdatePeriodStatus(ctx, periodID,
		[]domain.FiscalPeriodStatus{domain.PeriodClosed},
		domain.PeriodOpen, actorID, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to reopen period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return err
	}

	logger.Info("Period reopened", slog.String("period_id", periodID), slog.Int("period_number", period.PeriodNumber))
	return nil
}

// MarkPeriodAdjusting moves an open period into the adjusting state.
func (s *fiscalService) MarkPeriodAdjusting(ctx context.Context, companyID string, periodID string, actorID string) error {
	if _, _, err := s.getPeriodScoped(ctx, companyID, periodID); err != nil {
		return err
	}
	return s.fiscalRepo.UpdatePeriodStatus(ctx, periodID,
		[]domain.FiscalPeriodStatus{domain.PeriodOpen},
		domain.PeriodAdjusting, actorID, time.Now().UTC())
}

// CloseYear closes a year once every period is closed.
func (s *fiscalService) CloseYear(ctx context.Context, companyID string, yearID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	year, err := s.getYearScoped(ctx, companyID, yearID)
	if err != nil {
		return err
	}
	if year.Status != domain.YearOpen {
		return fmt.Errorf("%w: year is %s", apperrors.ErrStateConflict, year.Status)
	}

	periods, err := s.fiscalRepo.ListPeriodsByYear(ctx, yearID)
	if err != nil {
		return fmt.Errorf("failed to list periods: %w", err)
	}
	for _, p := range periods {
		if p.IsPostable() {
			return fmt.Errorf("%w: period %d is %s", ErrYearPeriodsOpen, p.PeriodNumber, p.Status)
		}
	}

	err = s.fiscalRepo.UpdateYearStatus(ctx, yearID,
		[]domain.FiscalYearStatus{domain.YearOpen}, domain.YearClosed, actorID, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to close year", slog.String("error", err.Error()), slog.String("year_id", yearID))
		return err
	}

	logger.Info("Fiscal year closed", slog.String("year_id", yearID))
	return nil
}

// LockYear locks a closed year and cascades the lock to its periods.
// Terminal: there is no unlock.
func (s *fiscalService) LockYear(ctx context.Context, companyID string, yearID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	year, err := s.getYearScoped(ctx, companyID, yearID)
	if err != nil {
		return err
	}
	if year.Status != domain.YearClosed {
		return fmt.Errorf("%w: year is %s", ErrYearNotClosed, year.Status)
	}

	if err := s.fiscalRepo.LockYearCascade(ctx, yearID, actorID, time.Now().UTC()); err != nil {
		logger.Error("Failed to lock year", slog.String("error", err.Error()), slog.String("year_id", yearID))
		return err
	}

	logger.Info("Fiscal year locked", slog.String("year_id", yearID))
	return nil
}

// SetCurrentYear marks the year as the company's current one.
func (s *fiscalService) SetCurrentYear(ctx context.Context, companyID string, yearID string, actorID string) error {
	year, err := s.getYearScoped(ctx, companyID, yearID)
	if err != nil {
		return err
	}
	if year.Status == domain.YearLocked {
		return fmt.Errorf("%w: locked year cannot become current", apperrors.ErrStateConflict)
	}
	return s.fiscalRepo.SetCurrentYear(ctx, companyID, yearID, actorID, time.Now().UTC())
}
