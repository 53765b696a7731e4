package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks_backend/internal/core/ports/repositories"
	portssvc "github.com/corebooks/corebooks_backend/internal/core/ports/services"
	"github.com/corebooks/corebooks_backend/internal/dto"
	"github.com/corebooks/corebooks_backend/internal/middleware"
	"github.com/corebooks/corebooks_backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

var (
	ErrNoPrecedingPeriod = errors.New("target period has no preceding period")
	ErrCarryIntoClosed   = errors.New("cannot carry forward into a non-postable period")
)

// balanceService serves aggregated balances and period reports.
type balanceService struct {
	balanceRepo portsrepo.BalanceRepositoryFacade
	fiscalSvc   portssvc.FiscalReaderSvc
}

// NewBalanceService creates a new balance service.
func NewBalanceService(balanceRepo portsrepo.BalanceRepositoryFacade, fiscalSvc portssvc.FiscalReaderSvc) portssvc.BalanceSvcFacade {
	return &balanceService{balanceRepo: balanceRepo, fiscalSvc: fiscalSvc}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// GetBalance retrieves one account's balance row for a period. An account
// that never moved in the period reads as all zeros.
func (s *balanceService) GetBalance(ctx context.Context, companyID string, accountID string, periodID string) (*domain.AccountBalance, error) {
	if _, err := s.fiscalSvc.GetPeriod(ctx, companyID, periodID); err != nil {
		return nil, err
	}
	balance, err := s.balanceRepo.GetBalance(ctx, accountID, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.AccountBalance{
				CompanyID:     companyID,
				AccountID:     accountID,
				PeriodID:      periodID,
				OpeningDebit:  decimal.Zero,
				OpeningCredit: decimal.Zero,
				PeriodDebit:   decimal.Zero,
				PeriodCredit:  decimal.Zero,
				ClosingDebit:  decimal.Zero,
				ClosingCredit: decimal.Zero,
				NetBalance:    decimal.Zero,
			}, nil
		}
		return nil, err
	}
	if balance.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return balance, nil
}

// ListByPeriod retrieves every balance row for a period ordered by account code.
func (s *balanceService) ListByPeriod(ctx context.Context, companyID string, periodID string) ([]domain.AccountBalance, error) {
	if _, err := s.fiscalSvc.GetPeriod(ctx, companyID, periodID); err != nil {
		return nil, err
	}
	return s.balanceRepo.ListBalancesByPeriod(ctx, companyID, periodID)
}

// TrialBalance produces the period trial balance and verifies the
// debit/credit identity over the closing totals.
func (s *balanceService) TrialBalance(ctx context.Context, companyID string, periodID string) (*domain.TrialBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.fiscalSvc.GetPeriod(ctx, companyID, periodID); err != nil {
		return nil, err
	}

	rows, err := s.balanceRepo.TrialBalance(ctx, companyID, periodID)
	if err != nil {
		logger.Error("Failed to build trial balance", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, row := range rows {
		totalDebit = totalDebit.Add(row.ClosingDebit)
		totalCredit = totalCredit.Add(row.ClosingCredit)
	}
	totalDebit = money.Round(totalDebit)
	totalCredit = money.Round(totalCredit)

	balanced := money.Equal(totalDebit, totalCredit)
	if !balanced {
		// A posted ledger can only get here through data corruption.
		logger.Error("Trial balance does not balance",
			slog.String("period_id", periodID),
			slog.String("total_debit", totalDebit.String()),
			slog.String("total_credit", totalCredit.String()))
	}

	return &domain.TrialBalance{
		PeriodID:    periodID,
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Balanced:    balanced,
	}, nil
}

// CarryForward copies the closing balances of the period preceding the
// target into the target's opening balances. Deterministic and idempotent;
// re-running after new postings in the source period refreshes the figures.
func (s *balanceService) CarryForward(ctx context.Context, companyID string, req dto.CarryForwardRequest, actorID string) (*dto.CarryForwardResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	target, err := s.fiscalSvc.GetPeriod(ctx, companyID, req.ToPeriodID)
	if err != nil {
		return nil, err
	}
	if !target.IsPostable() {
		return nil, fmt.Errorf("%w: period is %s", ErrCarryIntoClosed, target.Status)
	}

	// The preceding period is the one containing the day before the target
	// starts. Crossing a year boundary works the same way.
	prevDate := target.StartDate.AddDate(0, 0, -1)
	source, err := s.fiscalSvc.FindPeriodForDate(ctx, companyID, prevDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: nothing covers %s", ErrNoPrecedingPeriod, prevDate.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve preceding period: %w", err)
	}

	carried, err := s.balanceRepo.CarryForward(ctx, companyID, source.PeriodID, target.PeriodID, actorID, time.Now().UTC())
	if err != nil {
		logger.Error("Carry-forward failed", slog.String("error", err.Error()),
			slog.String("from_period", source.PeriodID), slog.String("to_period", target.PeriodID))
		return nil, fmt.Errorf("carry-forward failed: %w", err)
	}

	logger.Info("Balances carried forward",
		slog.String("from_period", source.PeriodID),
		slog.String("to_period", target.PeriodID),
		slog.Int64("accounts", carried))
	return &dto.CarryForwardResponse{
		FromPeriodID:    source.PeriodID,
		ToPeriodID:      target.PeriodID,
		AccountsCarried: carried,
	}, nil
}
