package services

import (
	"context"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/dto"
)

// BalanceReaderSvc defines read operations over aggregated account balances.
type BalanceReaderSvc interface {
	// GetBalance retrieves one account's balance row for a period. Missing
	// rows are returned as an all-zero balance rather than an error.
	GetBalance(ctx context.Context, companyID string, accountID string, periodID string) (*domain.AccountBalance, error)

	// ListByPeriod retrieves every balance row for a period ordered by
	// account code.
	ListByPeriod(ctx context.Context, companyID string, periodID string) ([]domain.AccountBalance, error)

	// TrialBalance produces the trial balance for a period and verifies the
	// debit/credit identity.
	TrialBalance(ctx context.Context, companyID string, periodID string) (*domain.TrialBalance, error)
}

// BalanceWriterSvc defines balance maintenance operations.
type BalanceWriterSvc interface {
	// CarryForward copies closing balances of the preceding period into the
	// opening balances of the target period. Idempotent: re-running
	// overwrites opening figures with the same values.
	CarryForward(ctx context.Context, companyID string, req dto.CarryForwardRequest, actorID string) (*dto.CarryForwardResponse, error)
}

// BalanceSvcFacade combines the balance service interfaces.
type BalanceSvcFacade interface {
	BalanceReaderSvc
	BalanceWriterSvc
}
