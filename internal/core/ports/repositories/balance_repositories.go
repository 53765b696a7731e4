package repositories

import (
	"context"
	"time"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
)

// BalanceReader defines read operations for account balance data.
type BalanceReader interface {
	// GetBalance retrieves the balance row for (account, period).
	GetBalance(ctx context.Context, accountID string, periodID string) (*domain.AccountBalance, error)

	// ListBalancesByPeriod retrieves every balance row of a period.
	ListBalancesByPeriod(ctx context.Context, companyID string, periodID string) ([]domain.AccountBalance, error)

	// TrialBalance retrieves the period's closing balances for all
	// non-header accounts, ordered by account code.
	TrialBalance(ctx context.Context, companyID string, periodID string) ([]domain.TrialBalanceRow, error)
}

// BalanceWriter defines write operations for account balance data.
type BalanceWriter interface {
	// CarryForward copies fromPeriod's closing balances into toPeriod's
	// opening balances for every account with a row in fromPeriod, creating
	// or overwriting toPeriod rows deterministically. Repeating the call
	// leaves toPeriod unchanged. Returns the number of accounts carried.
	CarryForward(ctx context.Context, companyID string, fromPeriodID, toPeriodID string, actorID string, now time.Time) (int64, error)
}

// BalanceRepositoryFacade combines the balance repository interfaces.
// Delta application happens through JournalTxRepository inside posting
// transactions, never through a standalone write path.
type BalanceRepositoryFacade interface {
	BalanceReader
	BalanceWriter
}
