package mapping

import (
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/models"
)

func ToModelAccountBalance(b domain.AccountBalance) models.AccountBalance {
	return models.AccountBalance{
		BalanceID:     b.BalanceID,
		CompanyID:     b.CompanyID,
		AccountID:     b.AccountID,
		PeriodID:      b.PeriodID,
		OpeningDebit:  b.OpeningDebit,
		OpeningCredit: b.OpeningCredit,
		PeriodDebit:   b.PeriodDebit,
		PeriodCredit:  b.PeriodCredit,
		ClosingDebit:  b.ClosingDebit,
		ClosingCredit: b.ClosingCredit,
		NetBalance:    b.NetBalance,
		AuditFields:   toModelAuditFields(b.AuditFields),
	}
}

func ToDomainAccountBalance(b models.AccountBalance) domain.AccountBalance {
	return domain.AccountBalance{
		BalanceID:     b.BalanceID,
		CompanyID:     b.CompanyID,
		AccountID:     b.AccountID,
		PeriodID:      b.PeriodID,
		OpeningDebit:  b.OpeningDebit,
		OpeningCredit: b.OpeningCredit,
		PeriodDebit:   b.PeriodDebit,
		PeriodCredit:  b.PeriodCredit,
		ClosingDebit:  b.ClosingDebit,
		ClosingCredit: b.ClosingCredit,
		NetBalance:    b.NetBalance,
		AuditFields:   toDomainAuditFields(b.AuditFields),
	}
}
