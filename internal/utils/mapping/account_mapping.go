package mapping

import (
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/models"
)

// ToModelAccount converts a domain account to its persistence shape.
func ToModelAccount(a domain.Account) models.Account {
	return models.Account{
		AccountID:       a.AccountID,
		CompanyID:       a.CompanyID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		NormalBalance:   string(a.NormalBalance),
		ParentAccountID: a.ParentAccountID,
		Level:           a.Level,
		IsHeader:        a.IsHeader,
		IsSystem:        a.IsSystem,
		IsContra:        a.IsContra,
		IsActive:        a.IsActive,
		Description:     a.Description,
		AuditFields:     toModelAuditFields(a.AuditFields),
	}
}

// ToDomainAccount converts a persistence account to its domain shape.
func ToDomainAccount(a models.Account) domain.Account {
	return domain.Account{
		AccountID:       a.AccountID,
		CompanyID:       a.CompanyID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     domain.AccountType(a.AccountType),
		NormalBalance:   domain.NormalBalance(a.NormalBalance),
		ParentAccountID: a.ParentAccountID,
		Level:           a.Level,
		IsHeader:        a.IsHeader,
		IsSystem:        a.IsSystem,
		IsContra:        a.IsContra,
		IsActive:        a.IsActive,
		Description:     a.Description,
		AuditFields:     toDomainAuditFields(a.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of persistence accounts.
func ToDomainAccountSlice(in []models.Account) []domain.Account {
	out := make([]domain.Account, len(in))
	for i, a := range in {
		out[i] = ToDomainAccount(a)
	}
	return out
}
