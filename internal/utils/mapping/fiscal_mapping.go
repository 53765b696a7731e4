package mapping

import (
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/models"
)

func ToModelFiscalYear(y domain.FiscalYear) models.FiscalYear {
	return models.FiscalYear{
		YearID:      y.YearID,
		CompanyID:   y.CompanyID,
		Name:        y.Name,
		StartDate:   y.StartDate,
		EndDate:     y.EndDate,
		Status:      string(y.Status),
		IsCurrent:   y.IsCurrent,
		AuditFields: toModelAuditFields(y.AuditFields),
	}
}

func ToDomainFiscalYear(y models.FiscalYear) domain.FiscalYear {
	return domain.FiscalYear{
		YearID:      y.YearID,
		CompanyID:   y.CompanyID,
		Name:        y.Name,
		StartDate:   y.StartDate,
		EndDate:     y.EndDate,
		Status:      domain.FiscalYearStatus(y.Status),
		IsCurrent:   y.IsCurrent,
		AuditFields: toDomainAuditFields(y.AuditFields),
	}
}

func ToModelFiscalPeriod(p domain.FiscalPeriod) models.FiscalPeriod {
	return models.FiscalPeriod{
		PeriodID:     p.PeriodID,
		YearID:       p.YearID,
		PeriodNumber: p.PeriodNumber,
		Name:         p.Name,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Status:       string(p.Status),
		AuditFields:  toModelAuditFields(p.AuditFields),
	}
}

func ToDomainFiscalPeriod(p models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		PeriodID:     p.PeriodID,
		YearID:       p.YearID,
		PeriodNumber: p.PeriodNumber,
		Name:         p.Name,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Status:       domain.FiscalPeriodStatus(p.Status),
		AuditFields:  toDomainAuditFields(p.AuditFields),
	}
}

func ToDomainFiscalPeriodSlice(in []models.FiscalPeriod) []domain.FiscalPeriod {
	out := make([]domain.FiscalPeriod, len(in))
	for i, p := range in {
		out[i] = ToDomainFiscalPeriod(p)
	}
	return out
}
