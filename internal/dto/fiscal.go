package dto

import (
	"time"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
)

// CreateFiscalYearRequest defines the data needed to open a fiscal year.
// Periods are generated as calendar months covering the year.
type CreateFiscalYearRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `json:"endDate" binding:"required" time_format:"2006-01-02"`
	IsCurrent bool      `json:"isCurrent"`
}

// FiscalYearResponse mirrors domain.FiscalYear with its periods.
type FiscalYearResponse struct {
	YearID    string                  `json:"yearID"`
	Name      string                  `json:"name"`
	StartDate time.Time               `json:"startDate"`
	EndDate   time.Time               `json:"endDate"`
	Status    domain.FiscalYearStatus `json:"status"`
	IsCurrent bool                    `json:"isCurrent"`
	Periods   []FiscalPeriodResponse  `json:"periods,omitempty"`
}

// FiscalPeriodResponse mirrors domain.FiscalPeriod.
type FiscalPeriodResponse struct {
	PeriodID     string                    `json:"periodID"`
	YearID       string                    `json:"yearID"`
	PeriodNumber int                       `json:"periodNumber"`
	Name         string                    `json:"name"`
	StartDate    time.Time                 `json:"startDate"`
	EndDate      time.Time                 `json:"endDate"`
	Status       domain.FiscalPeriodStatus `json:"status"`
	IsPostable   bool                      `json:"isPostable"`
}

// ToFiscalPeriodResponse converts a domain period.
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		PeriodID:     p.PeriodID,
		YearID:       p.YearID,
		PeriodNumber: p.PeriodNumber,
		Name:         p.Name,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Status:       p.Status,
		IsPostable:   p.IsPostable(),
	}
}

// ToFiscalYearResponse converts a domain year and optional periods.
func ToFiscalYearResponse(y *domain.FiscalYear, periods []domain.FiscalPeriod) FiscalYearResponse {
	resp := FiscalYearResponse{
		YearID:    y.YearID,
		Name:      y.Name,
		StartDate: y.StartDate,
		EndDate:   y.EndDate,
		Status:    y.Status,
		IsCurrent: y.IsCurrent,
	}
	for i := range periods {
		resp.Periods = append(resp.Periods, ToFiscalPeriodResponse(&periods[i]))
	}
	return resp
}
