package domain

import (
	"fmt"
	"time"
)

// FiscalYearStatus is the lifecycle state of a fiscal year.
type FiscalYearStatus string

const (
	YearOpen   FiscalYearStatus = "OPEN"
	YearClosed FiscalYearStatus = "CLOSED"
	YearLocked FiscalYearStatus = "LOCKED" // Terminal; cascades to all periods
)

// FiscalPeriodStatus is the lifecycle state of a fiscal period.
type FiscalPeriodStatus string

const (
	PeriodOpen      FiscalPeriodStatus = "OPEN"
	PeriodClosed    FiscalPeriodStatus = "CLOSED"
	PeriodAdjusting FiscalPeriodStatus = "ADJUSTING" // Still postable, for closing adjustments
	PeriodLocked    FiscalPeriodStatus = "LOCKED"    // Terminal
)

// FiscalYear groups contiguous fiscal periods. Years of one company never overlap.
type FiscalYear struct {
	YearID    string           `json:"yearID"`
	CompanyID string           `json:"companyID"`
	Name      string           `json:"name"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	Status    FiscalYearStatus `json:"status"`
	IsCurrent bool             `json:"isCurrent"` // At most one per company
	AuditFields
}

// FiscalPeriod is one posting window within a fiscal year.
type FiscalPeriod struct {
	PeriodID     string             `json:"periodID"`
	YearID       string             `json:"yearID"`
	PeriodNumber int                `json:"periodNumber"` // 1-based, unique within year
	Name         string             `json:"name"`
	StartDate    time.Time          `json:"startDate"`
	EndDate      time.Time          `json:"endDate"`
	Status       FiscalPeriodStatus `json:"status"`
	AuditFields
}

// IsPostable reports whether journal entries may be posted into the period.
func (p FiscalPeriod) IsPostable() bool {
	return p.Status == PeriodOpen || p.Status == PeriodAdjusting
}

// Contains reports whether the date falls inside the period (inclusive).
func (p FiscalPeriod) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// PeriodBoundary holds the computed window for one generated period.
type PeriodBoundary struct {
	Number    int
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// MonthlyPeriodBoundaries partitions [start, end] into calendar-month windows,
// contiguous and non-overlapping, numbered from 1. The first window starts at
// start and the last ends at end even when they are partial months.
func MonthlyPeriodBoundaries(start, end time.Time) []PeriodBoundary {
	if end.Before(start) {
		return nil
	}
	var out []PeriodBoundary
	cursor := start
	number := 1
	for !cursor.After(end) {
		monthEnd := time.Date(cursor.Year(), cursor.Month(), 1, 0, 0, 0, 0, cursor.Location()).
			AddDate(0, 1, -1)
		periodEnd := monthEnd
		if periodEnd.After(end) {
			periodEnd = end
		}
		out = append(out, PeriodBoundary{
			Number:    number,
			Name:      fmt.Sprintf("%s %d", cursor.Month().String(), cursor.Year()),
			StartDate: cursor,
			EndDate:   periodEnd,
		})
		cursor = periodEnd.AddDate(0, 0, 1)
		number++
	}
	return out
}
