package models

import "time"

// FiscalYear is the persistence shape of a fiscal year.
type FiscalYear struct {
	YearID    string
	CompanyID string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    string
	IsCurrent bool
	AuditFields
}

// FiscalPeriod is the persistence shape of a fiscal period.
type FiscalPeriod struct {
	PeriodID     string
	YearID       string
	PeriodNumber int
	Name         string
	StartDate    time.Time
	EndDate      time.Time
	Status       string
	AuditFields
}
