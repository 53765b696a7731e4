package models

import "github.com/shopspring/decimal"

// AccountBalance is the persistence shape of a per-account-per-period
// balance row. (AccountID, PeriodID) is unique.
type AccountBalance struct {
	BalanceID     string
	CompanyID     string
	AccountID     string
	PeriodID      string
	OpeningDebit  decimal.Decimal
	OpeningCredit decimal.Decimal
	PeriodDebit   decimal.Decimal
	PeriodCredit  decimal.Decimal
	ClosingDebit  decimal.Decimal
	ClosingCredit decimal.Decimal
	NetBalance    decimal.Decimal
	AuditFields
}
