package domain

import "github.com/shopspring/decimal"

// AccountBalance is the running total for one account within one fiscal
// period. closing = opening + period per side; net = closingDebit −
// closingCredit. Rows are created lazily on first posting and carried
// forward between periods by an explicit operation.
type AccountBalance struct {
	BalanceID     string          `json:"balanceID"`
	CompanyID     string          `json:"companyID"`
	AccountID     string          `json:"accountID"`
	PeriodID      string          `json:"periodID"`
	OpeningDebit  decimal.Decimal `json:"openingDebit"`
	OpeningCredit decimal.Decimal `json:"openingCredit"`
	PeriodDebit   decimal.Decimal `json:"periodDebit"`
	PeriodCredit  decimal.Decimal `json:"periodCredit"`
	ClosingDebit  decimal.Decimal `json:"closingDebit"`
	ClosingCredit decimal.Decimal `json:"closingCredit"`
	NetBalance    decimal.Decimal `json:"netBalance"`
	AuditFields
}

// Recompute derives the closing and net figures from the opening and
// period figures.
func (b *AccountBalance) Recompute() {
	b.ClosingDebit = b.OpeningDebit.Add(b.PeriodDebit)
	b.ClosingCredit = b.OpeningCredit.Add(b.PeriodCredit)
	b.NetBalance = b.ClosingDebit.Sub(b.ClosingCredit)
}

// SetOpening overwrites the opening figures and recomputes the derived
// ones, keeping the period movement in place. Carry-forward follows this
// rule: it replaces, never accumulates, so repeating it with the same
// source closing balances leaves the row unchanged.
func (b *AccountBalance) SetOpening(openingDebit, openingCredit decimal.Decimal) {
	b.OpeningDebit = openingDebit
	b.OpeningCredit = openingCredit
	b.Recompute()
}

// AddMovement accumulates a posting's debit/credit delta into the period
// figures and recomputes the derived ones.
func (b *AccountBalance) AddMovement(debit, credit decimal.Decimal) {
	b.PeriodDebit = b.PeriodDebit.Add(debit)
	b.PeriodCredit = b.PeriodCredit.Add(credit)
	b.Recompute()
}

// TrialBalanceRow is one line of the period trial balance, ordered by
// account code.
type TrialBalanceRow struct {
	AccountID     string          `json:"accountID"`
	AccountCode   string          `json:"accountCode"`
	AccountName   string          `json:"accountName"`
	AccountType   AccountType     `json:"accountType"`
	ClosingDebit  decimal.Decimal `json:"closingDebit"`
	ClosingCredit decimal.Decimal `json:"closingCredit"`
}

// TrialBalance is the full report for a period. A consistent ledger has
// TotalDebit equal to TotalCredit.
type TrialBalance struct {
	PeriodID    string            `json:"periodID"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Balanced    bool              `json:"balanced"`
}
