package dto

import (
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountBalanceResponse mirrors domain.AccountBalance.
type AccountBalanceResponse struct {
	AccountID     string          `json:"accountID"`
	PeriodID      string          `json:"periodID"`
	OpeningDebit  decimal.Decimal `json:"openingDebit"`
	OpeningCredit decimal.Decimal `json:"openingCredit"`
	PeriodDebit   decimal.Decimal `json:"periodDebit"`
	PeriodCredit  decimal.Decimal `json:"periodCredit"`
	ClosingDebit  decimal.Decimal `json:"closingDebit"`
	ClosingCredit decimal.Decimal `json:"closingCredit"`
	NetBalance    decimal.Decimal `json:"netBalance"`
}

// TrialBalanceRowResponse is one report line.
type TrialBalanceRowResponse struct {
	AccountID     string             `json:"accountID"`
	AccountCode   string             `json:"accountCode"`
	AccountName   string             `json:"accountName"`
	AccountType   domain.AccountType `json:"accountType"`
	ClosingDebit  decimal.Decimal    `json:"closingDebit"`
	ClosingCredit decimal.Decimal    `json:"closingCredit"`
}

// TrialBalanceResponse is the full period report.
type TrialBalanceResponse struct {
	PeriodID    string                    `json:"periodID"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"totalDebit"`
	TotalCredit decimal.Decimal           `json:"totalCredit"`
	Balanced    bool                      `json:"balanced"`
}

// CarryForwardRequest names the target period receiving opening balances.
type CarryForwardRequest struct {
	ToPeriodID string `json:"toPeriodID" binding:"required"`
}

// CarryForwardResponse reports how many accounts were carried.
type CarryForwardResponse struct {
	FromPeriodID    string `json:"fromPeriodID"`
	ToPeriodID      string `json:"toPeriodID"`
	AccountsCarried int64  `json:"accountsCarried"`
}

// ToAccountBalanceResponse converts a domain balance row.
func ToAccountBalanceResponse(b *domain.AccountBalance) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:     b.AccountID,
		PeriodID:      b.PeriodID,
		OpeningDebit:  b.OpeningDebit,
		OpeningCredit: b.OpeningCredit,
		PeriodDebit:   b.PeriodDebit,
		PeriodCredit:  b.PeriodCredit,
		ClosingDebit:  b.ClosingDebit,
		ClosingCredit: b.ClosingCredit,
		NetBalance:    b.NetBalance,
	}
}

// ToTrialBalanceResponse converts the domain report.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		PeriodID:    tb.PeriodID,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
		Balanced:    tb.Balanced,
	}
	for _, row := range tb.Rows {
		resp.Rows = append(resp.Rows, TrialBalanceRowResponse{
			AccountID:     row.AccountID,
			AccountCode:   row.AccountCode,
			AccountName:   row.AccountName,
			AccountType:   row.AccountType,
			ClosingDebit:  row.ClosingDebit,
			ClosingCredit: row.ClosingCredit,
		})
	}
	return resp
}
