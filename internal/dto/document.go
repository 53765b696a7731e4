package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BridgeAllocationRequest is one debit-or-credit allocation of a document
// posting. Exactly one of debit or credit must be positive.
type BridgeAllocationRequest struct {
	AccountID  string          `json:"accountID" binding:"required"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	CustomerID *string         `json:"customerID"`
	SupplierID *string         `json:"supplierID"`
	ProductID  *string         `json:"productID"`
	ExpenseID  *string         `json:"expenseID"`
	Memo       string          `json:"memo"`
}

// PostDocumentRequest asks the bridge to turn a business document into a
// posted journal entry. The caller supplies the account allocations; the
// per-document accounting rules live with the calling module.
type PostDocumentRequest struct {
	Reference    DocumentRefRequest        `json:"reference" binding:"required"`
	EntryDate    time.Time                 `json:"entryDate" binding:"required" time_format:"2006-01-02"`
	CurrencyCode string                    `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate *decimal.Decimal          `json:"exchangeRate"` // Defaults to 1
	Memo         string                    `json:"memo"`
	Allocations  []BridgeAllocationRequest `json:"allocations" binding:"required,min=2,dive"`
}
