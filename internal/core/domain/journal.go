package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntryStatus is the posting state of a journal entry.
type JournalEntryStatus string

const (
	EntryDraft  JournalEntryStatus = "DRAFT"  // Editable, deletable
	EntryPosted JournalEntryStatus = "POSTED" // Immutable except for voiding
	EntryVoided JournalEntryStatus = "VOIDED" // Terminal, balances reversed
)

// JournalEntryType distinguishes manual entries from generated ones.
type JournalEntryType string

const (
	EntryManual          JournalEntryType = "MANUAL"
	EntrySalesInvoice    JournalEntryType = "SALES_INVOICE"
	EntrySalesReturn     JournalEntryType = "SALES_RETURN"
	EntryPurchaseInvoice JournalEntryType = "PURCHASE_INVOICE"
	EntryPurchaseReturn  JournalEntryType = "PURCHASE_RETURN"
	EntryPayment         JournalEntryType = "PAYMENT"
	EntryReceipt         JournalEntryType = "RECEIPT"
	EntryExpense         JournalEntryType = "EXPENSE"
	EntryInventory       JournalEntryType = "INVENTORY"
	EntryOpening         JournalEntryType = "OPENING"
)

// JournalEntry represents one balanced double-entry posting.
type JournalEntry struct {
	EntryID      string             `json:"entryID"`
	CompanyID    string             `json:"companyID"`
	EntryNumber  string             `json:"entryNumber"` // Allocated at posting, e.g. "JE-2026-000042"
	EntryDate    time.Time          `json:"entryDate"`
	PeriodID     string             `json:"periodID"`
	EntryType    JournalEntryType   `json:"entryType"`
	Reference    DocumentRef        `json:"reference,omitempty"` // Originating document, optional
	CurrencyCode string             `json:"currencyCode"`
	ExchangeRate decimal.Decimal    `json:"exchangeRate"` // Snapshot at 6dp, 1 for base currency
	TotalDebit   decimal.Decimal    `json:"totalDebit"`
	TotalCredit  decimal.Decimal    `json:"totalCredit"`
	Status       JournalEntryStatus `json:"status"`
	Memo         string             `json:"memo"`

	// Reversal links. An entry with ReversedByEntryID set cannot be voided.
	ReversesEntryID   *string `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string `json:"reversedByEntryID,omitempty"`

	PostedBy   string     `json:"postedBy,omitempty"`
	PostedAt   *time.Time `json:"postedAt,omitempty"`
	VoidedBy   string     `json:"voidedBy,omitempty"`
	VoidedAt   *time.Time `json:"voidedAt,omitempty"`
	VoidReason string     `json:"voidReason,omitempty"`

	Lines []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is one debit-or-credit leg of an entry.
// Exactly one of Debit/Credit is positive, the other is zero.
type JournalLine struct {
	LineID     string          `json:"lineID"`
	EntryID    string          `json:"entryID"`
	LineNumber int             `json:"lineNumber"`
	AccountID  string          `json:"accountID"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	BaseDebit  decimal.Decimal `json:"baseDebit"`  // Debit × exchange rate, 2dp
	BaseCredit decimal.Decimal `json:"baseCredit"` // Credit × exchange rate, 2dp

	// Optional analytic dimensions for drill-down.
	CustomerID *string `json:"customerID,omitempty"`
	SupplierID *string `json:"supplierID,omitempty"`
	ProductID  *string `json:"productID,omitempty"`
	ExpenseID  *string `json:"expenseID,omitempty"`

	Memo string `json:"memo,omitempty"`
	AuditFields
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the positive side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}
