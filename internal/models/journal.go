package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the persistence shape of a journal entry header.
// ReferenceKind/ReferenceID hold the polymorphic document pointer.
type JournalEntry struct {
	EntryID           string
	CompanyID         string
	EntryNumber       string // Empty until posting allocates one; stored as NULL
	EntryDate         time.Time
	PeriodID          string
	EntryType         string
	ReferenceKind     string // Empty when the entry has no source document; stored as NULL
	ReferenceID       string
	CurrencyCode      string
	ExchangeRate      decimal.Decimal
	TotalDebit        decimal.Decimal
	TotalCredit       decimal.Decimal
	Status            string
	Memo              string
	ReversesEntryID   *string
	ReversedByEntryID *string
	PostedBy          string
	PostedAt          *time.Time
	VoidedBy          string
	VoidedAt          *time.Time
	VoidReason        string
	AuditFields
}

// JournalLine is the persistence shape of one entry line.
type JournalLine struct {
	LineID     string
	EntryID    string
	LineNumber int
	AccountID  string
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	BaseDebit  decimal.Decimal
	BaseCredit decimal.Decimal
	CustomerID *string
	SupplierID *string
	ProductID  *string
	ExpenseID  *string
	Memo       string
	AuditFields
}
