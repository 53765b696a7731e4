package dto

import (
	"time"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one leg of a draft entry. Exactly one of debit or
// credit must be positive.
type JournalLineRequest struct {
	AccountID  string          `json:"accountID" binding:"required"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	CustomerID *string         `json:"customerID"`
	SupplierID *string         `json:"supplierID"`
	ProductID  *string         `json:"productID"`
	ExpenseID  *string         `json:"expenseID"`
	Memo       string          `json:"memo"`
}

// CreateJournalEntryRequest defines the data needed to create a draft entry.
// Balance is not required at creation; lines may still be edited.
type CreateJournalEntryRequest struct {
	EntryDate    time.Time            `json:"entryDate" binding:"required" time_format:"2006-01-02"`
	EntryType    *string              `json:"entryType"` // Defaults to MANUAL
	Reference    *DocumentRefRequest  `json:"reference"`
	CurrencyCode string               `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate *decimal.Decimal     `json:"exchangeRate"` // Defaults to 1
	Memo         string               `json:"memo"`
	Lines        []JournalLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateJournalEntryRequest replaces a draft's header fields and lines.
type UpdateJournalEntryRequest struct {
	EntryDate *time.Time           `json:"entryDate" time_format:"2006-01-02"`
	Memo      *string              `json:"memo"`
	Lines     []JournalLineRequest `json:"lines" binding:"omitempty,min=1,dive"`
}

// VoidJournalEntryRequest carries the mandatory void reason.
type VoidJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// DocumentRefRequest is the wire form of a document reference.
type DocumentRefRequest struct {
	Kind domain.DocumentKind `json:"kind" binding:"required"`
	ID   string              `json:"id" binding:"required"`
}

// JournalLineResponse mirrors domain.JournalLine.
type JournalLineResponse struct {
	LineID     string          `json:"lineID"`
	LineNumber int             `json:"lineNumber"`
	AccountID  string          `json:"accountID"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	BaseDebit  decimal.Decimal `json:"baseDebit"`
	BaseCredit decimal.Decimal `json:"baseCredit"`
	CustomerID *string         `json:"customerID,omitempty"`
	SupplierID *string         `json:"supplierID,omitempty"`
	ProductID  *string         `json:"productID,omitempty"`
	ExpenseID  *string         `json:"expenseID,omitempty"`
	Memo       string          `json:"memo,omitempty"`
}

// JournalEntryResponse mirrors domain.JournalEntry.
type JournalEntryResponse struct {
	EntryID           string                    `json:"entryID"`
	EntryNumber       string                    `json:"entryNumber,omitempty"`
	EntryDate         time.Time                 `json:"entryDate"`
	PeriodID          string                    `json:"periodID"`
	EntryType         domain.JournalEntryType   `json:"entryType"`
	Reference         *DocumentRefRequest       `json:"reference,omitempty"`
	CurrencyCode      string                    `json:"currencyCode"`
	ExchangeRate      decimal.Decimal           `json:"exchangeRate"`
	TotalDebit        decimal.Decimal           `json:"totalDebit"`
	TotalCredit       decimal.Decimal           `json:"totalCredit"`
	Status            domain.JournalEntryStatus `json:"status"`
	Memo              string                    `json:"memo,omitempty"`
	ReversesEntryID   *string                   `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string                   `json:"reversedByEntryID,omitempty"`
	PostedBy          string                    `json:"postedBy,omitempty"`
	PostedAt          *time.Time                `json:"postedAt,omitempty"`
	VoidedBy          string                    `json:"voidedBy,omitempty"`
	VoidedAt          *time.Time                `json:"voidedAt,omitempty"`
	VoidReason        string                    `json:"voidReason,omitempty"`
	Lines             []JournalLineResponse     `json:"lines,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
	CreatedBy         string                    `json:"createdBy"`
}

// ListJournalEntriesParams filters entry listings.
type ListJournalEntriesParams struct {
	PeriodID  string     `form:"periodID"`
	FromDate  *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"toDate" time_format:"2006-01-02"`
	RefKind   string     `form:"refKind"`
	RefID     string     `form:"refID"`
	Limit     int        `form:"limit,default=20"`
	NextToken *string    `form:"nextToken"`
}

// ListJournalEntriesResponse is a page of entries plus the next cursor.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalLineResponse converts a domain line.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:     l.LineID,
		LineNumber: l.LineNumber,
		AccountID:  l.AccountID,
		Debit:      l.Debit,
		Credit:     l.Credit,
		BaseDebit:  l.BaseDebit,
		BaseCredit: l.BaseCredit,
		CustomerID: l.CustomerID,
		SupplierID: l.SupplierID,
		ProductID:  l.ProductID,
		ExpenseID:  l.ExpenseID,
		Memo:       l.Memo,
	}
}

// ToJournalEntryResponse converts a domain entry with its lines.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:           e.EntryID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate,
		PeriodID:          e.PeriodID,
		EntryType:         e.EntryType,
		CurrencyCode:      e.CurrencyCode,
		ExchangeRate:      e.ExchangeRate,
		TotalDebit:        e.TotalDebit,
		TotalCredit:       e.TotalCredit,
		Status:            e.Status,
		Memo:              e.Memo,
		ReversesEntryID:   e.ReversesEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		PostedBy:          e.PostedBy,
		PostedAt:          e.PostedAt,
		VoidedBy:          e.VoidedBy,
		VoidedAt:          e.VoidedAt,
		VoidReason:        e.VoidReason,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
	if !e.Reference.IsZero() {
		resp.Reference = &DocumentRefRequest{Kind: e.Reference.Kind, ID: e.Reference.ID}
	}
	for i := range e.Lines {
		resp.Lines = append(resp.Lines, ToJournalLineResponse(&e.Lines[i]))
	}
	return resp
}

// ToJournalEntryResponses converts a slice of domain entries.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	out := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToJournalEntryResponse(&entries[i])
	}
	return out
}
