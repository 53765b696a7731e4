package mapping

import (
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/models"
)

// ToModelJournalEntry converts a domain entry header to its persistence shape.
func ToModelJournalEntry(e domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           e.EntryID,
		CompanyID:         e.CompanyID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate,
		PeriodID:          e.PeriodID,
		EntryType:         string(e.EntryType),
		ReferenceKind:     string(e.Reference.Kind),
		ReferenceID:       e.Reference.ID,
		CurrencyCode:      e.CurrencyCode,
		ExchangeRate:      e.ExchangeRate,
		TotalDebit:        e.TotalDebit,
		TotalCredit:       e.TotalCredit,
		Status:            string(e.Status),
		Memo:              e.Memo,
		ReversesEntryID:   e.ReversesEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		PostedBy:          e.PostedBy,
		PostedAt:          e.PostedAt,
		VoidedBy:          e.VoidedBy,
		VoidedAt:          e.VoidedAt,
		VoidReason:        e.VoidReason,
		AuditFields:       toModelAuditFields(e.AuditFields),
	}
}

// ToDomainJournalEntry converts a persistence entry header to its domain shape.
func ToDomainJournalEntry(e models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     e.EntryID,
		CompanyID:   e.CompanyID,
		EntryNumber: e.EntryNumber,
		EntryDate:   e.EntryDate,
		PeriodID:    e.PeriodID,
		EntryType:   domain.JournalEntryType(e.EntryType),
		Reference: domain.DocumentRef{
			Kind: domain.DocumentKind(e.ReferenceKind),
			ID:   e.ReferenceID,
		},
		CurrencyCode:      e.CurrencyCode,
		ExchangeRate:      e.ExchangeRate,
		TotalDebit:        e.TotalDebit,
		TotalCredit:       e.TotalCredit,
		Status:            domain.JournalEntryStatus(e.Status),
		Memo:              e.Memo,
		ReversesEntryID:   e.ReversesEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		PostedBy:          e.PostedBy,
		PostedAt:          e.PostedAt,
		VoidedBy:          e.VoidedBy,
		VoidedAt:          e.VoidedAt,
		VoidReason:        e.VoidReason,
		AuditFields:       toDomainAuditFields(e.AuditFields),
	}
}

// ToModelJournalLine converts a domain line to its persistence shape.
func ToModelJournalLine(l domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      l.LineID,
		EntryID:     l.EntryID,
		LineNumber:  l.LineNumber,
		AccountID:   l.AccountID,
		Debit:       l.Debit,
		Credit:      l.Credit,
		BaseDebit:   l.BaseDebit,
		BaseCredit:  l.BaseCredit,
		CustomerID:  l.CustomerID,
		SupplierID:  l.SupplierID,
		ProductID:   l.ProductID,
		ExpenseID:   l.ExpenseID,
		Memo:        l.Memo,
		AuditFields: toModelAuditFields(l.AuditFields),
	}
}

// ToDomainJournalLine converts a persistence line to its domain shape.
func ToDomainJournalLine(l models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      l.LineID,
		EntryID:     l.EntryID,
		LineNumber:  l.LineNumber,
		AccountID:   l.AccountID,
		Debit:       l.Debit,
		Credit:      l.Credit,
		BaseDebit:   l.BaseDebit,
		BaseCredit:  l.BaseCredit,
		CustomerID:  l.CustomerID,
		SupplierID:  l.SupplierID,
		ProductID:   l.ProductID,
		ExpenseID:   l.ExpenseID,
		Memo:        l.Memo,
		AuditFields: toDomainAuditFields(l.AuditFields),
	}
}

// ToDomainJournalLineSlice converts a slice of persistence lines.
func ToDomainJournalLineSlice(in []models.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(in))
	for i, l := range in {
		out[i] = ToDomainJournalLine(l)
	}
	return out
}
