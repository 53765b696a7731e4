package domain

import "fmt"

// DocumentKind tags the business document a ledger record originates from.
type DocumentKind string

const (
	DocSalesInvoice    DocumentKind = "SALES_INVOICE"
	DocSalesReturn     DocumentKind = "SALES_RETURN"
	DocPurchaseInvoice DocumentKind = "PURCHASE_INVOICE"
	DocPurchaseReturn  DocumentKind = "PURCHASE_RETURN"
	DocPayment         DocumentKind = "PAYMENT"
	DocReceipt         DocumentKind = "RECEIPT"
	DocExpense         DocumentKind = "EXPENSE"
	DocInventoryAdj    DocumentKind = "INVENTORY_ADJ"
	DocOpening         DocumentKind = "OPENING"
)

// DocumentRef is a tagged reference to an originating business document.
// The zero value means "no reference".
type DocumentRef struct {
	Kind DocumentKind `json:"kind"`
	ID   string       `json:"id"`
}

// IsZero reports whether the reference is absent.
func (r DocumentRef) IsZero() bool {
	return r.Kind == "" && r.ID == ""
}

// Validate checks that a non-zero reference carries a known kind and an ID.
func (r DocumentRef) Validate() error {
	if r.IsZero() {
		return nil
	}
	if r.ID == "" {
		return fmt.Errorf("document reference %s missing id", r.Kind)
	}
	switch r.Kind {
	case DocSalesInvoice, DocSalesReturn, DocPurchaseInvoice, DocPurchaseReturn,
		DocPayment, DocReceipt, DocExpense, DocInventoryAdj, DocOpening:
		return nil
	default:
		return fmt.Errorf("unknown document kind %q", r.Kind)
	}
}

// EntryType returns the journal entry type generated for this document kind.
func (r DocumentRef) EntryType() (JournalEntryType, error) {
	switch r.Kind {
	case DocSalesInvoice:
		return EntrySalesInvoice, nil
	case DocSalesReturn:
		return EntrySalesReturn, nil
	case DocPurchaseInvoice:
		return EntryPurchaseInvoice, nil
	case DocPurchaseReturn:
		return EntryPurchaseReturn, nil
	case DocPayment:
		return EntryPayment, nil
	case DocReceipt:
		return EntryReceipt, nil
	case DocExpense:
		return EntryExpense, nil
	case DocInventoryAdj:
		return EntryInventory, nil
	case DocOpening:
		return EntryOpening, nil
	default:
		return "", fmt.Errorf("unknown document kind %q", r.Kind)
	}
}
