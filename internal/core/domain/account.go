package domain

// AccountType defines the fundamental accounting classification of a ledger account.
type AccountType string

const (
	Asset        AccountType = "ASSET"
	Liability    AccountType = "LIABILITY"
	Equity       AccountType = "EQUITY"
	Revenue      AccountType = "REVENUE"
	COGS         AccountType = "COGS"
	Expense      AccountType = "EXPENSE"
	OtherIncome  AccountType = "OTHER_INCOME"
	OtherExpense AccountType = "OTHER_EXPENSE"
)

// NormalBalance indicates which side of the ledger increases an account.
type NormalBalance string

const (
	DebitBalance  NormalBalance = "DEBIT"
	CreditBalance NormalBalance = "CREDIT"
)

// DefaultNormalBalance returns the conventional normal balance for an account type.
// An account whose stored normal balance deviates from this must be flagged contra.
func DefaultNormalBalance(t AccountType) (NormalBalance, bool) {
	switch t {
	case Asset, Expense, COGS, OtherExpense:
		return DebitBalance, true
	case Liability, Equity, Revenue, OtherIncome:
		return CreditBalance, true
	default:
		return "", false
	}
}

// Account represents a node of the chart of accounts.
// Header accounts aggregate children and are never posted to directly.
type Account struct {
	AccountID       string        `json:"accountID"`       // Primary Key (UUID)
	CompanyID       string        `json:"companyID"`       // Tenant scope, opaque to the core
	Code            string        `json:"code"`            // Unique within company, sortable (e.g. "1121")
	Name            string        `json:"name"`            //
	AccountType     AccountType   `json:"accountType"`     //
	NormalBalance   NormalBalance `json:"normalBalance"`   //
	ParentAccountID string        `json:"parentAccountID"` // Empty for root accounts
	Level           int           `json:"level"`           // Depth, 1-based
	IsHeader        bool          `json:"isHeader"`        // Non-postable aggregator
	IsSystem        bool          `json:"isSystem"`        // Seeded, never deletable
	IsContra        bool          `json:"isContra"`        // Normal balance deviates from the type default
	IsActive        bool          `json:"isActive"`        //
	Description     string        `json:"description"`     //
	AuditFields
}

// Postable reports whether journal lines may reference this account.
func (a Account) Postable() bool {
	return a.IsActive && !a.IsHeader
}
