package models

// Account is the persistence shape of a chart-of-accounts node.
type Account struct {
	AccountID       string
	CompanyID       string
	Code            string
	Name            string
	AccountType     string
	NormalBalance   string
	ParentAccountID string // Empty when root; stored as NULL
	Level           int
	IsHeader        bool
	IsSystem        bool
	IsContra        bool
	IsActive        bool
	Description     string
	AuditFields
}
