package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
)

// chart builds a small three-level chart of accounts:
//
//	1000 Assets (header)
//	  1100 Current Assets (header)
//	    1110 Cash
//	    1120 Bank
//	2000 Liabilities (header)
func chart() []domain.Account {
	return []domain.Account{
		{AccountID: "assets", Code: "1000", Name: "Assets", IsHeader: true, Level: 1},
		{AccountID: "current", Code: "1100", Name: "Current Assets", ParentAccountID: "assets", IsHeader: true, Level: 2},
		{AccountID: "cash", Code: "1110", Name: "Cash", ParentAccountID: "current", Level: 3},
		{AccountID: "bank", Code: "1120", Name: "Bank", ParentAccountID: "current", Level: 3},
		{AccountID: "liabilities", Code: "2000", Name: "Liabilities", IsHeader: true, Level: 1},
	}
}

func TestArenaAncestors(t *testing.T) {
	arena := domain.NewAccountArena(chart())

	ancestors := arena.Ancestors("cash")
	assert.Len(t, ancestors, 2)
	assert.Equal(t, "assets", ancestors[0].AccountID, "root comes first")
	assert.Equal(t, "current", ancestors[1].AccountID)

	assert.Empty(t, arena.Ancestors("assets"), "roots have no ancestors")
	assert.Nil(t, arena.Ancestors("missing"))
}

func TestArenaDescendants(t *testing.T) {
	arena := domain.NewAccountArena(chart())

	descendants := arena.Descendants("assets")
	ids := make(map[string]bool, len(descendants))
	for _, acc := range descendants {
		ids[acc.AccountID] = true
	}
	assert.Len(t, descendants, 3)
	assert.True(t, ids["current"])
	assert.True(t, ids["cash"])
	assert.True(t, ids["bank"])

	assert.Empty(t, arena.Descendants("cash"), "leaves have no descendants")
}

func TestArenaHasChildren(t *testing.T) {
	arena := domain.NewAccountArena(chart())
	assert.True(t, arena.HasChildren("current"))
	assert.False(t, arena.HasChildren("bank"))
	assert.False(t, arena.HasChildren("liabilities"))
}

func TestBuildTree_FullForest(t *testing.T) {
	arena := domain.NewAccountArena(chart())

	forest := arena.BuildTree("")
	assert.Len(t, forest, 2)
	assert.Equal(t, "1000", forest[0].Account.Code, "siblings sorted by code")
	assert.Equal(t, "2000", forest[1].Account.Code)

	current := forest[0].Children
	assert.Len(t, current, 1)
	assert.Len(t, current[0].Children, 2)
	assert.Equal(t, "1110", current[0].Children[0].Account.Code)
	assert.Equal(t, "1120", current[0].Children[1].Account.Code)
	assert.Empty(t, forest[1].Children)
}

func TestBuildTree_Subtree(t *testing.T) {
	arena := domain.NewAccountArena(chart())

	subtree := arena.BuildTree("current")
	assert.Len(t, subtree, 1)
	assert.Equal(t, "current", subtree[0].Account.AccountID)
	assert.Len(t, subtree[0].Children, 2)

	assert.Nil(t, arena.BuildTree("missing"))
}

func TestDefaultNormalBalance(t *testing.T) {
	tests := []struct {
		accountType domain.AccountType
		expected    domain.NormalBalance
	}{
		{domain.Asset, domain.DebitBalance},
		{domain.Expense, domain.DebitBalance},
		{domain.COGS, domain.DebitBalance},
		{domain.OtherExpense, domain.DebitBalance},
		{domain.Liability, domain.CreditBalance},
		{domain.Equity, domain.CreditBalance},
		{domain.Revenue, domain.CreditBalance},
		{domain.OtherIncome, domain.CreditBalance},
	}
	for _, tc := range tests {
		balance, ok := domain.DefaultNormalBalance(tc.accountType)
		assert.True(t, ok)
		assert.Equal(t, tc.expected, balance, "type %s", tc.accountType)
	}

	_, ok := domain.DefaultNormalBalance("CONTINGENT")
	assert.False(t, ok)
}

func TestAccountPostable(t *testing.T) {
	assert.True(t, domain.Account{IsActive: true}.Postable())
	assert.False(t, domain.Account{IsActive: true, IsHeader: true}.Postable())
	assert.False(t, domain.Account{IsActive: false}.Postable())
}
