package dto

import (
	"time"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a ledger account.
type CreateAccountRequest struct {
	Code          string               `json:"code" binding:"required"`
	Name          string               `json:"name" binding:"required"`
	AccountType   domain.AccountType   `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE COGS EXPENSE OTHER_INCOME OTHER_EXPENSE"`
	NormalBalance domain.NormalBalance `json:"normalBalance" binding:"required,oneof=DEBIT CREDIT"`
	ParentCode    *string              `json:"parentCode"` // Optional; parent must be a header account
	IsHeader      bool                 `json:"isHeader"`
	IsContra      bool                 `json:"isContra"` // Required when normalBalance deviates from the type default
	Description   string               `json:"description"`
}

// UpdateAccountRequest defines the mutable fields of an account.
// Pointers distinguish "not provided" from zero values.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse mirrors domain.Account.
type AccountResponse struct {
	AccountID       string               `json:"accountID"`
	Code            string               `json:"code"`
	Name            string               `json:"name"`
	AccountType     domain.AccountType   `json:"accountType"`
	NormalBalance   domain.NormalBalance `json:"normalBalance"`
	ParentAccountID string               `json:"parentAccountID"`
	Level           int                  `json:"level"`
	IsHeader        bool                 `json:"isHeader"`
	IsSystem        bool                 `json:"isSystem"`
	IsContra        bool                 `json:"isContra"`
	IsActive        bool                 `json:"isActive"`
	Description     string               `json:"description"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
	LastUpdatedAt   time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy   string               `json:"lastUpdatedBy"`
}

// AccountTreeNode is one node of the nested chart-of-accounts view.
type AccountTreeNode struct {
	Account  AccountResponse   `json:"account"`
	Children []AccountTreeNode `json:"children,omitempty"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		NormalBalance:   acc.NormalBalance,
		ParentAccountID: acc.ParentAccountID,
		Level:           acc.Level,
		IsHeader:        acc.IsHeader,
		IsSystem:        acc.IsSystem,
		IsContra:        acc.IsContra,
		IsActive:        acc.IsActive,
		Description:     acc.Description,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain accounts.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ToAccountTree converts nested domain nodes to response DTOs.
func ToAccountTree(nodes []*domain.AccountNode) []AccountTreeNode {
	out := make([]AccountTreeNode, len(nodes))
	for i, n := range nodes {
		acc := n.Account
		out[i] = AccountTreeNode{
			Account:  ToAccountResponse(&acc),
			Children: ToAccountTree(n.Children),
		}
	}
	return out
}
