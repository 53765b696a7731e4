package services

import (
	"context"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/dto"
)

// AccountReaderSvc defines read operations on the chart of accounts.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account.
	GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its code.
	GetAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)

	// ListAccounts retrieves the company's accounts ordered by code.
	ListAccounts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error)

	// GetAccountTree returns the nested chart-of-accounts view. With rootID
	// empty the whole forest is returned.
	GetAccountTree(ctx context.Context, companyID string, rootID string) ([]*domain.AccountNode, error)

	// GetAncestors returns an account's parent chain, root first.
	GetAncestors(ctx context.Context, companyID string, accountID string) ([]domain.Account, error)

	// GetDescendants returns every account below accountID.
	GetDescendants(ctx context.Context, companyID string, accountID string) ([]domain.Account, error)

	// CanDeleteAccount reports whether the account may be physically deleted.
	CanDeleteAccount(ctx context.Context, companyID string, accountID string) (bool, error)
}

// AccountWriterSvc defines write operations on the chart of accounts.
type AccountWriterSvc interface {
	// CreateAccount validates and persists a new ledger account.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)

	// UpdateAccount changes an account's mutable details.
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error)

	// DeleteAccount hard-deletes an unreferenced account, or deactivates it
	// when deletion is not permitted.
	DeleteAccount(ctx context.Context, companyID string, accountID string, actorID string) error
}

// AccountSvcFacade combines the account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
