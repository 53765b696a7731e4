package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks_backend/internal/core/ports/repositories"
	portssvc "github.com/corebooks/corebooks_backend/internal/core/ports/services"
	"github.com/corebooks/corebooks_backend/internal/dto"
	"github.com/corebooks/corebooks_backend/internal/middleware"
)

var (
	ErrDuplicateAccountCode = errors.New("account code already exists in company")
	ErrParentNotHeader      = errors.New("parent account must be a header account")
	ErrContraMismatch       = errors.New("normal balance deviates from type default without contra flag")
	ErrAccountReferenced    = errors.New("account is referenced by journal lines")
	ErrAccountHasChildren   = errors.New("account has child accounts")
	ErrSystemAccount        = errors.New("system accounts cannot be deleted")
)

// accountService manages the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount validates and persists a new ledger account.
// Implements portssvc.AccountSvcFacade
func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Contra rule: a normal balance that deviates from the type default is
	// only legal when the account is explicitly flagged contra.
	defaultBalance, known := domain.DefaultNormalBalance(req.AccountType)
	if !known {
		return nil, fmt.Errorf("%w: unknown account type %s", apperrors.ErrValidation, req.AccountType)
	}
	if req.NormalBalance != defaultBalance && !req.IsContra {
		return nil, fmt.Errorf("%w: type %s defaults to %s", ErrContraMismatch, req.AccountType, defaultBalance)
	}
	if req.NormalBalance == defaultBalance && req.IsContra {
		return nil, fmt.Errorf("%w: contra account must deviate from the %s default", ErrContraMismatch, defaultBalance)
	}

	// Code uniqueness within the company.
	existing, err := s.accountRepo.FindAccountByCode(ctx, companyID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check account code uniqueness", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: code %s", ErrDuplicateAccountCode, req.Code)
	}

	level := 1
	parentID := ""
	if req.ParentCode != nil && *req.ParentCode != "" {
		parent, err := s.accountRepo.FindAccountByCode(ctx, companyID, *req.ParentCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account with code %s", apperrors.ErrNotFound, *req.ParentCode)
			}
			logger.Error("Failed to fetch parent account", slog.String("error", err.Error()), slog.String("parent_code", *req.ParentCode))
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
		if !parent.IsHeader {
			return nil, fmt.Errorf("%w: %s", ErrParentNotHeader, parent.Code)
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: account type %s does not match parent type %s", apperrors.ErrValidation, req.AccountType, parent.AccountType)
		}
		parentID = parent.AccountID
		level = parent.Level + 1
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		CompanyID:       companyID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		NormalBalance:   req.NormalBalance,
		ParentAccountID: parentID,
		Level:           level,
		IsHeader:        req.IsHeader,
		IsSystem:        false,
		IsContra:        req.IsContra,
		IsActive:        true,
		Description:     req.Description,
		AuditFields:     domain.NewAuditFields(actorID, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves a specific account.
func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		// Obscure existence across tenants.
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountByCode retrieves an account by its code.
func (s *accountService) GetAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, companyID, code)
}

// ListAccounts retrieves the company's accounts ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, companyID, includeInactive)
}

// arena loads the company's full chart and indexes it for traversal.
func (s *accountService) arena(ctx context.Context, companyID string) (*domain.AccountArena, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	return domain.NewAccountArena(accounts), nil
}

// GetAccountTree returns the nested chart-of-accounts view.
func (s *accountService) GetAccountTree(ctx context.Context, companyID string, rootID string) ([]*domain.AccountNode, error) {
	arena, err := s.arena(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if rootID != "" {
		if _, ok := arena.Get(rootID); !ok {
			return nil, apperrors.ErrNotFound
		}
	}
	return arena.BuildTree(rootID), nil
}

// GetAncestors returns an account's parent chain, root first.
func (s *accountService) GetAncestors(ctx context.Context, companyID string, accountID string) ([]domain.Account, error) {
	arena, err := s.arena(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if _, ok := arena.Get(accountID); !ok {
		return nil, apperrors.ErrNotFound
	}
	return arena.Ancestors(accountID), nil
}

// GetDescendants returns every account below accountID.
func (s *accountService) GetDescendants(ctx context.Context, companyID string, accountID string) ([]domain.Account, error) {
	arena, err := s.arena(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if _, ok := arena.Get(accountID); !ok {
		return nil, apperrors.ErrNotFound
	}
	return arena.Descendants(accountID), nil
}

// UpdateAccount changes an account's mutable details. Code, type and
// normal balance are immutable after creation.
func (s *accountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.Touch(actorID, time.Now().UTC())
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// CanDeleteAccount reports whether the account may be physically deleted:
// not a system account, no children, and never referenced by a journal line.
func (s *accountService) CanDeleteAccount(ctx context.Context, companyID string, accountID string) (bool, error) {
	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return false, err
	}
	if account.IsSystem {
		return false, nil
	}
	hasChildren, err := s.accountRepo.HasChildren(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to check child accounts: %w", err)
	}
	if hasChildren {
		return false, nil
	}
	lineCount, err := s.accountRepo.CountJournalLines(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to count journal lines: %w", err)
	}
	return lineCount == 0, nil
}

// DeleteAccount hard-deletes an unreferenced account. Referenced accounts
// are deactivated instead so history stays intact.
func (s *accountService) DeleteAccount(ctx context.Context, companyID string, accountID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return err
	}
	if account.IsSystem {
		return fmt.Errorf("%w: %s", ErrSystemAccount, account.Code)
	}

	hasChildren, err := s.accountRepo.HasChildren(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check child accounts: %w", err)
	}
	if hasChildren {
		return fmt.Errorf("%w: %s", ErrAccountHasChildren, account.Code)
	}

	lineCount, err := s.accountRepo.CountJournalLines(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count journal lines: %w", err)
	}
	if lineCount > 0 {
		// Fall back to deactivation; posted history must keep resolving.
		if err := s.accountRepo.DeactivateAccount(ctx, accountID, actorID, time.Now().UTC()); err != nil {
			logger.Error("Failed to deactivate referenced account", slog.String("error", err.Error()), slog.String("account_id", accountID))
			return fmt.Errorf("failed to deactivate account: %w", err)
		}
		logger.Info("Account deactivated instead of deleted", slog.String("account_id", accountID), slog.Int64("line_count", lineCount))
		return nil
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}

	logger.Info("Account deleted", slog.String("account_id", accountID), slog.String("code", account.Code))
	return nil
}
