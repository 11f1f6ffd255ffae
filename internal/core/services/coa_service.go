package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/finvolt/posting_engine/internal/core/ports/services"
	"github.com/finvolt/posting_engine/internal/dto"
)

// chartOfAccountsService maintains the account metadata index.
type chartOfAccountsService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewChartOfAccountsService creates the chart-of-accounts service.
func NewChartOfAccountsService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.ChartOfAccountsSvcFacade {
	return &chartOfAccountsService{accountRepo: accountRepo}
}

var _ portssvc.ChartOfAccountsSvcFacade = (*chartOfAccountsService)(nil)

// CreateAccount validates and persists a new account.
func (s *chartOfAccountsService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	// Account codes are the outward identity, enforce uniqueness up front.
	existing, err := s.accountRepo.FindAccountByCode(ctx, req.AccountCode)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code %s: %w", req.AccountCode, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, req.AccountCode)
	}

	if req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrAccountNotFound, req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to find parent account %s: %w", req.ParentAccountID, err)
		}
		// A posting parent would mix rollup and leaf roles on one node.
		if parent.IsPostingAccount {
			return nil, fmt.Errorf("%w: parent account %s is a posting account", apperrors.ErrValidation, req.ParentAccountID)
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: account type %s does not match parent type %s", apperrors.ErrValidation, req.AccountType, parent.AccountType)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:        uuid.NewString(),
		AccountCode:      req.AccountCode,
		Name:             req.Name,
		AccountType:      req.AccountType,
		ParentAccountID:  req.ParentAccountID,
		IsPostingAccount: req.IsPostingAccount,
		IsActive:         true,
		Description:      req.Description,
		Balance:          domain.ZeroMoney(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_code", req.AccountCode))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("account_code", account.AccountCode))
	return &account, nil
}

// GetAccountByID retrieves a single account.
func (s *chartOfAccountsService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrAccountNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// GetAccountByCode retrieves a single account by its code.
func (s *chartOfAccountsService) GetAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, accountCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: code %s", apperrors.ErrAccountNotFound, accountCode)
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", accountCode, err)
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts keyed by ID.
func (s *chartOfAccountsService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
}

// ListAccounts retrieves the full chart of accounts.
func (s *chartOfAccountsService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx)
}

// UpdateAccount edits account metadata.
func (s *chartOfAccountsService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
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
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to update account %s: %w", accountID, err)
	}
	return account, nil
}

// DeactivateAccount marks an account inactive so it can no longer be posted to.
func (s *chartOfAccountsService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return err
	}
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

// RollupBalance sums cached balances over the account's subtree. The
// hierarchy is a forest, so a simple descent terminates.
func (s *chartOfAccountsService) RollupBalance(ctx context.Context, accountID string) (domain.Money, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return domain.ZeroMoney(), err
	}

	total := account.Balance
	children, err := s.accountRepo.ListChildAccounts(ctx, accountID)
	if err != nil {
		return domain.ZeroMoney(), fmt.Errorf("failed to list children of account %s: %w", accountID, err)
	}
	for _, child := range children {
		childTotal, err := s.RollupBalance(ctx, child.AccountID)
		if err != nil {
			return domain.ZeroMoney(), err
		}
		total = total.Add(childTotal)
	}
	return total, nil
}
