package services

import (
	"context"

	"github.com/finvolt/posting_engine/internal/core/domain"
	"github.com/finvolt/posting_engine/internal/dto"
)

// ChartOfAccountsSvcFacade is the read-mostly account metadata index plus the
// administrative mutations on the chart of accounts.
type ChartOfAccountsSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, userID string) error

	// RollupBalance sums the cached balances of an account's entire subtree.
	// Header accounts have no rows of their own; this is how they report.
	RollupBalance(ctx context.Context, accountID string) (domain.Money, error)
}
