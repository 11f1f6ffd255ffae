package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
)

type accountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	account, ok := r.store.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &account, nil
}

func (r *accountRepository) FindAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.accountIDByCode[accountCode]
	if !ok {
		return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, accountCode)
	}
	account := r.store.accounts[id]
	return &account, nil
}

func (r *accountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if account, ok := r.store.accounts[id]; ok {
			out[id] = account
		}
	}
	return out, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.Account, 0, len(r.store.accounts))
	for _, account := range r.store.accounts {
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, nil
}

func (r *accountRepository) ListChildAccounts(ctx context.Context, parentAccountID string) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Account
	for _, account := range r.store.accounts {
		if account.ParentAccountID == parentAccountID {
			out = append(out, account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, nil
}

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	if _, ok := r.store.accountIDByCode[account.AccountCode]; ok {
		return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.AccountCode)
	}
	r.store.accounts[account.AccountID] = account
	r.store.accountIDByCode[account.AccountCode] = account.AccountID
	return nil
}

func (r *accountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.accounts[account.AccountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	// The cached balance is owned by the posting path.
	account.Balance = existing.Balance
	r.store.accounts[account.AccountID] = account
	return nil
}

func (r *accountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account, ok := r.store.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	account.IsActive = false
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID
	r.store.accounts[accountID] = account
	return nil
}

func (r *accountRepository) SetAccountBalance(ctx context.Context, accountID string, balance domain.Money, userID string, now time.Time) error {
	unlock := r.store.lockAccounts([]string{accountID})
	defer unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account, ok := r.store.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	account.Balance = balance
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID
	r.store.accounts[accountID] = account
	return nil
}
