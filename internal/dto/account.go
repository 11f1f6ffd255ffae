package dto

import (
	"github.com/finvolt/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest creates a new chart-of-accounts node.
type CreateAccountRequest struct {
	AccountCode      string             `json:"accountCode" validate:"required"`
	Name             string             `json:"name" validate:"required"`
	AccountType      domain.AccountType `json:"accountType" validate:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID  string             `json:"parentAccountID,omitempty"`
	IsPostingAccount bool               `json:"isPostingAccount"`
	Description      string             `json:"description,omitempty"`
}

// UpdateAccountRequest edits account metadata. Nil fields are left unchanged.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AccountResponse is the outward representation of an account.
type AccountResponse struct {
	AccountID        string             `json:"accountID"`
	AccountCode      string             `json:"accountCode"`
	Name             string             `json:"name"`
	AccountType      domain.AccountType `json:"accountType"`
	NormalSide       domain.NormalSide  `json:"normalSide"`
	ParentAccountID  string             `json:"parentAccountID,omitempty"`
	IsPostingAccount bool               `json:"isPostingAccount"`
	IsActive         bool               `json:"isActive"`
	Balance          decimal.Decimal    `json:"balance"`
}

// ToAccountResponse maps a domain account.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        a.AccountID,
		AccountCode:      a.AccountCode,
		Name:             a.Name,
		AccountType:      a.AccountType,
		NormalSide:       a.NormalSide(),
		ParentAccountID:  a.ParentAccountID,
		IsPostingAccount: a.IsPostingAccount,
		IsActive:         a.IsActive,
		Balance:          a.Balance.Decimal(),
	}
}
