package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType at the persistence layer.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a row in the accounts table.
type Account struct {
	AccountID        string      `db:"account_id"`
	AccountCode      string      `db:"account_code"`
	Name             string      `db:"name"`
	AccountType      AccountType `db:"account_type"`
	ParentAccountID  string      `db:"parent_account_id"` // Nullable
	IsPostingAccount bool        `db:"is_posting_account"`
	IsActive         bool        `db:"is_active"`
	Description      string      `db:"description"`
	AuditFields
	Balance decimal.Decimal `db:"balance"` // Cached current balance
}
