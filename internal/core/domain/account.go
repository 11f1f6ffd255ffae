package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalSide is the side on which an account's balance increases.
type NormalSide string

const (
	DebitSide  NormalSide = "DEBIT"
	CreditSide NormalSide = "CREDIT"
)

// NormalSide derives the normal balance side from the account type:
// assets and expenses grow with debits, everything else with credits.
func (t AccountType) NormalSide() NormalSide {
	switch t {
	case Asset, Expense:
		return DebitSide
	default:
		return CreditSide
	}
}

// Valid reports whether t is one of the five known account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents a node in the chart of accounts.
//
// The hierarchy is a forest: ParentAccountID is a weak reference and never owns
// the child. Only posting (leaf) accounts may receive ledger rows; header
// accounts exist purely for rollups. Balance is a cache of the signed sum of
// all ledger rows for the account and must be derivable from ledger history at
// any time; it is a read optimization, not a source of truth.
type Account struct {
	AccountID        string      `json:"accountID"`   // Primary key (UUID)
	AccountCode      string      `json:"accountCode"` // Unique human-facing code, e.g. "1100"
	Name             string      `json:"name"`
	AccountType      AccountType `json:"accountType"`
	ParentAccountID  string      `json:"parentAccountID"` // Empty for top-level accounts
	IsPostingAccount bool        `json:"isPostingAccount"`
	IsActive         bool        `json:"isActive"`
	Description      string      `json:"description"`
	AuditFields
	Balance Money `json:"balance"` // Cached current balance
}

// NormalSide returns the account's normal balance side.
func (a Account) NormalSide() NormalSide {
	return a.AccountType.NormalSide()
}
