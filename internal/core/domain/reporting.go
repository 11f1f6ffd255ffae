package domain

import "time"

// TrialBalanceRow is one account's net position in a trial balance report.
// The net balance shows on a single column: an account with a net credit
// balance shows zero in the debit column and vice versa.
type TrialBalanceRow struct {
	AccountID   string      `json:"accountID"`
	AccountCode string      `json:"accountCode"`
	AccountName string      `json:"accountName"`
	AccountType AccountType `json:"accountType"`
	Debit       Money       `json:"debit"`
	Credit      Money       `json:"credit"`
}

// TrialBalanceResult is the outcome of verifying the ledger as a whole.
// Balanced is true iff TotalDebit exactly equals TotalCredit; any non-zero
// discrepancy is a data-integrity fault, never rounded away.
type TrialBalanceResult struct {
	Balanced    bool  `json:"balanced"`
	TotalDebit  Money `json:"totalDebit"`
	TotalCredit Money `json:"totalCredit"`
	Discrepancy Money `json:"discrepancy"`
}

// TrialBalanceReport is the per-account report as of a date.
type TrialBalanceReport struct {
	AsOf time.Time         `json:"asOf"`
	Rows []TrialBalanceRow `json:"rows"`
	TrialBalanceResult
}

// BalanceReconciliation compares an account's cached balance against the
// balance recomputed from ledger history.
type BalanceReconciliation struct {
	AccountID       string `json:"accountID"`
	CachedBalance   Money  `json:"cachedBalance"`
	ComputedBalance Money  `json:"computedBalance"`
	InSync          bool   `json:"inSync"`
}

// AgingBucket names one days-past-due band of the aging report.
type AgingBucket string

const (
	BucketCurrent AgingBucket = "CURRENT"
	Bucket1To30   AgingBucket = "1-30"
	Bucket31To60  AgingBucket = "31-60"
	Bucket61To90  AgingBucket = "61-90"
	BucketOver90  AgingBucket = "90+"
)

// AgingLine is one open ledger row placed into its bucket.
type AgingLine struct {
	AccountID   string      `json:"accountID"`
	EntryID     string      `json:"entryID"`
	DueDate     time.Time   `json:"dueDate"`
	DaysPastDue int         `json:"daysPastDue"`
	Amount      Money       `json:"amount"`
	Bucket      AgingBucket `json:"bucket"`
}

// AgingReport buckets open receivable/payable rows by days past due.
// TotalOutstanding always equals the sum of the five buckets.
type AgingReport struct {
	AsOf             time.Time   `json:"asOf"`
	Current          Money       `json:"current"`
	Days1To30        Money       `json:"days1To30"`
	Days31To60       Money       `json:"days31To60"`
	Days61To90       Money       `json:"days61To90"`
	Over90           Money       `json:"over90"`
	TotalOutstanding Money       `json:"totalOutstanding"`
	Lines            []AgingLine `json:"lines"`
}
