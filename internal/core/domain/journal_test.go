package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
)

func TestEntryStatus_CanTransitionTo(t *testing.T) {
	allStatuses := []domain.EntryStatus{
		domain.Draft, domain.Submitted, domain.Approved, domain.Rejected,
		domain.Posted, domain.Unposted, domain.Reversed,
	}

	allowed := map[domain.EntryStatus][]domain.EntryStatus{
		domain.Draft:     {domain.Submitted},
		domain.Rejected:  {domain.Submitted},
		domain.Unposted:  {domain.Submitted},
		domain.Submitted: {domain.Approved, domain.Rejected},
		domain.Approved:  {domain.Posted},
		domain.Posted:    {domain.Unposted, domain.Reversed},
		domain.Reversed:  {},
	}

	for from, targets := range allowed {
		allowedSet := make(map[domain.EntryStatus]bool)
		for _, to := range targets {
			allowedSet[to] = true
		}
		for _, to := range allStatuses {
			assert.Equal(t, allowedSet[to], from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestEntryStatus_Editable(t *testing.T) {
	assert.True(t, domain.Draft.Editable())
	assert.True(t, domain.Rejected.Editable())
	assert.True(t, domain.Unposted.Editable())

	assert.False(t, domain.Submitted.Editable())
	assert.False(t, domain.Approved.Editable())
	assert.False(t, domain.Posted.Editable())
	assert.False(t, domain.Reversed.Editable())
}

func TestJournalEntryLine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		debit   string
		credit  string
		wantErr bool
	}{
		{name: "debit only", debit: "100", credit: "0", wantErr: false},
		{name: "credit only", debit: "0", credit: "100", wantErr: false},
		{name: "both sides set", debit: "100", credit: "100", wantErr: true},
		{name: "both sides zero", debit: "0", credit: "0", wantErr: true},
		{name: "negative debit", debit: "-5", credit: "0", wantErr: true},
		{name: "negative credit", debit: "0", credit: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := domain.JournalEntryLine{
				LineNumber: 1,
				AccountID:  "acc-1",
				Debit:      domain.MustMoney(tt.debit),
				Credit:     domain.MustMoney(tt.credit),
			}
			err := line.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJournalEntryLine_Swapped(t *testing.T) {
	line := domain.JournalEntryLine{
		LineNumber: 3,
		AccountID:  "acc-1",
		Debit:      domain.MustMoney("250.00"),
		Credit:     domain.ZeroMoney(),
	}

	swapped := line.Swapped()
	assert.True(t, swapped.Debit.IsZero())
	assert.True(t, swapped.Credit.Equal(domain.MustMoney("250.00")))
	assert.Equal(t, line.LineNumber, swapped.LineNumber)
	assert.Equal(t, line.AccountID, swapped.AccountID)

	// The original is untouched.
	assert.True(t, line.Debit.Equal(domain.MustMoney("250.00")))
}

func TestAccountType_NormalSide(t *testing.T) {
	assert.Equal(t, domain.DebitSide, domain.Asset.NormalSide())
	assert.Equal(t, domain.DebitSide, domain.Expense.NormalSide())
	assert.Equal(t, domain.CreditSide, domain.Liability.NormalSide())
	assert.Equal(t, domain.CreditSide, domain.Equity.NormalSide())
	assert.Equal(t, domain.CreditSide, domain.Revenue.NormalSide())
}

func TestPeriodOf(t *testing.T) {
	key := domain.PeriodOf(mustDate(t, "2026-03-15"))
	assert.Equal(t, 2026, key.Year)
	assert.Equal(t, 3, key.Period)

	dec := domain.PeriodOf(mustDate(t, "2025-12-31"))
	assert.Equal(t, 2025, dec.Year)
	assert.Equal(t, 12, dec.Period)
}
