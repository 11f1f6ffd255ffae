package accounting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
	"github.com/finvolt/posting_engine/internal/utils/accounting"
)

func line(account, debit, credit string) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		AccountID: account,
		Debit:     domain.MustMoney(debit),
		Credit:    domain.MustMoney(credit),
	}
}

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name   string
		debit  string
		credit string
		side   domain.NormalSide
		want   string
	}{
		{name: "debit grows debit-normal", debit: "100", credit: "0", side: domain.DebitSide, want: "100"},
		{name: "credit shrinks debit-normal", debit: "0", credit: "40", side: domain.DebitSide, want: "-40"},
		{name: "credit grows credit-normal", debit: "0", credit: "100", side: domain.CreditSide, want: "100"},
		{name: "debit shrinks credit-normal", debit: "25", credit: "0", side: domain.CreditSide, want: "-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.SignedAmount(domain.MustMoney(tt.debit), domain.MustMoney(tt.credit), tt.side)
			assert.True(t, got.Equal(domain.MustMoney(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSumLines(t *testing.T) {
	lines := []domain.JournalEntryLine{
		line("a", "100.50", "0"),
		line("b", "0", "60.25"),
		line("c", "0", "40.25"),
	}
	debit, credit := accounting.SumLines(lines)
	assert.True(t, debit.Equal(domain.MustMoney("100.50")))
	assert.True(t, credit.Equal(domain.MustMoney("100.50")))
}

func TestValidateEntryBalance(t *testing.T) {
	validLines := func() []domain.JournalEntryLine {
		return []domain.JournalEntryLine{
			line("a", "100", "0"),
			line("b", "0", "100"),
		}
	}

	t.Run("balanced entry passes", func(t *testing.T) {
		assert.NoError(t, accounting.ValidateEntryBalance(validLines()))
	})

	t.Run("unbalanced entry fails", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("a", "100", "0"),
			line("b", "0", "99.99"),
		}
		assert.ErrorIs(t, accounting.ValidateEntryBalance(lines), apperrors.ErrUnbalancedEntry)
	})

	t.Run("single account fails even when balanced", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("a", "100", "0"),
			line("a", "0", "100"),
		}
		assert.ErrorIs(t, accounting.ValidateEntryBalance(lines), apperrors.ErrInsufficientLines)
	})

	t.Run("two-sided line fails", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("a", "100", "100"),
			line("b", "0", "0"),
		}
		assert.ErrorIs(t, accounting.ValidateEntryBalance(lines), apperrors.ErrValidation)
	})
}

func TestBalanceChanges(t *testing.T) {
	accounts := map[string]domain.Account{
		"cash":    {AccountID: "cash", AccountType: domain.Asset},
		"revenue": {AccountID: "revenue", AccountType: domain.Revenue},
		"fees":    {AccountID: "fees", AccountType: domain.Expense},
	}

	t.Run("aggregates per account with sign convention", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("cash", "95", "0"),
			line("fees", "5", "0"),
			line("revenue", "0", "100"),
		}
		changes, err := accounting.BalanceChanges(lines, accounts)
		require.NoError(t, err)

		assert.True(t, changes["cash"].Equal(domain.MustMoney("95")))
		assert.True(t, changes["fees"].Equal(domain.MustMoney("5")))
		assert.True(t, changes["revenue"].Equal(domain.MustMoney("100")))
	})

	t.Run("multiple lines on one account accumulate", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("cash", "100", "0"),
			line("cash", "0", "30"),
			line("revenue", "0", "70"),
		}
		changes, err := accounting.BalanceChanges(lines, accounts)
		require.NoError(t, err)
		assert.True(t, changes["cash"].Equal(domain.MustMoney("70")))
	})

	t.Run("unknown account fails", func(t *testing.T) {
		lines := []domain.JournalEntryLine{line("ghost", "1", "0")}
		_, err := accounting.BalanceChanges(lines, accounts)
		assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
	})
}
