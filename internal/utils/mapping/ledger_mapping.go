package mapping

import (
	"github.com/finvolt/posting_engine/internal/core/domain"
	"github.com/finvolt/posting_engine/internal/models"
)

// ToModelLedgerRow converts a domain ledger row.
func ToModelLedgerRow(d domain.GeneralLedgerRow) models.GeneralLedgerRow {
	return models.GeneralLedgerRow{
		RowID:          d.RowID,
		AccountID:      d.AccountID,
		EntryID:        d.EntryID,
		LineNumber:     d.LineNumber,
		Debit:          d.Debit.Decimal(),
		Credit:         d.Credit.Decimal(),
		RunningBalance: d.RunningBalance.Decimal(),
		PostedAt:       d.PostedAt,
		Compensates:    d.Compensates,
		DueDate:        d.DueDate,
		SettledAt:      d.SettledAt,
	}
}

// ToDomainLedgerRow converts a model ledger row.
func ToDomainLedgerRow(m models.GeneralLedgerRow) domain.GeneralLedgerRow {
	return domain.GeneralLedgerRow{
		RowID:          m.RowID,
		AccountID:      m.AccountID,
		EntryID:        m.EntryID,
		LineNumber:     m.LineNumber,
		Debit:          domain.NewMoneyFromDecimal(m.Debit),
		Credit:         domain.NewMoneyFromDecimal(m.Credit),
		RunningBalance: domain.NewMoneyFromDecimal(m.RunningBalance),
		PostedAt:       m.PostedAt,
		Compensates:    m.Compensates,
		DueDate:        m.DueDate,
		SettledAt:      m.SettledAt,
	}
}

// ToDomainLedgerRowSlice converts a slice of model ledger rows.
func ToDomainLedgerRowSlice(ms []models.GeneralLedgerRow) []domain.GeneralLedgerRow {
	out := make([]domain.GeneralLedgerRow, len(ms))
	for i, m := range ms {
		out[i] = ToDomainLedgerRow(m)
	}
	return out
}
