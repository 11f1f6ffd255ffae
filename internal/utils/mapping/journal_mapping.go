package mapping

import (
	"github.com/finvolt/posting_engine/internal/core/domain"
	"github.com/finvolt/posting_engine/internal/models"
)

// ToModelJournalEntry converts a domain journal entry (header only).
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		EntryNumber:       d.EntryNumber,
		EntryDate:         d.EntryDate,
		FiscalYear:        d.FiscalYear,
		FiscalPeriod:      d.FiscalPeriod,
		Description:       d.Description,
		Status:            models.EntryStatus(d.Status),
		TotalDebit:        d.TotalDebit.Decimal(),
		TotalCredit:       d.TotalCredit.Decimal(),
		ReversalOfEntryID: d.ReversalOfEntryID,
		ReversedByEntryID: d.ReversedByEntryID,
		ApprovedBy:        d.ApprovedBy,
		RejectionReason:   d.RejectionReason,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model journal entry (header only; lines are
// loaded and attached by the caller).
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           m.EntryID,
		EntryNumber:       m.EntryNumber,
		EntryDate:         m.EntryDate,
		FiscalYear:        m.FiscalYear,
		FiscalPeriod:      m.FiscalPeriod,
		Description:       m.Description,
		Status:            domain.EntryStatus(m.Status),
		TotalDebit:        domain.NewMoneyFromDecimal(m.TotalDebit),
		TotalCredit:       domain.NewMoneyFromDecimal(m.TotalCredit),
		ReversalOfEntryID: m.ReversalOfEntryID,
		ReversedByEntryID: m.ReversedByEntryID,
		ApprovedBy:        m.ApprovedBy,
		RejectionReason:   m.RejectionReason,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntryLine converts a domain line.
func ToModelJournalEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		LineNumber:  d.LineNumber,
		AccountID:   d.AccountID,
		Debit:       d.Debit.Decimal(),
		Credit:      d.Credit.Decimal(),
		Memo:        d.Memo,
		DueDate:     d.DueDate,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntryLine converts a model line.
func ToDomainJournalEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		LineNumber:  m.LineNumber,
		AccountID:   m.AccountID,
		Debit:       domain.NewMoneyFromDecimal(m.Debit),
		Credit:      domain.NewMoneyFromDecimal(m.Credit),
		Memo:        m.Memo,
		DueDate:     m.DueDate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalEntryLineSlice converts a slice of model lines.
func ToDomainJournalEntryLineSlice(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	out := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		out[i] = ToDomainJournalEntryLine(m)
	}
	return out
}
