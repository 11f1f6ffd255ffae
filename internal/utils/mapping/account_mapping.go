package mapping

import (
	"github.com/finvolt/posting_engine/internal/core/domain"
	"github.com/finvolt/posting_engine/internal/models"
)

// ToModelAccount converts a domain account to its persistence model.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:        d.AccountID,
		AccountCode:      d.AccountCode,
		Name:             d.Name,
		AccountType:      models.AccountType(d.AccountType),
		ParentAccountID:  d.ParentAccountID,
		IsPostingAccount: d.IsPostingAccount,
		IsActive:         d.IsActive,
		Description:      d.Description,
		AuditFields:      ToModelAuditFields(d.AuditFields),
		Balance:          d.Balance.Decimal(),
	}
}

// ToDomainAccount converts a persistence model account to its domain form.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:        m.AccountID,
		AccountCode:      m.AccountCode,
		Name:             m.Name,
		AccountType:      domain.AccountType(m.AccountType),
		ParentAccountID:  m.ParentAccountID,
		IsPostingAccount: m.IsPostingAccount,
		IsActive:         m.IsActive,
		Description:      m.Description,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
		Balance:          domain.NewMoneyFromDecimal(m.Balance),
	}
}

// ToDomainAccountSlice converts a slice of model accounts.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	out := make([]domain.Account, len(ms))
	for i, m := range ms {
		out[i] = ToDomainAccount(m)
	}
	return out
}
