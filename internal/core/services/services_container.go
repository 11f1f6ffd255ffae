package services

import (
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/finvolt/posting_engine/internal/core/ports/services"
)

// NewServiceContainer wires every service against the given repositories.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	fiscal := NewFiscalCalendarService(repos.FiscalRepo, repos.JournalRepo)
	poster := NewLedgerPosterService(repos.AccountRepo, repos.LedgerRepo, fiscal)

	return &portssvc.ServiceContainer{
		COA:       NewChartOfAccountsService(repos.AccountRepo),
		Fiscal:    fiscal,
		Journal:   NewJournalService(repos.JournalRepo, poster),
		Poster:    poster,
		Balance:   NewBalanceService(repos.AccountRepo, repos.LedgerRepo),
		Reporting: NewReportingService(repos.AccountRepo, repos.LedgerRepo),
		Aging:     NewAgingService(repos.AccountRepo, repos.LedgerRepo),
	}
}
