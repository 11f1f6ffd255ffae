package repositories

// RepositoryProvider aggregates every repository facade the service layer
// needs. Adapters (pgsql, memory) populate one of these at startup.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	JournalRepo JournalEntryRepositoryFacade
	LedgerRepo  LedgerRepositoryFacade
	FiscalRepo  FiscalPeriodRepositoryFacade
}
