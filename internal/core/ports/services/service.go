package services

// ServiceContainer aggregates the engine's service facades for callers
// (batch jobs, embedding applications).
type ServiceContainer struct {
	COA       ChartOfAccountsSvcFacade
	Fiscal    FiscalCalendarSvcFacade
	Journal   JournalSvcFacade
	Poster    LedgerPosterSvc
	Balance   BalanceSvcFacade
	Reporting ReportingSvcFacade
	Aging     AgingSvcFacade
}
