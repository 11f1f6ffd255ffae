package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the pgsql-backed repository set.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool, accountRepo)
	fiscalRepo := newPgxFiscalRepository(dbPool)

	return &portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		JournalRepo: journalRepo,
		LedgerRepo:  ledgerRepo,
		FiscalRepo:  fiscalRepo,
	}
}
