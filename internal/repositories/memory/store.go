// Package memory provides an in-process repository adapter. It backs tests
// and embedded usage; the pgsql adapter is the production path.
package memory

import (
	"sort"
	"sync"

	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
)

// Store holds all engine state in maps. A single RWMutex guards the maps;
// per-account mutexes serialize postings that share accounts, mirroring the
// row locks the pgsql adapter takes.
type Store struct {
	mu              sync.RWMutex
	accounts        map[string]domain.Account
	accountIDByCode map[string]string
	entries         map[string]domain.JournalEntry
	entryLines      map[string][]domain.JournalEntryLine
	rowsByAccount   map[string][]domain.GeneralLedgerRow
	rowsByEntry     map[string][]domain.GeneralLedgerRow
	periods         map[domain.PeriodKey]domain.FiscalPeriod
	periodAudit     map[domain.PeriodKey][]domain.PeriodAuditEvent
	entrySeq        map[int]int

	lockMu       sync.Mutex
	accountLocks map[string]*sync.Mutex
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts:        make(map[string]domain.Account),
		accountIDByCode: make(map[string]string),
		entries:         make(map[string]domain.JournalEntry),
		entryLines:      make(map[string][]domain.JournalEntryLine),
		rowsByAccount:   make(map[string][]domain.GeneralLedgerRow),
		rowsByEntry:     make(map[string][]domain.GeneralLedgerRow),
		periods:         make(map[domain.PeriodKey]domain.FiscalPeriod),
		periodAudit:     make(map[domain.PeriodKey][]domain.PeriodAuditEvent),
		entrySeq:        make(map[int]int),
		accountLocks:    make(map[string]*sync.Mutex),
	}
}

// NewRepositoryProvider wires one store behind every repository facade.
func NewRepositoryProvider(store *Store) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo: &accountRepository{store: store},
		JournalRepo: &journalRepository{store: store},
		LedgerRepo:  &ledgerRepository{store: store},
		FiscalRepo:  &fiscalRepository{store: store},
	}
}

// lockAccounts acquires the per-account mutexes in ascending account-id
// order and returns the unlock function. Matching order with the pgsql
// adapter's FOR UPDATE locking keeps the deadlock argument identical.
func (s *Store) lockAccounts(accountIDs []string) func() {
	ids := make([]string, len(accountIDs))
	copy(ids, accountIDs)
	sort.Strings(ids)

	locks := make([]*sync.Mutex, 0, len(ids))
	s.lockMu.Lock()
	for _, id := range ids {
		l, ok := s.accountLocks[id]
		if !ok {
			l = &sync.Mutex{}
			s.accountLocks[id] = l
		}
		locks = append(locks, l)
	}
	s.lockMu.Unlock()

	for _, l := range locks {
		l.Lock()
	}
	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}
