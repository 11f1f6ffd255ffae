package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
)

type fiscalRepository struct {
	store *Store
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*fiscalRepository)(nil)

func (r *fiscalRepository) FindPeriod(ctx context.Context, year, period int) (*domain.FiscalPeriod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.periods[domain.PeriodKey{Year: year, Period: period}]
	if !ok {
		return nil, fmt.Errorf("%w: fiscal period %d/%d", apperrors.ErrNotFound, year, period)
	}
	return &p, nil
}

func (r *fiscalRepository) ListPeriods(ctx context.Context, year int) ([]domain.FiscalPeriod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.FiscalPeriod
	for key, p := range r.store.periods {
		if key.Year == year {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}

func (r *fiscalRepository) ListPeriodAudit(ctx context.Context, year, period int) ([]domain.PeriodAuditEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	events := r.store.periodAudit[domain.PeriodKey{Year: year, Period: period}]
	return append([]domain.PeriodAuditEvent(nil), events...), nil
}

func (r *fiscalRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := period.Key()
	if _, ok := r.store.periods[key]; ok {
		return fmt.Errorf("%w: fiscal period %d/%d", apperrors.ErrDuplicate, key.Year, key.Period)
	}
	r.store.periods[key] = period
	return nil
}

func (r *fiscalRepository) UpdatePeriodStatus(ctx context.Context, year, period int, status domain.PeriodStatus, userID string, now time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := domain.PeriodKey{Year: year, Period: period}
	p, ok := r.store.periods[key]
	if !ok {
		return fmt.Errorf("%w: fiscal period %d/%d", apperrors.ErrNotFound, year, period)
	}
	p.Status = status
	p.LastUpdatedAt = now
	p.LastUpdatedBy = userID
	r.store.periods[key] = p
	return nil
}

func (r *fiscalRepository) RecordPeriodAudit(ctx context.Context, event domain.PeriodAuditEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := domain.PeriodKey{Year: event.Year, Period: event.Period}
	r.store.periodAudit[key] = append(r.store.periodAudit[key], event)
	return nil
}
