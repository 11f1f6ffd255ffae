package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/finvolt/posting_engine/internal/core/ports/services"
)

// fiscalCalendarService gates all postings on fiscal period status.
//
// Each period has an RWMutex: posts hold the read side for their whole unit
// of work, close/reopen take the write side. This guarantees a period never
// flips to CLOSED while a post targeting it is mid-flight.
type fiscalCalendarService struct {
	BaseService
	fiscalRepo  portsrepo.FiscalPeriodRepositoryFacade
	journalRepo portsrepo.JournalEntryReader

	mu    sync.Mutex
	gates map[domain.PeriodKey]*sync.RWMutex
}

// NewFiscalCalendarService creates the fiscal calendar service.
func NewFiscalCalendarService(fiscalRepo portsrepo.FiscalPeriodRepositoryFacade, journalRepo portsrepo.JournalEntryReader) portssvc.FiscalCalendarSvcFacade {
	return &fiscalCalendarService{
		fiscalRepo:  fiscalRepo,
		journalRepo: journalRepo,
		gates:       make(map[domain.PeriodKey]*sync.RWMutex),
	}
}

var _ portssvc.FiscalCalendarSvcFacade = (*fiscalCalendarService)(nil)

func (s *fiscalCalendarService) gate(key domain.PeriodKey) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[key]
	if !ok {
		g = &sync.RWMutex{}
		s.gates[key] = g
	}
	return g
}

// BeginPosting acquires the shared side of the period gate.
func (s *fiscalCalendarService) BeginPosting(key domain.PeriodKey) (release func()) {
	g := s.gate(key)
	g.RLock()
	return g.RUnlock
}

// IsOpen reports whether a period accepts postings. A period that was never
// opened is not open.
func (s *fiscalCalendarService) IsOpen(ctx context.Context, year, period int) (bool, error) {
	p, err := s.fiscalRepo.FindPeriod(ctx, year, period)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find fiscal period %d/%d: %w", year, period, err)
	}
	return p.Status == domain.PeriodOpen, nil
}

// OpenPeriod creates a period in OPEN state.
func (s *fiscalCalendarService) OpenPeriod(ctx context.Context, year, period int, userID string) (*domain.FiscalPeriod, error) {
	if period < 1 || period > 12 {
		return nil, fmt.Errorf("%w: period %d out of range", apperrors.ErrValidation, period)
	}
	existing, err := s.fiscalRepo.FindPeriod(ctx, year, period)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check fiscal period %d/%d: %w", year, period, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: fiscal period %d/%d", apperrors.ErrDuplicate, year, period)
	}

	now := time.Now().UTC()
	p := domain.FiscalPeriod{
		Year:   year,
		Period: period,
		Status: domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.fiscalRepo.SavePeriod(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save fiscal period %d/%d: %w", year, period, err)
	}
	s.LogInfo(ctx, "Fiscal period opened", slog.Int("year", year), slog.Int("period", period))
	return &p, nil
}

// ClosePeriod closes a period for new postings. Refuses while unposted
// entries remain, and waits for in-flight posts to drain via the gate.
func (s *fiscalCalendarService) ClosePeriod(ctx context.Context, year, period int, userID string) error {
	g := s.gate(domain.PeriodKey{Year: year, Period: period})
	g.Lock()
	defer g.Unlock()

	p, err := s.fiscalRepo.FindPeriod(ctx, year, period)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: fiscal period %d/%d", apperrors.ErrNotFound, year, period)
		}
		return fmt.Errorf("failed to find fiscal period %d/%d: %w", year, period, err)
	}
	if p.Status == domain.PeriodClosed {
		return nil // already closed
	}

	pending, err := s.journalRepo.CountPendingEntriesInPeriod(ctx, year, period)
	if err != nil {
		return fmt.Errorf("failed to count pending entries for %d/%d: %w", year, period, err)
	}
	if pending > 0 {
		return fmt.Errorf("%w: %d entries in %d/%d", apperrors.ErrPendingEntriesExist, pending, year, period)
	}

	now := time.Now().UTC()
	if err := s.fiscalRepo.UpdatePeriodStatus(ctx, year, period, domain.PeriodClosed, userID, now); err != nil {
		return fmt.Errorf("failed to close fiscal period %d/%d: %w", year, period, err)
	}
	if err := s.recordAudit(ctx, year, period, domain.PeriodActionClose, "", userID, now); err != nil {
		return err
	}

	s.LogInfo(ctx, "Fiscal period closed", slog.Int("year", year), slog.Int("period", period), slog.String("closed_by", userID))
	return nil
}

// ReopenPeriod reopens a closed period. Always allowed, never silent: the
// reopen is written to the period audit log because it re-enables postings
// retroactively.
func (s *fiscalCalendarService) ReopenPeriod(ctx context.Context, year, period int, reason, userID string) error {
	if reason == "" {
		return fmt.Errorf("%w: reopen requires a reason", apperrors.ErrValidation)
	}

	g := s.gate(domain.PeriodKey{Year: year, Period: period})
	g.Lock()
	defer g.Unlock()

	p, err := s.fiscalRepo.FindPeriod(ctx, year, period)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: fiscal period %d/%d", apperrors.ErrNotFound, year, period)
		}
		return fmt.Errorf("failed to find fiscal period %d/%d: %w", year, period, err)
	}
	if p.Status == domain.PeriodOpen {
		return nil // already open
	}

	now := time.Now().UTC()
	if err := s.fiscalRepo.UpdatePeriodStatus(ctx, year, period, domain.PeriodOpen, userID, now); err != nil {
		return fmt.Errorf("failed to reopen fiscal period %d/%d: %w", year, period, err)
	}
	if err := s.recordAudit(ctx, year, period, domain.PeriodActionReopen, reason, userID, now); err != nil {
		return err
	}

	s.LogWarn(ctx, "Fiscal period reopened",
		slog.Int("year", year),
		slog.Int("period", period),
		slog.String("reopened_by", userID),
		slog.String("reason", reason))
	return nil
}

// PeriodAuditTrail returns the close/reopen history of a period.
func (s *fiscalCalendarService) PeriodAuditTrail(ctx context.Context, year, period int) ([]domain.PeriodAuditEvent, error) {
	return s.fiscalRepo.ListPeriodAudit(ctx, year, period)
}

func (s *fiscalCalendarService) recordAudit(ctx context.Context, year, period int, action, reason, actorID string, at time.Time) error {
	event := domain.PeriodAuditEvent{
		EventID:    uuid.NewString(),
		Year:       year,
		Period:     period,
		Action:     action,
		Reason:     reason,
		ActorID:    actorID,
		OccurredAt: at,
	}
	if err := s.fiscalRepo.RecordPeriodAudit(ctx, event); err != nil {
		return fmt.Errorf("failed to record period audit event for %d/%d: %w", year, period, err)
	}
	return nil
}
