package repositories

import (
	"context"
	"time"

	"github.com/finvolt/posting_engine/internal/core/domain"
)

// FiscalPeriodReader defines read operations for fiscal calendar data.
type FiscalPeriodReader interface {
	// FindPeriod retrieves a fiscal period by its (year, period) identity.
	FindPeriod(ctx context.Context, year, period int) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves all periods of a fiscal year.
	ListPeriods(ctx context.Context, year int) ([]domain.FiscalPeriod, error)

	// ListPeriodAudit retrieves the close/reopen history of a period.
	ListPeriodAudit(ctx context.Context, year, period int) ([]domain.PeriodAuditEvent, error)
}

// FiscalPeriodWriter defines write operations for fiscal calendar data.
type FiscalPeriodWriter interface {
	// SavePeriod persists a new fiscal period.
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// UpdatePeriodStatus flips a period between OPEN and CLOSED.
	UpdatePeriodStatus(ctx context.Context, year, period int, status domain.PeriodStatus, userID string, now time.Time) error

	// RecordPeriodAudit appends a close/reopen event to the period audit log.
	RecordPeriodAudit(ctx context.Context, event domain.PeriodAuditEvent) error
}

// FiscalPeriodRepositoryFacade combines fiscal period repository interfaces.
type FiscalPeriodRepositoryFacade interface {
	FiscalPeriodReader
	FiscalPeriodWriter
}
