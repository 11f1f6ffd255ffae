package domain

import "time"

// PeriodStatus is the open/closed state of a fiscal period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// PeriodKey identifies a fiscal period by (year, period).
type PeriodKey struct {
	Year   int
	Period int
}

// PeriodOf maps a calendar date to its fiscal (year, period). Periods are
// calendar months; a different fiscal calendar would change only this function.
func PeriodOf(t time.Time) PeriodKey {
	return PeriodKey{Year: t.Year(), Period: int(t.Month())}
}

// FiscalPeriod is an independently lockable accounting sub-interval.
// Closing is a one-way gate for new postings; reopening is a deliberate,
// audited administrative override.
type FiscalPeriod struct {
	Year   int          `json:"year"`
	Period int          `json:"period"`
	Status PeriodStatus `json:"status"`
	AuditFields
}

// Key returns the period's identity pair.
func (p FiscalPeriod) Key() PeriodKey {
	return PeriodKey{Year: p.Year, Period: p.Period}
}

// PeriodAuditEvent records a close or reopen of a fiscal period.
// Reopens re-enable postings retroactively, so they are never silent.
type PeriodAuditEvent struct {
	EventID    string    `json:"eventID"` // Primary key (UUID)
	Year       int       `json:"year"`
	Period     int       `json:"period"`
	Action     string    `json:"action"` // "CLOSE" or "REOPEN"
	Reason     string    `json:"reason,omitempty"`
	ActorID    string    `json:"actorID"`
	OccurredAt time.Time `json:"occurredAt"`
}

const (
	PeriodActionClose  = "CLOSE"
	PeriodActionReopen = "REOPEN"
)
