package models

import "time"

// FiscalPeriod represents a row in the fiscal_periods table.
type FiscalPeriod struct {
	Year   int    `db:"fiscal_year"`
	Period int    `db:"fiscal_period"`
	Status string `db:"status"`
	AuditFields
}

// PeriodAuditEvent represents a row in the period_audit table.
type PeriodAuditEvent struct {
	EventID    string    `db:"event_id"`
	Year       int       `db:"fiscal_year"`
	Period     int       `db:"fiscal_period"`
	Action     string    `db:"action"`
	Reason     string    `db:"reason"`
	ActorID    string    `db:"actor_id"`
	OccurredAt time.Time `db:"occurred_at"`
}
