package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
	"github.com/finvolt/posting_engine/internal/models"
	"github.com/finvolt/posting_engine/internal/utils/mapping"
)

type PgxFiscalRepository struct {
	pool *pgxpool.Pool
}

// newPgxFiscalRepository creates a new repository for fiscal calendar data.
func newPgxFiscalRepository(pool *pgxpool.Pool) *PgxFiscalRepository {
	return &PgxFiscalRepository{pool: pool}
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*PgxFiscalRepository)(nil)

// FindPeriod retrieves a fiscal period by (year, period).
func (r *PgxFiscalRepository) FindPeriod(ctx context.Context, year, period int) (*domain.FiscalPeriod, error) {
	query := `
		SELECT fiscal_year, fiscal_period, status, created_at, created_by, last_updated_at, last_updated_by
		FROM fiscal_periods
		WHERE fiscal_year = $1 AND fiscal_period = $2;
	`
	var m models.FiscalPeriod
	err := r.pool.QueryRow(ctx, query, year, period).Scan(
		&m.Year, &m.Period, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal period %d/%d: %w", year, period, err)
	}
	p := mapping.ToDomainFiscalPeriod(m)
	return &p, nil
}

// ListPeriods retrieves all periods of a fiscal year in period order.
func (r *PgxFiscalRepository) ListPeriods(ctx context.Context, year int) ([]domain.FiscalPeriod, error) {
	query := `
		SELECT fiscal_year, fiscal_period, status, created_at, created_by, last_updated_at, last_updated_by
		FROM fiscal_periods
		WHERE fiscal_year = $1
		ORDER BY fiscal_period;
	`
	rows, err := r.pool.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal periods of %d: %w", year, err)
	}
	defer rows.Close()

	var out []domain.FiscalPeriod
	for rows.Next() {
		var m models.FiscalPeriod
		if err := rows.Scan(&m.Year, &m.Period, &m.Status, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row: %w", err)
		}
		out = append(out, mapping.ToDomainFiscalPeriod(m))
	}
	return out, rows.Err()
}

// ListPeriodAudit retrieves the close/reopen history of a period.
func (r *PgxFiscalRepository) ListPeriodAudit(ctx context.Context, year, period int) ([]domain.PeriodAuditEvent, error) {
	query := `
		SELECT event_id, fiscal_year, fiscal_period, action, reason, actor_id, occurred_at
		FROM period_audit
		WHERE fiscal_year = $1 AND fiscal_period = $2
		ORDER BY occurred_at;
	`
	rows, err := r.pool.Query(ctx, query, year, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list period audit of %d/%d: %w", year, period, err)
	}
	defer rows.Close()

	var out []domain.PeriodAuditEvent
	for rows.Next() {
		var m models.PeriodAuditEvent
		var reason sql.NullString
		if err := rows.Scan(&m.EventID, &m.Year, &m.Period, &m.Action, &reason, &m.ActorID, &m.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan period audit row: %w", err)
		}
		m.Reason = reason.String
		out = append(out, mapping.ToDomainPeriodAuditEvent(m))
	}
	return out, rows.Err()
}

// SavePeriod inserts a new fiscal period.
func (r *PgxFiscalRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)
	query := `
		INSERT INTO fiscal_periods (fiscal_year, fiscal_period, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.pool.Exec(ctx, query, m.Year, m.Period, m.Status, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: fiscal period %d/%d", apperrors.ErrDuplicate, m.Year, m.Period)
		}
		return fmt.Errorf("failed to save fiscal period %d/%d: %w", m.Year, m.Period, err)
	}
	return nil
}

// UpdatePeriodStatus flips a period between OPEN and CLOSED.
func (r *PgxFiscalRepository) UpdatePeriodStatus(ctx context.Context, year, period int, status domain.PeriodStatus, userID string, now time.Time) error {
	query := `
		UPDATE fiscal_periods
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE fiscal_year = $1 AND fiscal_period = $2;
	`
	tag, err := r.pool.Exec(ctx, query, year, period, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of fiscal period %d/%d: %w", year, period, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: fiscal period %d/%d", apperrors.ErrNotFound, year, period)
	}
	return nil
}

// RecordPeriodAudit appends a close/reopen event.
func (r *PgxFiscalRepository) RecordPeriodAudit(ctx context.Context, event domain.PeriodAuditEvent) error {
	m := mapping.ToModelPeriodAuditEvent(event)
	query := `
		INSERT INTO period_audit (event_id, fiscal_year, fiscal_period, action, reason, actor_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.pool.Exec(ctx, query, m.EventID, m.Year, m.Period, m.Action, nullIfEmpty(m.Reason), m.ActorID, m.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to record period audit event %s: %w", m.EventID, err)
	}
	return nil
}
