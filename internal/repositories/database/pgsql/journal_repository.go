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

const entryColumns = `entry_id, entry_number, entry_date, fiscal_year, fiscal_period, description, status, total_debit, total_credit, reversal_of_entry_id, reversed_by_entry_id, approved_by, rejection_reason, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_number, account_id, debit, credit, memo, due_date, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalEntryRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	var approvedBy, rejectionReason sql.NullString
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.FiscalYear,
		&m.FiscalPeriod,
		&m.Description,
		&m.Status,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.ReversalOfEntryID,
		&m.ReversedByEntryID,
		&approvedBy,
		&rejectionReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.ApprovedBy = approvedBy.String
	m.RejectionReason = rejectionReason.String
	return &m, nil
}

func scanLine(row pgx.Row) (*models.JournalEntryLine, error) {
	var m models.JournalEntryLine
	var memo sql.NullString
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.LineNumber,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&memo,
		&m.DueDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.Memo = memo.String
	return &m, nil
}

// FindEntryByID retrieves an entry header by ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	entry := mapping.ToDomainJournalEntry(*m)
	return &entry, nil
}

// FindLinesByEntryID retrieves an entry's lines in line-number order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = $1 ORDER BY line_number;`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var out []domain.JournalEntryLine
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row of entry %s: %w", entryID, err)
		}
		out = append(out, mapping.ToDomainJournalEntryLine(*m))
	}
	return out, rows.Err()
}

// ListEntriesByPeriod retrieves all entry headers dated in a fiscal period.
func (r *PgxJournalRepository) ListEntriesByPeriod(ctx context.Context, year, period int) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE fiscal_year = $1 AND fiscal_period = $2 ORDER BY entry_number;`
	rows, err := r.Pool.Query(ctx, query, year, period)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for period %d/%d: %w", year, period, err)
	}
	defer rows.Close()

	var out []domain.JournalEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		out = append(out, mapping.ToDomainJournalEntry(*m))
	}
	return out, rows.Err()
}

// CountPendingEntriesInPeriod counts entries that block a period close.
func (r *PgxJournalRepository) CountPendingEntriesInPeriod(ctx context.Context, year, period int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM journal_entries
		WHERE fiscal_year = $1 AND fiscal_period = $2
		  AND status IN ('DRAFT', 'SUBMITTED', 'APPROVED', 'UNPOSTED');
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, year, period).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending entries for %d/%d: %w", year, period, err)
	}
	return count, nil
}

// NextEntryNumber issues the next number for a fiscal year from the
// entry_number_seq table. The upsert runs atomically, so concurrent callers
// never see the same value.
func (r *PgxJournalRepository) NextEntryNumber(ctx context.Context, fiscalYear int) (string, error) {
	query := `
		INSERT INTO entry_number_seq (fiscal_year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (fiscal_year)
		DO UPDATE SET last_value = entry_number_seq.last_value + 1
		RETURNING last_value;
	`
	var n int64
	if err := r.Pool.QueryRow(ctx, query, fiscalYear).Scan(&n); err != nil {
		return "", fmt.Errorf("failed to issue entry number for %d: %w", fiscalYear, err)
	}
	return fmt.Sprintf("JE-%d-%06d", fiscalYear, n), nil
}

// SaveEntry inserts an entry with its lines in one transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	return r.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := insertEntry(ctx, tx, entry); err != nil {
			return err
		}
		return insertLines(ctx, tx, lines)
	})
}

// UpdateEntry replaces an editable entry's header and full line set.
func (r *PgxJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	return r.RunInTx(ctx, func(tx pgx.Tx) error {
		m := mapping.ToModelJournalEntry(entry)
		query := `
			UPDATE journal_entries
			SET entry_date = $2, fiscal_year = $3, fiscal_period = $4, description = $5,
			    total_debit = $6, total_credit = $7, last_updated_at = $8, last_updated_by = $9
			WHERE entry_id = $1;
		`
		tag, err := tx.Exec(ctx, query,
			m.EntryID, m.EntryDate, m.FiscalYear, m.FiscalPeriod, m.Description,
			m.TotalDebit, m.TotalCredit, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to update journal entry %s: %w", m.EntryID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, m.EntryID)
		}

		// Lines of unposted entries have no ledger rows pointing at them, so a
		// delete-and-reinsert replace is safe here.
		if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, m.EntryID); err != nil {
			return fmt.Errorf("failed to delete lines of entry %s: %w", m.EntryID, err)
		}
		return insertLines(ctx, tx, lines)
	})
}

// UpdateEntryStatus moves an entry to a new status.
func (r *PgxJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, string(status), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return nil
}

// UpdateEntryReview records an approve or reject decision.
func (r *PgxJournalRepository) UpdateEntryReview(ctx context.Context, entryID string, status domain.EntryStatus, reviewerID, reason string, updatedAt time.Time) error {
	var tag pgconn.CommandTag
	var err error
	if status == domain.Approved {
		query := `
			UPDATE journal_entries
			SET status = $2, approved_by = $3, rejection_reason = NULL, last_updated_at = $4, last_updated_by = $3
			WHERE entry_id = $1;
		`
		tag, err = r.Pool.Exec(ctx, query, entryID, string(status), reviewerID, updatedAt)
	} else {
		query := `
			UPDATE journal_entries
			SET status = $2, rejection_reason = $5, last_updated_at = $4, last_updated_by = $3
			WHERE entry_id = $1;
		`
		tag, err = r.Pool.Exec(ctx, query, entryID, string(status), reviewerID, updatedAt, reason)
	}
	if err != nil {
		return fmt.Errorf("failed to record review of entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return nil
}

func insertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.EntryNumber,
		m.EntryDate,
		m.FiscalYear,
		m.FiscalPeriod,
		m.Description,
		m.Status,
		m.TotalDebit,
		m.TotalCredit,
		m.ReversalOfEntryID,
		m.ReversedByEntryID,
		nullIfEmpty(m.ApprovedBy),
		nullIfEmpty(m.RejectionReason),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, m.EntryID)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", m.EntryID, err)
	}
	return nil
}

func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalEntryLine) error {
	query := `
		INSERT INTO journal_entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelJournalEntryLine(line)
		batch.Queue(query,
			m.LineID,
			m.EntryID,
			m.LineNumber,
			m.AccountID,
			m.Debit,
			m.Credit,
			nullIfEmpty(m.Memo),
			m.DueDate,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert journal entry lines: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
