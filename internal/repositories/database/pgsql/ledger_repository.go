package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
	"github.com/finvolt/posting_engine/internal/models"
	"github.com/finvolt/posting_engine/internal/utils/accounting"
	"github.com/finvolt/posting_engine/internal/utils/mapping"
)

const ledgerColumns = `row_id, account_id, entry_id, line_number, debit, credit, running_balance, posted_at, compensates, due_date, settled_at`

type PgxLedgerRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

// newPgxLedgerRepository creates a new repository for general ledger data.
// It shares the account repository for in-transaction balance work.
func newPgxLedgerRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanLedgerRow(row pgx.Row) (*models.GeneralLedgerRow, error) {
	var m models.GeneralLedgerRow
	err := row.Scan(
		&m.RowID,
		&m.AccountID,
		&m.EntryID,
		&m.LineNumber,
		&m.Debit,
		&m.Credit,
		&m.RunningBalance,
		&m.PostedAt,
		&m.Compensates,
		&m.DueDate,
		&m.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxLedgerRepository) queryRows(ctx context.Context, query string, args ...any) ([]domain.GeneralLedgerRow, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger rows: %w", err)
	}
	defer rows.Close()

	var out []domain.GeneralLedgerRow
	for rows.Next() {
		m, err := scanLedgerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		out = append(out, mapping.ToDomainLedgerRow(*m))
	}
	return out, rows.Err()
}

// RowsForAccount retrieves every row for an account in posting order.
func (r *PgxLedgerRepository) RowsForAccount(ctx context.Context, accountID string) ([]domain.GeneralLedgerRow, error) {
	query := `SELECT ` + ledgerColumns + ` FROM general_ledger WHERE account_id = $1 ORDER BY posted_at, line_number;`
	return r.queryRows(ctx, query, accountID)
}

// RowsForAccountAsOf retrieves rows posted on or before asOf.
func (r *PgxLedgerRepository) RowsForAccountAsOf(ctx context.Context, accountID string, asOf time.Time) ([]domain.GeneralLedgerRow, error) {
	query := `SELECT ` + ledgerColumns + ` FROM general_ledger WHERE account_id = $1 AND posted_at <= $2 ORDER BY posted_at, line_number;`
	return r.queryRows(ctx, query, accountID, asOf)
}

// RowsForEntry retrieves the rows a posted entry produced.
func (r *PgxLedgerRepository) RowsForEntry(ctx context.Context, entryID string) ([]domain.GeneralLedgerRow, error) {
	query := `SELECT ` + ledgerColumns + ` FROM general_ledger WHERE entry_id = $1 ORDER BY posted_at, line_number;`
	return r.queryRows(ctx, query, entryID)
}

// SumsForAccount returns the raw debit and credit totals for an account.
func (r *PgxLedgerRepository) SumsForAccount(ctx context.Context, accountID string) (debit, credit domain.Money, err error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM general_ledger
		WHERE account_id = $1;
	`
	var m models.GeneralLedgerRow
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&m.Debit, &m.Credit); err != nil {
		return domain.ZeroMoney(), domain.ZeroMoney(), fmt.Errorf("failed to sum ledger rows for account %s: %w", accountID, err)
	}
	return domain.NewMoneyFromDecimal(m.Debit), domain.NewMoneyFromDecimal(m.Credit), nil
}

// SumsForAccountAsOf is SumsForAccount restricted to rows up to asOf.
func (r *PgxLedgerRepository) SumsForAccountAsOf(ctx context.Context, accountID string, asOf time.Time) (debit, credit domain.Money, err error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM general_ledger
		WHERE account_id = $1 AND posted_at <= $2;
	`
	var m models.GeneralLedgerRow
	if err := r.Pool.QueryRow(ctx, query, accountID, asOf).Scan(&m.Debit, &m.Credit); err != nil {
		return domain.ZeroMoney(), domain.ZeroMoney(), fmt.Errorf("failed to sum ledger rows for account %s: %w", accountID, err)
	}
	return domain.NewMoneyFromDecimal(m.Debit), domain.NewMoneyFromDecimal(m.Credit), nil
}

// FindOpenRows retrieves unsettled rows carrying a due date.
func (r *PgxLedgerRepository) FindOpenRows(ctx context.Context, asOf time.Time) ([]domain.GeneralLedgerRow, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM general_ledger
		WHERE due_date IS NOT NULL AND settled_at IS NULL AND posted_at <= $1
		ORDER BY due_date, posted_at;
	`
	return r.queryRows(ctx, query, asOf)
}

// AppendEntryRows writes the ledger rows, applies the balance deltas and
// flips the entry status in one database transaction. Account rows are
// locked FOR UPDATE in ascending account_id order first.
func (r *PgxLedgerRepository) AppendEntryRows(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine, balanceChanges map[string]domain.Money, newStatus domain.EntryStatus, compensates bool, postedAt time.Time, postedBy string) error {
	return r.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := r.appendRowsInTx(ctx, tx, lines, balanceChanges, compensates, postedAt, postedBy); err != nil {
			return err
		}

		// Compare-and-set on the status the caller validated: a concurrent
		// worker that already flipped the entry makes this match zero rows.
		statusQuery := `
			UPDATE journal_entries
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE entry_id = $1 AND status = $5;
		`
		tag, err := tx.Exec(ctx, statusQuery, entry.EntryID, string(newStatus), postedAt, postedBy, string(entry.Status))
		if err != nil {
			return fmt.Errorf("failed to update status of entry %s: %w", entry.EntryID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: entry %s is no longer %s", apperrors.ErrInvalidStateTransition, entry.EntryID, entry.Status)
		}
		return nil
	})
}

// AppendReversalRows persists the reversing entry with its lines, writes its
// ledger rows and balance deltas, and marks the original REVERSED, all in one
// database transaction.
func (r *PgxLedgerRepository) AppendReversalRows(ctx context.Context, reversing domain.JournalEntry, lines []domain.JournalEntryLine, balanceChanges map[string]domain.Money, originalEntryID string, postedAt time.Time, postedBy string) error {
	return r.RunInTx(ctx, func(tx pgx.Tx) error {
		reversing.Status = domain.Posted
		if err := insertEntry(ctx, tx, reversing); err != nil {
			return err
		}
		if err := insertLines(ctx, tx, lines); err != nil {
			return err
		}

		if err := r.appendRowsInTx(ctx, tx, lines, balanceChanges, false, postedAt, postedBy); err != nil {
			return err
		}

		// The original must still be POSTED; anything else means a concurrent
		// unpost or reversal won the race.
		linkQuery := `
			UPDATE journal_entries
			SET status = $2, reversed_by_entry_id = $3, last_updated_at = $4, last_updated_by = $5
			WHERE entry_id = $1 AND status = $6;
		`
		tag, err := tx.Exec(ctx, linkQuery,
			originalEntryID, string(domain.Reversed), reversing.EntryID, postedAt, postedBy, string(domain.Posted))
		if err != nil {
			return fmt.Errorf("failed to mark entry %s reversed: %w", originalEntryID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: entry %s is no longer POSTED", apperrors.ErrInvalidStateTransition, originalEntryID)
		}
		return nil
	})
}

// appendRowsInTx locks the touched accounts, computes running balances in
// line-number order, batch-inserts the ledger rows and applies the balance
// deltas. The per-line deltas are cross-checked against balanceChanges; a
// mismatch aborts the transaction with ErrPostingIntegrity.
func (r *PgxLedgerRepository) appendRowsInTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalEntryLine, balanceChanges map[string]domain.Money, compensates bool, postedAt time.Time, postedBy string) error {
	accountIDs := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		accountIDs = append(accountIDs, id)
	}

	lockedAccounts, err := r.accountRepo.findAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	rowQuery := `
		INSERT INTO general_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULL);
	`
	batch := &pgx.Batch{}
	running := make(map[string]domain.Money, len(lockedAccounts))
	deltas := make(map[string]domain.Money, len(lockedAccounts))
	for id, acc := range lockedAccounts {
		running[id] = acc.Balance
		deltas[id] = domain.ZeroMoney()
	}

	for _, line := range lines {
		account, ok := lockedAccounts[line.AccountID]
		if !ok {
			return fmt.Errorf("%w: no balance change computed for account %s", apperrors.ErrPostingIntegrity, line.AccountID)
		}

		change := accounting.SignedAmount(line.Debit, line.Credit, account.AccountType.NormalSide())
		running[line.AccountID] = running[line.AccountID].Add(change)
		deltas[line.AccountID] = deltas[line.AccountID].Add(change)

		batch.Queue(rowQuery,
			uuid.NewString(),
			line.AccountID,
			line.EntryID,
			line.LineNumber,
			line.Debit.Decimal(),
			line.Credit.Decimal(),
			running[line.AccountID].Decimal(),
			postedAt,
			compensates,
			line.DueDate,
		)
	}

	for id, want := range balanceChanges {
		if !deltas[id].Equal(want) {
			return fmt.Errorf("%w: account %s delta %s does not match expected %s",
				apperrors.ErrPostingIntegrity, id, deltas[id].String(), want.String())
		}
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert ledger rows: %w", err)
	}

	return r.accountRepo.updateAccountBalancesInTx(ctx, tx, balanceChanges, postedBy, postedAt)
}
