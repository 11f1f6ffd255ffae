// ledger_verifier is a batch integrity job. It runs migrations, reconciles
// every cached account balance against ledger history, verifies the trial
// balance, and exits non-zero if anything is off.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/finvolt/posting_engine/internal/core/services"
	"github.com/finvolt/posting_engine/internal/platform/config"
	"github.com/finvolt/posting_engine/internal/platform/logging"
	"github.com/finvolt/posting_engine/internal/repositories/database/pgsql"
	"github.com/finvolt/posting_engine/pkg/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	ctx := logging.WithLogger(context.Background(), logger)

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(logger, cfg); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(repos)

	failed := false

	accounts, err := container.COA.ListAccounts(ctx)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		os.Exit(1)
	}
	for _, account := range accounts {
		if !account.IsPostingAccount {
			continue
		}
		rec, err := container.Balance.Reconcile(ctx, account.AccountID)
		if err != nil {
			logger.Error("Failed to reconcile account",
				slog.String("account_id", account.AccountID),
				slog.String("error", err.Error()))
			failed = true
			continue
		}
		if !rec.InSync {
			logger.Error("Account balance out of sync",
				slog.String("account_id", account.AccountID),
				slog.String("account_code", account.AccountCode),
				slog.String("cached", rec.CachedBalance.String()),
				slog.String("computed", rec.ComputedBalance.String()))
			failed = true
		}
	}

	result, err := container.Reporting.VerifyTrialBalance(ctx)
	if err != nil {
		logger.Error("Failed to verify trial balance", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !result.Balanced {
		logger.Error("Trial balance discrepancy",
			slog.String("total_debit", result.TotalDebit.String()),
			slog.String("total_credit", result.TotalCredit.String()),
			slog.String("discrepancy", result.Discrepancy.String()))
		failed = true
	}

	if failed {
		logger.Error("Ledger verification failed")
		os.Exit(2)
	}
	logger.Info("Ledger verification passed",
		slog.Int("accounts_checked", len(accounts)),
		slog.String("total_debit", result.TotalDebit.String()),
		slog.String("total_credit", result.TotalCredit.String()))
}

// runMigrations applies all pending up migrations through a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(logger *slog.Logger, cfg *config.Config) error {
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer migrationDB.Close()

	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if sourceErr, dbErr := m.Close(); sourceErr != nil {
		return sourceErr
	} else if dbErr != nil {
		return dbErr
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Database migrations applied")
	}
	return nil
}
