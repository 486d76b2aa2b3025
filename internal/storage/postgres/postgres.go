// Package postgres is the hosted ledger store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"ledger/internal/core"
	"ledger/internal/storage"
	"ledger/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Repository struct {
	pool *pgxpool.Pool
}

var (
	_ store.Reader   = (*Repository)(nil)
	_ store.Importer = (*Repository)(nil)
)

// Open connects to databaseURL, applies migrations and returns the store.
func Open(ctx context.Context, databaseURL string) (*Repository, error) {
	if err := RunMigrations(databaseURL); err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	// Prefer simple protocol for broader compatibility (e.g., poolers).
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// RunMigrations applies the embedded schema through database/sql.
func RunMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer db.Close()

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("create pgx migrate driver: %w", err)
	}
	return storage.MigrateUp(migrationsFS, "migrations", "pgx", driver)
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repository) ListInvestors(ctx context.Context) ([]core.Investor, error) {
	rows, err := r.pool.Query(ctx, listInvestors)
	if err != nil {
		return nil, fmt.Errorf("list investors: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Investor, error) {
		var (
			inv                                                core.Investor
			share, invested, profit, withdrawn, balance, stamp string
		)
		if err := row.Scan(&inv.ID, &inv.Name, &inv.Phone, &share, &invested, &profit, &withdrawn, &balance, &stamp); err != nil {
			return inv, fmt.Errorf("scan investor: %w", err)
		}
		var err error
		if inv.SharePercentage, err = storage.ParsePercentColumn("share_percentage", share); err != nil {
			return inv, err
		}
		if inv.TotalInvested, err = storage.ParseAmount("total_invested", invested); err != nil {
			return inv, err
		}
		if inv.TotalProfit, err = storage.ParseAmount("total_profit", profit); err != nil {
			return inv, err
		}
		if inv.TotalWithdrawn, err = storage.ParseAmount("total_withdrawn", withdrawn); err != nil {
			return inv, err
		}
		if inv.CurrentBalance, err = storage.ParseAmount("current_balance", balance); err != nil {
			return inv, err
		}
		inv.LastUpdated, err = storage.ParseTime(stamp)
		return inv, err
	})
}

func (r *Repository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.pool.Query(ctx, listExpenses)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Expense, error) {
		var (
			e                   core.Expense
			amount, date, files string
		)
		if err := row.Scan(&e.ID, &e.Category, &amount, &date, &e.Notes, &e.AddedBy, &files); err != nil {
			return e, fmt.Errorf("scan expense: %w", err)
		}
		var err error
		if e.Amount, err = storage.ParseAmount("amount", amount); err != nil {
			return e, err
		}
		if e.Date, err = storage.ParseDateColumn(date); err != nil {
			return e, err
		}
		e.Attachments, err = storage.DecodeAttachments(files)
		return e, err
	})
}

func (r *Repository) ListRevenues(ctx context.Context) ([]core.Revenue, error) {
	rows, err := r.pool.Query(ctx, listRevenues)
	if err != nil {
		return nil, fmt.Errorf("list revenues: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Revenue, error) {
		var (
			rev                 core.Revenue
			amount, date, files string
		)
		if err := row.Scan(&rev.ID, &amount, &date, &rev.Description, &rev.AddedBy, &files); err != nil {
			return rev, fmt.Errorf("scan revenue: %w", err)
		}
		var err error
		if rev.Amount, err = storage.ParseAmount("amount", amount); err != nil {
			return rev, err
		}
		if rev.Date, err = storage.ParseDateColumn(date); err != nil {
			return rev, err
		}
		rev.Attachments, err = storage.DecodeAttachments(files)
		return rev, err
	})
}

func (r *Repository) ListWithdrawals(ctx context.Context) ([]core.Withdrawal, error) {
	rows, err := r.pool.Query(ctx, listWithdrawals)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Withdrawal, error) {
		var (
			w            core.Withdrawal
			amount, date string
		)
		if err := row.Scan(&w.ID, &w.InvestorName, &w.InvestorID, &amount, &date, &w.Notes, &w.ApprovedBy); err != nil {
			return w, fmt.Errorf("scan withdrawal: %w", err)
		}
		var err error
		if w.Amount, err = storage.ParseAmount("amount", amount); err != nil {
			return w, err
		}
		w.Date, err = storage.ParseDateColumn(date)
		return w, err
	})
}

func (r *Repository) ListProjectWithdrawals(ctx context.Context) ([]core.ProjectWithdrawal, error) {
	rows, err := r.pool.Query(ctx, listProjectWithdrawals)
	if err != nil {
		return nil, fmt.Errorf("list project withdrawals: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.ProjectWithdrawal, error) {
		var (
			w            core.ProjectWithdrawal
			amount, date string
		)
		if err := row.Scan(&w.ID, &amount, &date, &w.Notes, &w.ApprovedBy); err != nil {
			return w, fmt.Errorf("scan project withdrawal: %w", err)
		}
		var err error
		if w.Amount, err = storage.ParseAmount("amount", amount); err != nil {
			return w, err
		}
		w.Date, err = storage.ParseDateColumn(date)
		return w, err
	})
}

func (r *Repository) GetSettings(ctx context.Context) (core.Settings, error) {
	var (
		s             core.Settings
		pct, lastSync string
	)
	err := r.pool.QueryRow(ctx, getSettings).
		Scan(&pct, &s.Currency, &s.SheetID, &lastSync, &s.EnableAIInsights, &s.EnableDriveLink)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	if s.ProjectPercentage, err = storage.ParsePercentColumn("project_percentage", pct); err != nil {
		return core.Settings{}, fmt.Errorf("settings: %w", err)
	}
	if s.LastSync, err = storage.ParseTime(lastSync); err != nil {
		return core.Settings{}, fmt.Errorf("settings: %w", err)
	}
	return s, nil
}

// Import replaces the whole ledger with snap in one transaction.
func (r *Repository) Import(ctx context.Context, snap core.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("validate snapshot: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, truncateLedger); err != nil {
		return fmt.Errorf("truncate ledger: %w", err)
	}

	batch := &pgx.Batch{}
	for _, inv := range snap.Investors {
		batch.Queue(insertInvestor, inv.ID, inv.Name, inv.Phone, inv.SharePercentage.Decimal().String(),
			inv.TotalInvested.String(), inv.TotalProfit.String(), inv.TotalWithdrawn.String(),
			inv.CurrentBalance.String(), storage.FormatTime(inv.LastUpdated))
	}
	for _, e := range snap.Expenses {
		files, err := storage.EncodeAttachments(e.Attachments)
		if err != nil {
			return err
		}
		batch.Queue(insertExpense, e.ID, e.Category, e.Amount.String(), e.Date.String(), e.Notes, e.AddedBy, files)
	}
	for _, rev := range snap.Revenues {
		files, err := storage.EncodeAttachments(rev.Attachments)
		if err != nil {
			return err
		}
		batch.Queue(insertRevenue, rev.ID, rev.Amount.String(), rev.Date.String(), rev.Description, rev.AddedBy, files)
	}
	for _, w := range snap.Withdrawals {
		batch.Queue(insertWithdrawal, w.ID, w.InvestorName, w.InvestorID, w.Amount.String(), w.Date.String(), w.Notes, w.ApprovedBy)
	}
	for _, w := range snap.ProjectWithdrawals {
		batch.Queue(insertProjectWithdrawal, w.ID, w.Amount.String(), w.Date.String(), w.Notes, w.ApprovedBy)
	}
	s := snap.Settings
	batch.Queue(upsertSettings, s.ProjectPercentage.Decimal().String(), s.Currency, s.SheetID,
		storage.FormatTime(s.LastSync), s.EnableAIInsights, s.EnableDriveLink)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("import ledger: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Ledger imported into Postgres",
		"investors", len(snap.Investors),
		"expenses", len(snap.Expenses),
		"revenues", len(snap.Revenues),
		"withdrawals", len(snap.Withdrawals),
		"project_withdrawals", len(snap.ProjectWithdrawals))
	return nil
}
