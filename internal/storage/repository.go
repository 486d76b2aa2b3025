// Package storage is the SQLite ledger store.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ store.Reader   = (*SQLiteRepository)(nil)
	_ store.Importer = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) ListInvestors(ctx context.Context) ([]core.Investor, error) {
	rows, err := r.db.QueryContext(ctx, listInvestors)
	if err != nil {
		return nil, fmt.Errorf("list investors: %w", err)
	}
	defer rows.Close()

	out := []core.Investor{}
	for rows.Next() {
		var (
			inv                                                core.Investor
			share, invested, profit, withdrawn, balance, stamp string
		)
		if err := rows.Scan(&inv.ID, &inv.Name, &inv.Phone, &share, &invested, &profit, &withdrawn, &balance, &stamp); err != nil {
			return nil, fmt.Errorf("scan investor: %w", err)
		}
		if inv.SharePercentage, err = ParsePercentColumn("share_percentage", share); err != nil {
			return nil, fmt.Errorf("investor %s: %w", inv.ID, err)
		}
		for _, f := range []struct {
			col string
			raw string
			dst *core.Money
		}{
			{"total_invested", invested, &inv.TotalInvested},
			{"total_profit", profit, &inv.TotalProfit},
			{"total_withdrawn", withdrawn, &inv.TotalWithdrawn},
			{"current_balance", balance, &inv.CurrentBalance},
		} {
			if *f.dst, err = ParseAmount(f.col, f.raw); err != nil {
				return nil, fmt.Errorf("investor %s: %w", inv.ID, err)
			}
		}
		if inv.LastUpdated, err = ParseTime(stamp); err != nil {
			return nil, fmt.Errorf("investor %s: %w", inv.ID, err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		var (
			e                   core.Expense
			amount, date, files string
		)
		if err := rows.Scan(&e.ID, &e.Category, &amount, &date, &e.Notes, &e.AddedBy, &files); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Amount, err = ParseAmount("amount", amount); err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		if e.Date, err = ParseDateColumn(date); err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		if e.Attachments, err = DecodeAttachments(files); err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListRevenues(ctx context.Context) ([]core.Revenue, error) {
	rows, err := r.db.QueryContext(ctx, listRevenues)
	if err != nil {
		return nil, fmt.Errorf("list revenues: %w", err)
	}
	defer rows.Close()

	out := []core.Revenue{}
	for rows.Next() {
		var (
			rev                 core.Revenue
			amount, date, files string
		)
		if err := rows.Scan(&rev.ID, &amount, &date, &rev.Description, &rev.AddedBy, &files); err != nil {
			return nil, fmt.Errorf("scan revenue: %w", err)
		}
		if rev.Amount, err = ParseAmount("amount", amount); err != nil {
			return nil, fmt.Errorf("revenue %s: %w", rev.ID, err)
		}
		if rev.Date, err = ParseDateColumn(date); err != nil {
			return nil, fmt.Errorf("revenue %s: %w", rev.ID, err)
		}
		if rev.Attachments, err = DecodeAttachments(files); err != nil {
			return nil, fmt.Errorf("revenue %s: %w", rev.ID, err)
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListWithdrawals(ctx context.Context) ([]core.Withdrawal, error) {
	rows, err := r.db.QueryContext(ctx, listWithdrawals)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	out := []core.Withdrawal{}
	for rows.Next() {
		var (
			w            core.Withdrawal
			amount, date string
		)
		if err := rows.Scan(&w.ID, &w.InvestorName, &w.InvestorID, &amount, &date, &w.Notes, &w.ApprovedBy); err != nil {
			return nil, fmt.Errorf("scan withdrawal: %w", err)
		}
		if w.Amount, err = ParseAmount("amount", amount); err != nil {
			return nil, fmt.Errorf("withdrawal %s: %w", w.ID, err)
		}
		if w.Date, err = ParseDateColumn(date); err != nil {
			return nil, fmt.Errorf("withdrawal %s: %w", w.ID, err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListProjectWithdrawals(ctx context.Context) ([]core.ProjectWithdrawal, error) {
	rows, err := r.db.QueryContext(ctx, listProjectWithdrawals)
	if err != nil {
		return nil, fmt.Errorf("list project withdrawals: %w", err)
	}
	defer rows.Close()

	out := []core.ProjectWithdrawal{}
	for rows.Next() {
		var (
			w            core.ProjectWithdrawal
			amount, date string
		)
		if err := rows.Scan(&w.ID, &amount, &date, &w.Notes, &w.ApprovedBy); err != nil {
			return nil, fmt.Errorf("scan project withdrawal: %w", err)
		}
		if w.Amount, err = ParseAmount("amount", amount); err != nil {
			return nil, fmt.Errorf("project withdrawal %s: %w", w.ID, err)
		}
		if w.Date, err = ParseDateColumn(date); err != nil {
			return nil, fmt.Errorf("project withdrawal %s: %w", w.ID, err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetSettings(ctx context.Context) (core.Settings, error) {
	var (
		s             core.Settings
		pct, lastSync string
		aiOn, driveOn bool
	)
	err := r.db.QueryRowContext(ctx, getSettings).Scan(&pct, &s.Currency, &s.SheetID, &lastSync, &aiOn, &driveOn)
	if err == sql.ErrNoRows {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	if s.ProjectPercentage, err = ParsePercentColumn("project_percentage", pct); err != nil {
		return core.Settings{}, fmt.Errorf("settings: %w", err)
	}
	if s.LastSync, err = ParseTime(lastSync); err != nil {
		return core.Settings{}, fmt.Errorf("settings: %w", err)
	}
	s.EnableAIInsights, s.EnableDriveLink = aiOn, driveOn
	return s, nil
}

// Import replaces the whole ledger with snap in a single transaction.
func (r *SQLiteRepository) Import(ctx context.Context, snap core.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("validate snapshot: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range ledgerTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, inv := range snap.Investors {
		if _, err := tx.ExecContext(ctx, insertInvestor,
			inv.ID, inv.Name, inv.Phone, inv.SharePercentage.Decimal().String(),
			inv.TotalInvested.String(), inv.TotalProfit.String(), inv.TotalWithdrawn.String(),
			inv.CurrentBalance.String(), FormatTime(inv.LastUpdated)); err != nil {
			return fmt.Errorf("insert investor %s: %w", inv.ID, err)
		}
	}
	for _, e := range snap.Expenses {
		files, err := EncodeAttachments(e.Attachments)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertExpense,
			e.ID, e.Category, e.Amount.String(), e.Date.String(), e.Notes, e.AddedBy, files); err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}
	for _, rev := range snap.Revenues {
		files, err := EncodeAttachments(rev.Attachments)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertRevenue,
			rev.ID, rev.Amount.String(), rev.Date.String(), rev.Description, rev.AddedBy, files); err != nil {
			return fmt.Errorf("insert revenue %s: %w", rev.ID, err)
		}
	}
	for _, w := range snap.Withdrawals {
		if _, err := tx.ExecContext(ctx, insertWithdrawal,
			w.ID, w.InvestorName, w.InvestorID, w.Amount.String(), w.Date.String(), w.Notes, w.ApprovedBy); err != nil {
			return fmt.Errorf("insert withdrawal %s: %w", w.ID, err)
		}
	}
	for _, w := range snap.ProjectWithdrawals {
		if _, err := tx.ExecContext(ctx, insertProjectWithdrawal,
			w.ID, w.Amount.String(), w.Date.String(), w.Notes, w.ApprovedBy); err != nil {
			return fmt.Errorf("insert project withdrawal %s: %w", w.ID, err)
		}
	}

	s := snap.Settings
	if _, err := tx.ExecContext(ctx, upsertSettings,
		s.ProjectPercentage.Decimal().String(), s.Currency, s.SheetID, FormatTime(s.LastSync),
		s.EnableAIInsights, s.EnableDriveLink); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Ledger imported into SQLite",
		"investors", len(snap.Investors),
		"expenses", len(snap.Expenses),
		"revenues", len(snap.Revenues),
		"withdrawals", len(snap.Withdrawals),
		"project_withdrawals", len(snap.ProjectWithdrawals))
	return nil
}
