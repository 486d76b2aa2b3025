// Package store defines the read side of the ledger and the helpers built on it.
package store

import (
	"context"

	"ledger/internal/core"
)

// Ports for the ledger store adapters.
type (
	InvestorLister interface {
		ListInvestors(ctx context.Context) ([]core.Investor, error)
	}

	ExpenseLister interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
	}

	RevenueLister interface {
		ListRevenues(ctx context.Context) ([]core.Revenue, error)
	}

	WithdrawalLister interface {
		ListWithdrawals(ctx context.Context) ([]core.Withdrawal, error)
	}

	ProjectWithdrawalLister interface {
		ListProjectWithdrawals(ctx context.Context) ([]core.ProjectWithdrawal, error)
	}

	SettingsReader interface {
		GetSettings(ctx context.Context) (core.Settings, error)
	}

	// Reader is the full read surface a backend must provide.
	Reader interface {
		InvestorLister
		ExpenseLister
		RevenueLister
		WithdrawalLister
		ProjectWithdrawalLister
		SettingsReader
	}

	// Snapshotter returns every collection and the settings from one read.
	Snapshotter interface {
		Snapshot(ctx context.Context) (core.Snapshot, error)
	}

	// Importer bulk-loads a snapshot. Used for seeding, not by request paths.
	Importer interface {
		Import(ctx context.Context, snap core.Snapshot) error
	}
)
