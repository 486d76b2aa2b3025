package store

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"ledger/internal/core"
)

// LoadSnapshot reads every collection and the settings from r concurrently.
// The first failing read cancels the others and its error is returned.
func LoadSnapshot(ctx context.Context, r Reader) (core.Snapshot, error) {
	var snap core.Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Investors, err = r.ListInvestors(ctx)
		return wrap("investors", err)
	})
	g.Go(func() (err error) {
		snap.Expenses, err = r.ListExpenses(ctx)
		return wrap("expenses", err)
	})
	g.Go(func() (err error) {
		snap.Revenues, err = r.ListRevenues(ctx)
		return wrap("revenues", err)
	})
	g.Go(func() (err error) {
		snap.Withdrawals, err = r.ListWithdrawals(ctx)
		return wrap("withdrawals", err)
	})
	g.Go(func() (err error) {
		snap.ProjectWithdrawals, err = r.ListProjectWithdrawals(ctx)
		return wrap("project withdrawals", err)
	})
	g.Go(func() (err error) {
		snap.Settings, err = r.GetSettings(ctx)
		return wrap("settings", err)
	})

	if err := g.Wait(); err != nil {
		return core.Snapshot{}, err
	}
	return snap, nil
}

// Load returns one consistent snapshot of r. A Snapshotter is asked once;
// any other Reader is read collection by collection.
func Load(ctx context.Context, r Reader) (core.Snapshot, error) {
	if s, ok := r.(Snapshotter); ok {
		return s.Snapshot(ctx)
	}
	return LoadSnapshot(ctx, r)
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load %s: %w", what, err)
}
