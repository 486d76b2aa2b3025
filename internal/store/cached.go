package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"ledger/internal/cache"
	"ledger/internal/core"
)

const snapshotKey = "snapshot"

// loadTimeout bounds a shared load once it no longer belongs to any single caller.
const loadTimeout = 30 * time.Second

// Cached serves reads from a short-lived snapshot of the wrapped Reader.
// Concurrent misses share one load. Each caller waits on its own context, and
// a caller giving up does not fail the load for the others.
type Cached struct {
	next  Reader
	cache *cache.LRUCache[core.Snapshot]
	group singleflight.Group
	gen   atomic.Uint64
}

var (
	_ Reader      = (*Cached)(nil)
	_ Snapshotter = (*Cached)(nil)
)

// NewCached wraps next with a snapshot cache that lives for ttl.
func NewCached(next Reader, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: cache.NewLRUCache[core.Snapshot](1, ttl),
	}
}

// Snapshot returns the cached snapshot, loading it on a miss.
func (c *Cached) Snapshot(ctx context.Context) (core.Snapshot, error) {
	if snap, ok := c.cache.Get(snapshotKey); ok {
		return snap, nil
	}
	gen := c.gen.Load()
	ch := c.group.DoChan(fmt.Sprintf("%s:%d", snapshotKey, gen), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		snap, err := LoadSnapshot(loadCtx, c.next)
		if err != nil {
			return core.Snapshot{}, err
		}
		// A purge during the load means snap may predate the change.
		if c.gen.Load() == gen {
			c.cache.Set(snapshotKey, snap)
		}
		return snap, nil
	})
	select {
	case <-ctx.Done():
		return core.Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return core.Snapshot{}, res.Err
		}
		if res.Shared {
			slog.DebugContext(ctx, "Snapshot load shared")
		}
		return res.Val.(core.Snapshot), nil
	}
}

// Purge drops the cached snapshot so the next read hits the store. Loads
// already in flight are not cached.
func (c *Cached) Purge() {
	c.gen.Add(1)
	c.cache.Purge()
}

// Cleaner exposes the underlying cache for periodic sweeping.
func (c *Cached) Cleaner() cache.Cleaner { return c.cache }

func (c *Cached) ListInvestors(ctx context.Context) ([]core.Investor, error) {
	snap, err := c.Snapshot(ctx)
	return snap.Investors, err
}

func (c *Cached) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	snap, err := c.Snapshot(ctx)
	return snap.Expenses, err
}

func (c *Cached) ListRevenues(ctx context.Context) ([]core.Revenue, error) {
	snap, err := c.Snapshot(ctx)
	return snap.Revenues, err
}

func (c *Cached) ListWithdrawals(ctx context.Context) ([]core.Withdrawal, error) {
	snap, err := c.Snapshot(ctx)
	return snap.Withdrawals, err
}

func (c *Cached) ListProjectWithdrawals(ctx context.Context) ([]core.ProjectWithdrawal, error) {
	snap, err := c.Snapshot(ctx)
	return snap.ProjectWithdrawals, err
}

func (c *Cached) GetSettings(ctx context.Context) (core.Settings, error) {
	snap, err := c.Snapshot(ctx)
	return snap.Settings, err
}
