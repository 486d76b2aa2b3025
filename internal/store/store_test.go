package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ledger/internal/core"
)

type countingReader struct {
	calls atomic.Int32
	fail  error
}

func (r *countingReader) ListInvestors(context.Context) ([]core.Investor, error) {
	r.calls.Add(1)
	return []core.Investor{{ID: "1", Name: "Ahmed"}}, nil
}

func (r *countingReader) ListExpenses(context.Context) ([]core.Expense, error) {
	return []core.Expense{{ID: "e1", Amount: core.NewMoney(10)}}, nil
}

func (r *countingReader) ListRevenues(context.Context) ([]core.Revenue, error) {
	return []core.Revenue{{ID: "r1", Amount: core.NewMoney(100)}}, nil
}

func (r *countingReader) ListWithdrawals(context.Context) ([]core.Withdrawal, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	return []core.Withdrawal{}, nil
}

func (r *countingReader) ListProjectWithdrawals(context.Context) ([]core.ProjectWithdrawal, error) {
	return nil, nil
}

func (r *countingReader) GetSettings(context.Context) (core.Settings, error) {
	return core.DefaultSettings(), nil
}

func TestLoadSnapshot(t *testing.T) {
	snap, err := LoadSnapshot(context.Background(), &countingReader{})
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(snap.Investors) != 1 || len(snap.Expenses) != 1 || len(snap.Revenues) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Settings.Currency != "MRU" {
		t.Fatalf("settings not loaded: %+v", snap.Settings)
	}
}

func TestLoadSnapshotWrapsFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := LoadSnapshot(context.Background(), &countingReader{fail: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if got := err.Error(); got != "load withdrawals: boom" {
		t.Fatalf("error = %q", got)
	}
}

func TestCachedServesFromSnapshot(t *testing.T) {
	r := &countingReader{}
	c := NewCached(r, time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.ListInvestors(ctx); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if _, err := c.GetSettings(ctx); err != nil {
		t.Fatal(err)
	}
	if n := r.calls.Load(); n < 1 || n > 8 {
		t.Fatalf("store read %d times", n)
	}
	before := r.calls.Load()
	if _, err := c.ListExpenses(ctx); err != nil {
		t.Fatal(err)
	}
	if r.calls.Load() != before {
		t.Fatal("warm cache still hit the store")
	}

	c.Purge()
	if _, err := c.ListRevenues(ctx); err != nil {
		t.Fatal(err)
	}
	if r.calls.Load() != before+1 {
		t.Fatalf("purge did not force a reload: %d calls", r.calls.Load())
	}
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	r := &countingReader{fail: errors.New("down")}
	c := NewCached(r, time.Hour)
	if _, err := c.ListWithdrawals(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	r.fail = nil
	if _, err := c.ListWithdrawals(context.Background()); err != nil {
		t.Fatalf("error was cached: %v", err)
	}
}

// gatedReader blocks ListInvestors until release is closed.
type gatedReader struct {
	countingReader
	started chan struct{}
	release chan struct{}
	name    atomic.Value
}

func newGatedReader() *gatedReader {
	r := &gatedReader{started: make(chan struct{}, 8), release: make(chan struct{})}
	r.name.Store("Ahmed")
	return r
}

func (r *gatedReader) ListInvestors(ctx context.Context) ([]core.Investor, error) {
	r.calls.Add(1)
	name := r.name.Load().(string)
	r.started <- struct{}{}
	select {
	case <-r.release:
		return []core.Investor{{ID: "1", Name: name}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCachedCallerCancelDoesNotFailSharedLoad(t *testing.T) {
	r := newGatedReader()
	c := NewCached(r, time.Hour)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Snapshot(ctxA)
		errA <- err
	}()
	<-r.started

	type result struct {
		snap core.Snapshot
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		snap, err := c.Snapshot(context.Background())
		resB <- result{snap, err}
	}()

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller got %v", err)
	}
	close(r.release)

	got := <-resB
	if got.err != nil {
		t.Fatalf("waiting caller failed: %v", got.err)
	}
	if len(got.snap.Investors) != 1 {
		t.Fatalf("unexpected snapshot %+v", got.snap)
	}
	if n := r.calls.Load(); n != 1 {
		t.Fatalf("store read %d times", n)
	}
	if _, err := c.Snapshot(context.Background()); err != nil || r.calls.Load() != 1 {
		t.Fatalf("shared load was not cached: err=%v calls=%d", err, r.calls.Load())
	}
}

func TestCachedPurgeDuringLoadSkipsStaleResult(t *testing.T) {
	r := newGatedReader()
	c := NewCached(r, time.Hour)

	done := make(chan error, 1)
	go func() {
		_, err := c.Snapshot(context.Background())
		done <- err
	}()
	<-r.started

	c.Purge()
	r.name.Store("Sidi")
	close(r.release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	snap, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n := r.calls.Load(); n != 2 {
		t.Fatalf("stale load was cached: %d store reads", n)
	}
	if snap.Investors[0].Name != "Sidi" {
		t.Fatalf("got stale investors %+v", snap.Investors)
	}
}

type snapshotOnly struct {
	Reader
	snaps atomic.Int32
}

func (s *snapshotOnly) Snapshot(context.Context) (core.Snapshot, error) {
	s.snaps.Add(1)
	return core.Snapshot{Settings: core.DefaultSettings()}, nil
}

func TestLoadPrefersSnapshotter(t *testing.T) {
	tests := []struct {
		name      string
		reader    Reader
		wantSnaps int32
	}{
		{"snapshotter", &snapshotOnly{}, 1},
		{"plain reader", &countingReader{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Load(context.Background(), tt.reader)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if snap.Settings.Currency != core.DefaultCurrency {
				t.Fatalf("settings = %+v", snap.Settings)
			}
			if s, ok := tt.reader.(*snapshotOnly); ok && s.snaps.Load() != tt.wantSnaps {
				t.Fatalf("Snapshot called %d times", s.snaps.Load())
			}
		})
	}
}
