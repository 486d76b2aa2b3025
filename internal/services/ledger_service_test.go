package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"ledger/internal/access"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/stats"
	"ledger/internal/store"
	"ledger/internal/store/memory"
)

// countingReader records every store access.
type countingReader struct {
	next  store.Reader
	calls atomic.Int32
	err   error
}

func (c *countingReader) ListInvestors(ctx context.Context) ([]core.Investor, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.next.ListInvestors(ctx)
}

func (c *countingReader) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	c.calls.Add(1)
	return c.next.ListExpenses(ctx)
}

func (c *countingReader) ListRevenues(ctx context.Context) ([]core.Revenue, error) {
	c.calls.Add(1)
	return c.next.ListRevenues(ctx)
}

func (c *countingReader) ListWithdrawals(ctx context.Context) ([]core.Withdrawal, error) {
	c.calls.Add(1)
	return c.next.ListWithdrawals(ctx)
}

func (c *countingReader) ListProjectWithdrawals(ctx context.Context) ([]core.ProjectWithdrawal, error) {
	c.calls.Add(1)
	return c.next.ListProjectWithdrawals(ctx)
}

func (c *countingReader) GetSettings(ctx context.Context) (core.Settings, error) {
	c.calls.Add(1)
	return c.next.GetSettings(ctx)
}

type fakePublisher struct {
	calls int
	by    string
	err   error
}

func (f *fakePublisher) PublishSyncRequest(_ context.Context, requestedBy, _ string) (string, error) {
	f.calls++
	f.by = requestedBy
	return "req-1", f.err
}

type fakePurger struct{ calls int }

func (f *fakePurger) Purge() { f.calls++ }

var (
	admin     = access.Caller{Name: "Admin", Role: access.RoleAdmin}
	assistant = access.Caller{Name: "Fatima", Role: access.RoleAssistant}
	investor  = access.Caller{Name: "أحمد محمد", Role: access.RoleInvestor, InvestorID: "INV001"}
	stranger  = access.Caller{Name: "x", Role: access.RoleUnknown}
)

func quietLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func newService(t *testing.T, opts ...Option) (*LedgerService, *countingReader) {
	t.Helper()
	reader := &countingReader{next: memory.New(memory.Sample())}
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewLedgerService(reader, opts...), reader
}

func TestDeniedOperationsNeverTouchStore(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		caller access.Caller
		call   func(*LedgerService) error
	}{
		{"unknown dashboard", stranger, func(s *LedgerService) error { _, err := s.Dashboard(ctx, stranger); return err }},
		{"investor investors", investor, func(s *LedgerService) error { _, err := s.Investors(ctx, investor); return err }},
		{"investor expenses", investor, func(s *LedgerService) error { _, err := s.Expenses(ctx, investor); return err }},
		{"investor revenues", investor, func(s *LedgerService) error { _, err := s.Revenues(ctx, investor); return err }},
		{"assistant project withdrawals", assistant, func(s *LedgerService) error { _, err := s.ProjectWithdrawals(ctx, assistant); return err }},
		{"assistant sync", assistant, func(s *LedgerService) error { _, err := s.SyncData(ctx, assistant); return err }},
		{"investor sync", investor, func(s *LedgerService) error { _, err := s.SyncData(ctx, investor); return err }},
		{"unknown withdrawals", stranger, func(s *LedgerService) error { _, err := s.Withdrawals(ctx, stranger); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pub := &fakePublisher{}
			purger := &fakePurger{}
			svc, reader := newService(t, WithPublisher(pub), WithPurger(purger))

			err := tc.call(svc)
			if !errors.Is(err, access.ErrPermissionDenied) {
				t.Fatalf("expected permission denied, got %v", err)
			}
			var denied *access.Denied
			if !errors.As(err, &denied) || denied.Reason == "" {
				t.Fatalf("expected *access.Denied with a reason, got %#v", err)
			}
			if n := reader.calls.Load(); n != 0 {
				t.Errorf("store accessed %d times on denial", n)
			}
			if pub.calls != 0 || purger.calls != 0 {
				t.Errorf("side effects on denial: publish=%d purge=%d", pub.calls, purger.calls)
			}
		})
	}
}

func TestDashboardAdmin(t *testing.T) {
	growth := decimal.RequireFromString("12.5")
	svc, _ := newService(t, WithPlaceholders(stats.Placeholders{MonthlyGrowth: growth, PendingApprovals: 3}))

	v, err := svc.Dashboard(context.Background(), admin)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	st := v.Stats
	if !st.TotalProfit.Equal(core.NewMoney(111500)) {
		t.Errorf("TotalProfit = %s", st.TotalProfit)
	}
	if !st.AvailableBalance.Equal(core.NewMoney(86775)) {
		t.Errorf("AvailableBalance = %s", st.AvailableBalance)
	}
	if st.ActiveInvestors != 5 || len(v.Investors) != 5 || len(v.Withdrawals) != 2 {
		t.Errorf("admin view narrowed: active=%d investors=%d withdrawals=%d",
			st.ActiveInvestors, len(v.Investors), len(v.Withdrawals))
	}
	if !st.MonthlyGrowth.Equal(growth) || st.PendingApprovals != 3 {
		t.Errorf("placeholders not passed through: %s %d", st.MonthlyGrowth, st.PendingApprovals)
	}
}

// snapshotReader serves whole snapshots and counts per-collection reads apart.
type snapshotReader struct {
	*countingReader
	snaps atomic.Int32
}

func (s *snapshotReader) Snapshot(ctx context.Context) (core.Snapshot, error) {
	s.snaps.Add(1)
	return store.LoadSnapshot(ctx, s.countingReader.next)
}

func TestDashboardReadsSnapshotOnce(t *testing.T) {
	reader := &snapshotReader{countingReader: &countingReader{next: memory.New(memory.Sample())}}
	svc := NewLedgerService(reader, WithLogger(quietLogger()))

	v, err := svc.Dashboard(context.Background(), admin)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if n := reader.snaps.Load(); n != 1 {
		t.Errorf("Snapshot called %d times", n)
	}
	if n := reader.calls.Load(); n != 0 {
		t.Errorf("collections read one by one %d times", n)
	}
	if len(v.Investors) != 5 {
		t.Errorf("investors = %d", len(v.Investors))
	}
}

func TestDashboardInvestor(t *testing.T) {
	svc, _ := newService(t)
	v, err := svc.Dashboard(context.Background(), investor)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(v.Investors) != 1 || v.Investors[0].ID != "INV001" {
		t.Fatalf("investors = %+v", v.Investors)
	}
	if v.Stats.ActiveInvestors != 1 {
		t.Errorf("ActiveInvestors = %d, want 1", v.Stats.ActiveInvestors)
	}
	if !v.Stats.AvailableBalance.Equal(core.NewMoney(86775)) {
		t.Errorf("company-wide stats changed: %s", v.Stats.AvailableBalance)
	}
	for _, w := range v.Withdrawals {
		if w.InvestorID != "" && w.InvestorID != "INV001" {
			t.Errorf("foreign withdrawal leaked: %+v", w)
		}
	}
	if len(v.Expenses) != 5 || len(v.Revenues) != 5 {
		t.Errorf("expenses=%d revenues=%d", len(v.Expenses), len(v.Revenues))
	}
}

func TestDashboardInvestorWithoutRecord(t *testing.T) {
	svc, _ := newService(t)
	ghost := access.Caller{Name: "nobody", Role: access.RoleInvestor}
	v, err := svc.Dashboard(context.Background(), ghost)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if v.Investors == nil || len(v.Investors) != 0 {
		t.Errorf("investors = %#v, want empty", v.Investors)
	}
	if v.Withdrawals == nil || len(v.Withdrawals) != 0 {
		t.Errorf("withdrawals = %#v, want empty", v.Withdrawals)
	}
}

func TestCollections(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	inv, err := svc.Investors(ctx, assistant)
	if err != nil || len(inv) != 5 {
		t.Fatalf("Investors = %d, %v", len(inv), err)
	}
	exp, err := svc.Expenses(ctx, assistant)
	if err != nil || len(exp) != 5 {
		t.Fatalf("Expenses = %d, %v", len(exp), err)
	}
	rev, err := svc.Revenues(ctx, admin)
	if err != nil || len(rev) != 5 {
		t.Fatalf("Revenues = %d, %v", len(rev), err)
	}
	pw, err := svc.ProjectWithdrawals(ctx, admin)
	if err != nil || len(pw) != 1 {
		t.Fatalf("ProjectWithdrawals = %d, %v", len(pw), err)
	}
	all, err := svc.Withdrawals(ctx, admin)
	if err != nil || len(all) != 2 {
		t.Fatalf("Withdrawals(admin) = %d, %v", len(all), err)
	}
	own, err := svc.Withdrawals(ctx, investor)
	if err != nil {
		t.Fatalf("Withdrawals(investor): %v", err)
	}
	if len(own) != 1 || own[0].ID != "1" {
		t.Fatalf("Withdrawals(investor) = %+v", own)
	}
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	boom := errors.New("boom")
	svc, reader := newService(t)
	reader.err = boom

	if _, err := svc.Investors(context.Background(), admin); !errors.Is(err, boom) {
		t.Fatalf("Investors error = %v", err)
	}
	_, err := svc.Dashboard(context.Background(), admin)
	if !errors.Is(err, boom) || errors.Is(err, access.ErrPermissionDenied) {
		t.Fatalf("Dashboard error = %v", err)
	}
}

func TestSyncData(t *testing.T) {
	ctx := context.Background()

	pub := &fakePublisher{}
	purger := &fakePurger{}
	svc, _ := newService(t, WithPublisher(pub), WithPurger(purger))
	res, err := svc.SyncData(ctx, admin)
	if err != nil {
		t.Fatalf("SyncData: %v", err)
	}
	if !res.Queued || res.RequestID != "req-1" || pub.by != "Admin" || purger.calls != 1 {
		t.Fatalf("res=%+v publish=%d by=%q purge=%d", res, pub.calls, pub.by, purger.calls)
	}

	noPub, _ := newService(t)
	res, err = noPub.SyncData(ctx, admin)
	if err != nil || res.Queued {
		t.Fatalf("without publisher: %+v, %v", res, err)
	}

	failing := &fakePublisher{err: errors.New("down")}
	svc, _ = newService(t, WithPublisher(failing))
	if _, err := svc.SyncData(ctx, admin); err == nil {
		t.Fatal("expected publish error")
	}
}
