package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/sheets"
	sheetsmem "ledger/internal/sheets/memory"
	"ledger/internal/store/memory"
)

type failingExporter struct{}

func (failingExporter) ExportSummary(context.Context, sheets.Summary) error {
	return errors.New("quota exceeded")
}

func TestHandleSyncRequestExportsSummary(t *testing.T) {
	exporter := sheetsmem.New()
	w := NewSyncWorker(memory.New(memory.Sample()), exporter)
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	msg := amqp.NewSyncRequestMessage("Admin", "Admin")
	if err := w.HandleSyncRequest(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncRequest: %v", err)
	}

	got, ok := exporter.Last()
	if !ok {
		t.Fatal("nothing exported")
	}
	if !got.GeneratedAt.Equal(fixed) || got.Currency != "MRU" {
		t.Errorf("summary header = %v %q", got.GeneratedAt, got.Currency)
	}
	if !got.Stats.TotalProfit.Equal(core.NewMoney(111500)) {
		t.Errorf("TotalProfit = %s", got.Stats.TotalProfit)
	}
	if !got.Stats.ProjectBalance.Equal(core.NewMoney(16725)) {
		t.Errorf("ProjectBalance = %s", got.Stats.ProjectBalance)
	}
	if !got.Stats.MonthlyGrowth.IsZero() || got.Stats.PendingApprovals != 0 {
		t.Error("exported summary should not carry dashboard placeholders")
	}
}

func TestHandleSyncRequestExportFailure(t *testing.T) {
	w := NewSyncWorker(memory.New(memory.Sample()), failingExporter{})
	msg := &amqp.SyncRequestMessage{RequestID: "req-9"}

	err := w.HandleSyncRequest(context.Background(), msg)
	if err == nil || !strings.Contains(err.Error(), "req-9") || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunPeriodicStopsWithContext(t *testing.T) {
	exporter := sheetsmem.New()
	w := NewSyncWorker(memory.New(memory.Sample()), exporter)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.RunPeriodic(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for exporter.Count() == 0 {
		select {
		case <-deadline:
			t.Fatal("no periodic export happened")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunPeriodic did not stop")
	}

	// zero interval returns immediately
	w.RunPeriodic(context.Background(), 0)
}
