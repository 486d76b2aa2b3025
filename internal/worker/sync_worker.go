// Package worker turns queued sync requests into spreadsheet exports.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/sheets"
	"ledger/internal/stats"
	"ledger/internal/store"
)

// SyncWorker exports the company summary whenever a sync is requested.
type SyncWorker struct {
	reader   store.Reader
	exporter sheets.SummaryExporter
	now      func() time.Time
}

func NewSyncWorker(reader store.Reader, exporter sheets.SummaryExporter) *SyncWorker {
	return &SyncWorker{
		reader:   reader,
		exporter: exporter,
		now:      time.Now,
	}
}

// HandleSyncRequest processes a single sync request from AMQP.
func (w *SyncWorker) HandleSyncRequest(ctx context.Context, msg *amqp.SyncRequestMessage) error {
	slog.InfoContext(ctx, "Processing sync request",
		"request_id", msg.RequestID,
		"requested_by", msg.RequestedBy,
		"role", msg.Role,
		"queued_for", w.now().Sub(msg.Timestamp).Round(time.Millisecond))

	if err := w.Export(ctx); err != nil {
		return fmt.Errorf("sync request %s: %w", msg.RequestID, err)
	}
	return nil
}

// Export reads the ledger, aggregates it and pushes the summary.
func (w *SyncWorker) Export(ctx context.Context) error {
	snap, err := store.Load(ctx, w.reader)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	summary := sheets.Summary{
		GeneratedAt:       w.now(),
		Currency:          snap.Settings.Currency,
		ProjectPercentage: snap.Settings.ProjectPercentage,
		Stats:             stats.Aggregate(snap, snap.Settings, stats.Placeholders{}),
	}
	if err := w.exporter.ExportSummary(ctx, summary); err != nil {
		return fmt.Errorf("export summary: %w", err)
	}

	slog.InfoContext(ctx, "Summary exported",
		"net_profit", summary.Stats.TotalProfit.String(),
		"available_balance", summary.Stats.AvailableBalance.String(),
		"investors", summary.Stats.ActiveInvestors)
	return nil
}

// RunPeriodic exports every interval until ctx ends. This is a backup in case
// AMQP messages are lost; failures are logged and retried on the next tick.
func (w *SyncWorker) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Periodic export started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Periodic export stopped")
			return
		case <-ticker.C:
			if err := w.Export(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", "error", err)
			}
		}
	}
}
