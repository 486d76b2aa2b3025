package memory

import (
	"context"
	"testing"

	"ledger/internal/sheets"
)

func TestExporterRecords(t *testing.T) {
	e := New()
	if _, ok := e.Last(); ok {
		t.Fatal("empty exporter reported a summary")
	}
	_ = e.ExportSummary(context.Background(), sheets.Summary{Currency: "MRU"})
	_ = e.ExportSummary(context.Background(), sheets.Summary{Currency: "EUR"})

	last, ok := e.Last()
	if !ok || last.Currency != "EUR" || e.Count() != 2 {
		t.Fatalf("last=%+v ok=%v count=%d", last, ok, e.Count())
	}
}
