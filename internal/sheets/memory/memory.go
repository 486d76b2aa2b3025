// Package memory is an in-process summary exporter for development and tests.
package memory

import (
	"context"
	"sync"

	"ledger/internal/sheets"
)

type Exporter struct {
	mu      sync.Mutex
	exports []sheets.Summary
}

var _ sheets.SummaryExporter = (*Exporter)(nil)

func New() *Exporter { return &Exporter{} }

// ExportSummary records s.
func (e *Exporter) ExportSummary(_ context.Context, s sheets.Summary) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exports = append(e.exports, s)
	return nil
}

// Last returns the most recent export.
func (e *Exporter) Last() (sheets.Summary, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.exports) == 0 {
		return sheets.Summary{}, false
	}
	return e.exports[len(e.exports)-1], true
}

// Count returns how many summaries were exported.
func (e *Exporter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.exports)
}
