// Package sheets defines the spreadsheet export port and the summary it writes.
package sheets

import (
	"context"
	"strconv"
	"time"

	"ledger/internal/core"
	"ledger/internal/stats"
)

// SummaryExporter writes the company summary to an outbound spreadsheet.
type SummaryExporter interface {
	ExportSummary(ctx context.Context, s Summary) error
}

// Summary is the company-wide figure set pushed on every sync.
type Summary struct {
	GeneratedAt       time.Time
	Currency          string
	ProjectPercentage core.Percent
	Stats             stats.DashboardStats
}

// SummaryRows is the number of rows Rows produces, header included.
const SummaryRows = 12

// Rows renders s as two-column label/value rows. Amounts are formatted in the
// summary currency.
func (s Summary) Rows() [][]string {
	m := func(v core.Money) string { return v.Format(s.Currency) }
	st := s.Stats
	return [][]string{
		{"Metric", "Value"},
		{"Generated at", s.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Currency", s.Currency},
		{"Project percentage", s.ProjectPercentage.String()},
		{"Total revenue", m(st.TotalRevenue)},
		{"Total expenses", m(st.TotalExpenses)},
		{"Net profit", m(st.TotalProfit)},
		{"Total withdrawals", m(st.TotalWithdrawals)},
		{"Project share", m(st.ProjectBalance)},
		{"Investors share", m(st.InvestorsShare)},
		{"Available balance", m(st.AvailableBalance)},
		{"Active investors", strconv.Itoa(st.ActiveInvestors)},
	}
}
