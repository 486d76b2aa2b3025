package sheets

import (
	"testing"
	"time"

	"ledger/internal/core"
	"ledger/internal/stats"
)

func TestSummaryRows(t *testing.T) {
	pct, _ := core.ParsePercent("15")
	s := Summary{
		GeneratedAt:       time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Currency:          "EUR",
		ProjectPercentage: pct,
		Stats: stats.DashboardStats{
			TotalRevenue:     core.NewMoney(100000),
			TotalExpenses:    core.NewMoney(35000),
			TotalProfit:      core.NewMoney(65000),
			TotalWithdrawals: core.NewMoney(5000),
			ProjectBalance:   core.NewMoney(9750),
			InvestorsShare:   core.NewMoney(55250),
			AvailableBalance: core.NewMoney(50250),
			ActiveInvestors:  4,
		},
	}

	rows := s.Rows()
	if len(rows) != SummaryRows {
		t.Fatalf("rows = %d, want %d", len(rows), SummaryRows)
	}
	want := map[string]string{
		"Generated at":       "2024-03-01T10:00:00Z",
		"Project percentage": "15%",
		"Net profit":         core.NewMoney(65000).Format("EUR"),
		"Available balance":  core.NewMoney(50250).Format("EUR"),
		"Active investors":   "4",
	}
	for _, r := range rows {
		if len(r) != 2 {
			t.Fatalf("row %v has %d columns", r, len(r))
		}
		if v, ok := want[r[0]]; ok && r[1] != v {
			t.Errorf("%s = %q, want %q", r[0], r[1], v)
		}
	}
}
