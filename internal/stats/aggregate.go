// Package stats computes the profit-sharing figures shown on the dashboard.
package stats

import (
	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// Placeholders are presentation figures that are not derived from the ledger.
// They are supplied by the caller's context (configuration today).
type Placeholders struct {
	MonthlyGrowth    decimal.Decimal
	PendingApprovals int
}

// DashboardStats is built, returned and discarded within one aggregation.
type DashboardStats struct {
	TotalRevenue     core.Money      `json:"totalRevenue"`
	TotalExpenses    core.Money      `json:"totalExpenses"`
	TotalProfit      core.Money      `json:"totalProfit"` // net profit
	TotalWithdrawals core.Money      `json:"totalWithdrawals"`
	ActiveInvestors  int             `json:"activeInvestors"`
	ProjectBalance   core.Money      `json:"projectBalance"`
	InvestorsShare   core.Money      `json:"investorsShare"`
	AvailableBalance core.Money      `json:"availableBalance"`
	MonthlyGrowth    decimal.Decimal `json:"monthlyGrowth"`
	PendingApprovals int             `json:"pendingApprovals"`
}

// Aggregate computes the dashboard figures from snap under settings.
//
// The project percentage is applied as-is: values outside [0, 100] flow through
// the arithmetic, and negative profits, shares and balances are returned
// unchanged. The result depends only on the arguments.
func Aggregate(snap core.Snapshot, settings core.Settings, p Placeholders) DashboardStats {
	var totalRevenue, totalExpenses, totalWithdrawals core.Money
	for _, r := range snap.Revenues {
		totalRevenue = totalRevenue.Add(r.Amount)
	}
	for _, e := range snap.Expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
	}
	for _, w := range snap.Withdrawals {
		totalWithdrawals = totalWithdrawals.Add(w.Amount)
	}

	netProfit := totalRevenue.Sub(totalExpenses)
	projectShare := netProfit.Mul(settings.ProjectPercentage.Ratio())
	investorsShare := netProfit.Sub(projectShare)

	return DashboardStats{
		TotalRevenue:     totalRevenue,
		TotalExpenses:    totalExpenses,
		TotalProfit:      netProfit,
		TotalWithdrawals: totalWithdrawals,
		ActiveInvestors:  len(snap.Investors),
		ProjectBalance:   projectShare,
		InvestorsShare:   investorsShare,
		AvailableBalance: investorsShare.Sub(totalWithdrawals),
		MonthlyGrowth:    p.MonthlyGrowth,
		PendingApprovals: p.PendingApprovals,
	}
}
