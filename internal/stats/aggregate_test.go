package stats

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

func revenues(amounts ...string) []core.Revenue {
	out := make([]core.Revenue, len(amounts))
	for i, a := range amounts {
		out[i] = core.Revenue{ID: "r", Amount: core.MustMoney(a)}
	}
	return out
}

func expenses(amounts ...string) []core.Expense {
	out := make([]core.Expense, len(amounts))
	for i, a := range amounts {
		out[i] = core.Expense{ID: "e", Amount: core.MustMoney(a)}
	}
	return out
}

func withdrawals(amounts ...string) []core.Withdrawal {
	out := make([]core.Withdrawal, len(amounts))
	for i, a := range amounts {
		out[i] = core.Withdrawal{ID: "w", InvestorName: "x", Amount: core.MustMoney(a)}
	}
	return out
}

func settings(pct string) core.Settings {
	p, err := core.ParsePercent(pct)
	if err != nil {
		panic(err)
	}
	return core.Settings{ProjectPercentage: p, Currency: "MRU"}
}

func TestAggregateWorkedExample(t *testing.T) {
	snap := core.Snapshot{
		Investors:   []core.Investor{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}},
		Revenues:    revenues("50000", "30000"),
		Expenses:    expenses("15000"),
		Withdrawals: withdrawals("5000"),
	}
	got := Aggregate(snap, settings("15"), Placeholders{})

	checks := []struct {
		name string
		got  core.Money
		want string
	}{
		{"totalRevenue", got.TotalRevenue, "80000"},
		{"totalExpenses", got.TotalExpenses, "15000"},
		{"netProfit", got.TotalProfit, "65000"},
		{"projectShare", got.ProjectBalance, "9750"},
		{"investorsShare", got.InvestorsShare, "55250"},
		{"totalWithdrawals", got.TotalWithdrawals, "5000"},
		{"availableBalance", got.AvailableBalance, "50250"},
	}
	for _, c := range checks {
		if !c.got.Equal(core.MustMoney(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if got.ActiveInvestors != 2 {
		t.Errorf("activeInvestors = %d, want 2", got.ActiveInvestors)
	}
}

func TestAggregateSharesSumToNetProfit(t *testing.T) {
	cases := []struct {
		revenue, expense, pct string
	}{
		{"100", "0", "15"},
		{"0.10", "0.03", "33.3333"},
		{"1000000.01", "999999.99", "12.5"},
		{"10", "250", "15"},  // loss
		{"100", "40", "-10"}, // negative percentage
		{"100", "40", "150"}, // above 100
		{"123.45", "67.89", "0"},
		{"123.45", "67.89", "100"},
	}
	for _, tc := range cases {
		got := Aggregate(core.Snapshot{
			Revenues: revenues(tc.revenue),
			Expenses: expenses(tc.expense),
		}, settings(tc.pct), Placeholders{})

		net := core.MustMoney(tc.revenue).Sub(core.MustMoney(tc.expense))
		if !got.TotalProfit.Equal(net) {
			t.Errorf("%+v: net = %s, want %s", tc, got.TotalProfit, net)
		}
		if sum := got.ProjectBalance.Add(got.InvestorsShare); !sum.Equal(got.TotalProfit) {
			t.Errorf("%+v: project %s + investors %s != net %s", tc, got.ProjectBalance, got.InvestorsShare, got.TotalProfit)
		}
		pct, _ := core.ParsePercent(tc.pct)
		if want := net.Mul(pct.Decimal()).Mul(decimal.New(1, -2)); !got.ProjectBalance.Equal(want) {
			t.Errorf("%+v: project = %s, want %s", tc, got.ProjectBalance, want)
		}
	}
}

func TestAggregateNegativeValuesPropagate(t *testing.T) {
	got := Aggregate(core.Snapshot{
		Revenues:    revenues("1000"),
		Expenses:    expenses("3000"),
		Withdrawals: withdrawals("500"),
	}, settings("15"), Placeholders{})

	if !got.TotalProfit.Equal(core.NewMoney(-2000)) {
		t.Errorf("net = %s", got.TotalProfit)
	}
	if !got.ProjectBalance.Equal(core.NewMoney(-300)) {
		t.Errorf("project = %s", got.ProjectBalance)
	}
	if !got.AvailableBalance.Equal(core.NewMoney(-2200)) {
		t.Errorf("available = %s", got.AvailableBalance)
	}

	overdraw := Aggregate(core.Snapshot{
		Revenues:    revenues("100"),
		Withdrawals: withdrawals("500"),
	}, settings("15"), Placeholders{})
	if !overdraw.AvailableBalance.Equal(core.NewMoney(-415)) {
		t.Errorf("overdrawn available = %s", overdraw.AvailableBalance)
	}
}

func TestAggregateEmptyLedger(t *testing.T) {
	got := Aggregate(core.Snapshot{
		Investors: []core.Investor{{ID: "1"}, {ID: "2"}, {ID: "3"}},
	}, settings("15"), Placeholders{})

	for name, m := range map[string]core.Money{
		"revenue": got.TotalRevenue, "expenses": got.TotalExpenses, "profit": got.TotalProfit,
		"withdrawals": got.TotalWithdrawals, "project": got.ProjectBalance,
		"investors": got.InvestorsShare, "available": got.AvailableBalance,
	} {
		if !m.IsZero() {
			t.Errorf("%s = %s, want 0", name, m)
		}
	}
	if got.ActiveInvestors != 3 {
		t.Errorf("activeInvestors = %d, want 3", got.ActiveInvestors)
	}
}

func TestAggregatePlaceholdersPassThrough(t *testing.T) {
	p := Placeholders{MonthlyGrowth: decimal.RequireFromString("12.5"), PendingApprovals: 4}
	got := Aggregate(core.Snapshot{}, settings("15"), p)
	if !got.MonthlyGrowth.Equal(p.MonthlyGrowth) || got.PendingApprovals != 4 {
		t.Fatalf("placeholders not carried: %+v", got)
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	snap := core.Snapshot{
		Investors:   []core.Investor{{ID: "1", Name: "a"}},
		Revenues:    revenues("50000", "30000", "25000"),
		Expenses:    expenses("15000", "25000"),
		Withdrawals: withdrawals("5000", "3000"),
	}
	first := Aggregate(snap, settings("15"), Placeholders{})
	second := Aggregate(snap, settings("15"), Placeholders{})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregate not idempotent:\n%+v\n%+v", first, second)
	}
}
