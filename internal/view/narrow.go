// Package view narrows aggregated ledger data to what a caller may see.
package view

import (
	"strings"

	"ledger/internal/access"
	"ledger/internal/core"
	"ledger/internal/stats"
)

// ScopedView is the caller-scoped dashboard payload.
type ScopedView struct {
	Stats       stats.DashboardStats `json:"stats"`
	Investors   []core.Investor      `json:"investors"`
	Expenses    []core.Expense       `json:"expenses"`
	Revenues    []core.Revenue       `json:"revenues"`
	Withdrawals []core.Withdrawal    `json:"withdrawals"`
}

// Match is the result of locating the caller's own investor record.
type Match struct {
	Index      int // -1 when nothing matched
	Duplicates int // further records that would also have matched
}

// Found reports whether a record was located.
func (m Match) Found() bool { return m.Index >= 0 }

// Narrow returns the view of the given data that caller may see.
//
// Non-investor roles get everything unchanged. Investors get their own record
// and withdrawals only, the company-wide expenses and revenues, and stats with
// ActiveInvestors forced to 1. No other stats field is recomputed.
//
// The returned slices are always freshly allocated; inputs are never modified.
func Narrow(
	st stats.DashboardStats,
	investors []core.Investor,
	withdrawals []core.Withdrawal,
	expenses []core.Expense,
	revenues []core.Revenue,
	caller access.Caller,
) ScopedView {
	v := ScopedView{
		Stats:    st,
		Expenses: clone(expenses),
		Revenues: clone(revenues),
	}

	switch caller.Role {
	case access.RoleInvestor:
		v.Investors = []core.Investor{}
		if m := MatchInvestor(investors, caller); m.Found() {
			v.Investors = append(v.Investors, investors[m.Index])
		}
		v.Withdrawals = OwnWithdrawals(withdrawals, caller)
		v.Stats.ActiveInvestors = 1
	default:
		v.Investors = clone(investors)
		v.Withdrawals = clone(withdrawals)
	}
	return v
}

// MatchInvestor locates the investor record belonging to caller.
//
// A caller carrying an InvestorID is matched on ID. Without one, or when no
// record carries that ID, the first record whose normalized name equals the
// caller's normalized name wins. A blank caller name never matches, not even
// a record whose name is blank too.
func MatchInvestor(investors []core.Investor, caller access.Caller) Match {
	if id := strings.TrimSpace(caller.InvestorID); id != "" {
		if m := firstMatch(investors, func(inv core.Investor) bool { return inv.ID == id }); m.Found() {
			return m
		}
	}
	name := Normalize(caller.Name)
	if name == "" {
		return Match{Index: -1}
	}
	return firstMatch(investors, func(inv core.Investor) bool { return Normalize(inv.Name) == name })
}

// OwnWithdrawals returns the withdrawals that belong to caller, in input order.
// A withdrawal and caller that both carry an investor ID are compared on it;
// otherwise the normalized names are compared, and a blank caller name owns
// nothing.
func OwnWithdrawals(withdrawals []core.Withdrawal, caller access.Caller) []core.Withdrawal {
	out := []core.Withdrawal{}
	name := Normalize(caller.Name)
	id := strings.TrimSpace(caller.InvestorID)
	for _, w := range withdrawals {
		if id != "" && w.InvestorID != "" {
			if w.InvestorID == id {
				out = append(out, w)
			}
			continue
		}
		if name != "" && Normalize(w.InvestorName) == name {
			out = append(out, w)
		}
	}
	return out
}

// Normalize folds a display name for identity comparison.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func firstMatch(investors []core.Investor, match func(core.Investor) bool) Match {
	m := Match{Index: -1}
	for i, inv := range investors {
		if !match(inv) {
			continue
		}
		if m.Index < 0 {
			m.Index = i
		} else {
			m.Duplicates++
		}
	}
	return m
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
