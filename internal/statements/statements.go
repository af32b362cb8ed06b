// Package statements builds the trial balance, income statement, balance
// sheet and cash flow statement from aggregated account balances.
//
// Every builder is a pure function of its inputs: nothing is cached, nothing
// is mutated, and calling a builder twice yields equal results.
package statements

import (
	"cmp"
	"slices"

	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Epsilon is the balance tolerance in minor units. A difference is accepted
// only when its absolute value is below Epsilon, so with integer amounts any
// non-zero difference is reported.
const Epsilon int64 = 1

// Line is one account contributing to a statement subtotal.
type Line struct {
	AccountID string `json:"account_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
}

// Section is a subtotal with its line-item drill-down.
type Section struct {
	Label string `json:"label"`
	Items []Line `json:"items"`
	Total int64  `json:"total"`
}

func (s *Section) add(b ledger.AccountBalance, amount int64) {
	s.Items = append(s.Items, Line{
		AccountID: b.Account.ID,
		Code:      b.Account.Code,
		Name:      b.Account.Name,
		Amount:    amount,
	})
	s.Total += amount
}

// CompareCodes orders account codes byte-wise. This is plain string order,
// not dotted-numeric order: "1.10" sorts before "1.2".
func CompareCodes(a, b string) int {
	return cmp.Compare(a, b)
}

// reportable returns the active accounts that had movement, in code order.
func reportable(balances ledger.Balances) []ledger.AccountBalance {
	out := make([]ledger.AccountBalance, 0, len(balances))
	for _, b := range balances {
		if !b.Account.Active || !b.Movement() {
			continue
		}
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b ledger.AccountBalance) int {
		return cmp.Or(CompareCodes(a.Account.Code, b.Account.Code), cmp.Compare(a.Account.ID, b.Account.ID))
	})
	return out
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func withinEpsilon(diff int64) bool {
	return abs(diff) < Epsilon
}

func unknownAnomalies(agg ledger.Aggregation) []model.Anomaly {
	var out []model.Anomaly
	for _, u := range agg.Unknown {
		out = append(out, u.Anomaly())
	}
	return out
}
