package statements

import (
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// TrialBalanceRow is one account of the trial balance.
type TrialBalanceRow struct {
	AccountID string         `json:"account_id"`
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	Category  model.Category `json:"category"`
	Nature    model.Nature   `json:"nature"`
	Debit     int64          `json:"debit"`
	Credit    int64          `json:"credit"`
	Balance   int64          `json:"balance"`
}

// TrialBalance lists every account with movement and checks that total
// debits equal total credits.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  int64             `json:"total_debit"`
	TotalCredit int64             `json:"total_credit"`
	Difference  int64             `json:"difference"`
	Balanced    bool              `json:"is_balanced"`
	Anomalies   []model.Anomaly   `json:"anomalies,omitempty"`
}

// BuildTrialBalance builds the trial balance from an aggregation. Inactive
// accounts and accounts without movement are left out; rows are ordered by
// CompareCodes. Entries the aggregator could not resolve are reported as
// anomalies.
func BuildTrialBalance(agg ledger.Aggregation) TrialBalance {
	tb := TrialBalance{Rows: []TrialBalanceRow{}}

	for _, b := range reportable(agg.Balances) {
		tb.Rows = append(tb.Rows, TrialBalanceRow{
			AccountID: b.Account.ID,
			Code:      b.Account.Code,
			Name:      b.Account.Name,
			Category:  b.Account.Category,
			Nature:    b.Account.Nature,
			Debit:     b.Debit,
			Credit:    b.Credit,
			Balance:   b.Balance,
		})
		tb.TotalDebit += b.Debit
		tb.TotalCredit += b.Credit
	}

	tb.Difference = tb.TotalDebit - tb.TotalCredit
	tb.Balanced = withinEpsilon(tb.Difference)

	tb.Anomalies = unknownAnomalies(agg)
	if !tb.Balanced {
		tb.Anomalies = append(tb.Anomalies, model.Anomaly{
			Kind:       model.AnomalyUnbalancedTrialBalance,
			Message:    fmt.Sprintf("total debits %d != total credits %d", tb.TotalDebit, tb.TotalCredit),
			Difference: tb.Difference,
		})
	}
	return tb
}
