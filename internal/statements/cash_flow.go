package statements

import (
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// CashFlowInput carries the three aggregations the cash flow needs.
//
// Opening covers entries strictly before the period, Period the entries in
// it, and Closing every entry up to the period end. Closing is aggregated
// independently so that the statement can be reconciled; when it has no
// balances the expected closing is derived from Opening and Period.
type CashFlowInput struct {
	Opening ledger.Aggregation
	Period  ledger.Aggregation
	Closing ledger.Aggregation
}

// CashFlowStatement reconstructs the movement of cash and cash equivalents
// with the direct method.
type CashFlowStatement struct {
	OpeningBalance      int64 `json:"opening_balance"`
	Inflows             int64 `json:"inflows"`
	Outflows            int64 `json:"outflows"`
	OperatingActivities int64 `json:"operating_activities"`
	InvestingActivities int64 `json:"investing_activities"`
	NetCashFlow         int64 `json:"net_cash_flow"`
	ClosingBalance      int64 `json:"closing_balance"`

	// CashAccounts itemises the net period movement per cash account.
	CashAccounts Section `json:"cash_accounts"`
	// Investing itemises the cash effect per investing account.
	Investing Section `json:"investing"`

	ExpectedClosing int64           `json:"expected_closing"`
	Difference      int64           `json:"difference"`
	Reconciled      bool            `json:"is_reconciled"`
	Anomalies       []model.Anomaly `json:"anomalies,omitempty"`
}

func isCash(a model.Account) bool {
	return a.Active && a.Role == model.RoleCashEquivalent
}

// BuildCashFlow builds the cash flow statement.
//
// Inflows are the balance-increasing side of cash accounts, outflows the
// decreasing side. Investing is the cash effect of movements on investing
// accounts: a debit to an investment consumes cash. Operating is the cash
// movement not attributed to investing, so Net equals Inflows - Outflows.
//
// ExpectedClosing is summed over the same cash_equivalent tags as the
// statement. When Closing aggregates exactly Opening plus Period the two
// closings agree by construction, so a mismatch means the input sets
// disagree (a stale or partial Closing). A wrong cash_equivalent or
// investing_activity tag shifts both sides alike and is not detected here.
func BuildCashFlow(in CashFlowInput) CashFlowStatement {
	cf := CashFlowStatement{
		CashAccounts: Section{Label: string(model.RoleCashEquivalent), Items: []Line{}},
		Investing:    Section{Label: string(model.RoleInvestingActivity), Items: []Line{}},
	}

	cf.OpeningBalance = in.Opening.Balances.Sum(isCash)

	for _, b := range reportable(in.Period.Balances) {
		switch b.Account.Role {
		case model.RoleCashEquivalent:
			inflow, outflow := b.Debit, b.Credit
			if b.Account.Nature == model.NatureCredit {
				inflow, outflow = b.Credit, b.Debit
			}
			cf.Inflows += inflow
			cf.Outflows += outflow
			cf.CashAccounts.add(b, inflow-outflow)
		case model.RoleInvestingActivity:
			cf.Investing.add(b, b.Credit-b.Debit)
		}
	}

	cf.InvestingActivities = cf.Investing.Total
	cf.OperatingActivities = cf.Inflows - cf.Outflows - cf.InvestingActivities
	cf.NetCashFlow = cf.OperatingActivities + cf.InvestingActivities
	cf.ClosingBalance = cf.OpeningBalance + cf.NetCashFlow

	if in.Closing.Balances != nil {
		cf.ExpectedClosing = in.Closing.Balances.Sum(isCash)
	} else {
		cf.ExpectedClosing = cf.OpeningBalance + in.Period.Balances.Sum(isCash)
	}
	cf.Difference = cf.ClosingBalance - cf.ExpectedClosing
	cf.Reconciled = cf.Difference == 0

	if !cf.Reconciled {
		cf.Anomalies = append(cf.Anomalies, model.Anomaly{
			Kind:       model.AnomalyCashFlowMismatch,
			Message:    fmt.Sprintf("computed closing %d != period-end cash balance %d", cf.ClosingBalance, cf.ExpectedClosing),
			Difference: cf.Difference,
		})
	}
	return cf
}
