package render

import (
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/reports"
	"github.com/cleared-dev/ledgerbook/internal/statements"
)

func (r *Renderer) status(balanced bool, diff int64, label string) string {
	if balanced {
		return label + ": yes"
	}
	return fmt.Sprintf("%s: NO (difference %s)", label, r.Amount(diff))
}

func (r *Renderer) trialBalance(pkg *reports.Package) table {
	tb := pkg.TrialBalance
	t := table{
		title:   "Trial Balance",
		header:  []string{"Code", "Account", "Debit", "Credit", "Balance"},
		numeric: 2,
	}
	for _, tr := range tb.Rows {
		t.rows = append(t.rows, rowOf(tr.Code, tr.Name, r.Amount(tr.Debit), r.Amount(tr.Credit), r.Amount(tr.Balance)))
	}
	t.rows = append(t.rows, row{cells: []string{"", "Total", r.Amount(tb.TotalDebit), r.Amount(tb.TotalCredit), ""}, total: true})
	t.footer = r.status(tb.Balanced, tb.Difference, "Balanced")
	return t
}

// lines itemises a section under its subtotal.
func (r *Renderer) lines(t *table, label string, s statements.Section) {
	t.rows = append(t.rows, rowOf(label, r.Amount(s.Total)))
	for _, l := range s.Items {
		t.rows = append(t.rows, rowOf("    "+l.Code+" "+l.Name, r.Amount(l.Amount)))
	}
}

func (r *Renderer) subtotal(t *table, label string, amount int64) {
	t.rows = append(t.rows, row{cells: []string{label, r.Amount(amount)}, total: true})
}

func (r *Renderer) incomeStatement(pkg *reports.Package) table {
	is := pkg.IncomeStatement
	t := table{
		title:   fmt.Sprintf("Income Statement (%s to %s)", is.PeriodStart.Format("2006-01-02"), is.PeriodEnd.Format("2006-01-02")),
		header:  []string{"", "Amount"},
		numeric: 1,
	}
	r.lines(&t, "Gross revenue", is.GrossRevenue)
	r.lines(&t, "(-) Deductions", is.Deductions)
	r.subtotal(&t, "Net revenue", is.NetRevenue)
	r.lines(&t, "(-) Cost of goods sold", is.COGS)
	r.subtotal(&t, "Gross profit", is.GrossProfit)
	r.lines(&t, "(-) Sales expenses", is.SalesExpenses)
	r.lines(&t, "(-) Administrative expenses", is.AdminExpenses)
	r.lines(&t, "(-) Depreciation and amortization", is.DepreciationAmortization)
	r.subtotal(&t, "Operating result (EBIT)", is.EBIT)
	r.lines(&t, "(+) Financial revenue", is.FinancialRevenue)
	r.lines(&t, "(-) Financial expenses", is.FinancialExpenses)
	r.subtotal(&t, "Profit before taxes", is.ProfitBeforeTaxes)
	r.lines(&t, "(-) Income taxes", is.IncomeTaxes)
	r.subtotal(&t, "Net profit", is.NetProfit)
	if is.HasOtherResults {
		r.lines(&t, "(+) Other revenues", is.OtherRevenues)
		r.lines(&t, "(-) Other expenses", is.OtherExpenses)
	}
	r.subtotal(&t, "Final result", is.FinalResult)
	t.footer = "EBITDA: " + r.Amount(is.EBITDA)
	return t
}

func (r *Renderer) balanceSheet(pkg *reports.Package) table {
	bs := pkg.BalanceSheet
	t := table{
		title:   fmt.Sprintf("Balance Sheet at %s", pkg.Period.End.Format("2006-01-02")),
		header:  []string{"", "Amount"},
		numeric: 1,
	}
	r.lines(&t, "Assets", bs.Assets)
	r.lines(&t, "(-) Contra assets", bs.ContraAssets)
	r.subtotal(&t, "Total assets", bs.TotalAssets)
	r.lines(&t, "Liabilities", bs.Liabilities)
	r.lines(&t, "(-) Contra liabilities", bs.ContraLiabilities)
	r.subtotal(&t, "Total liabilities", bs.TotalLiabilities)
	r.lines(&t, "Equity", bs.Equity)
	t.rows = append(t.rows, rowOf("Result not closed to equity", r.Amount(bs.NetPeriodResult)))
	r.subtotal(&t, "Total liabilities and equity", bs.TotalLiabilitiesAndEquity)
	t.footer = r.status(bs.Balanced, bs.Difference, "Balanced")
	return t
}

func (r *Renderer) cashFlow(pkg *reports.Package) table {
	cf := pkg.CashFlow
	t := table{
		title:   "Cash Flow Statement",
		header:  []string{"", "Amount"},
		numeric: 1,
	}
	t.rows = append(t.rows, rowOf("Opening balance", r.Amount(cf.OpeningBalance)))
	t.rows = append(t.rows, rowOf("Inflows", r.Amount(cf.Inflows)))
	t.rows = append(t.rows, rowOf("Outflows", r.Amount(cf.Outflows)))
	r.subtotal(&t, "Operating activities", cf.OperatingActivities)
	r.lines(&t, "Investing activities", cf.Investing)
	r.subtotal(&t, "Net cash flow", cf.NetCashFlow)
	r.lines(&t, "Cash accounts", cf.CashAccounts)
	r.subtotal(&t, "Closing balance", cf.ClosingBalance)
	t.footer = r.status(cf.Reconciled, cf.Difference, "Reconciled")
	return t
}

func rowOf(cells ...string) row {
	return row{cells: cells}
}
