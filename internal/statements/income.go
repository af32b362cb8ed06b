package statements

import (
	"time"

	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// IncomeStatement is the cascading revenue-to-result waterfall (DRE).
//
// Sections hold positive amounts; subtraction happens in the subtotals.
type IncomeStatement struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	GrossRevenue Section `json:"gross_revenue"`
	Deductions   Section `json:"deductions"`
	NetRevenue   int64   `json:"net_revenue"`

	COGS        Section `json:"cogs"`
	GrossProfit int64   `json:"gross_profit"`

	SalesExpenses            Section `json:"sales_expenses"`
	AdminExpenses            Section `json:"admin_expenses"`
	DepreciationAmortization Section `json:"depreciation_amortization"`
	OperatingExpenses        int64   `json:"operating_expenses"`
	EBIT                     int64   `json:"ebit"`

	FinancialRevenue  Section `json:"financial_revenue"`
	FinancialExpenses Section `json:"financial_expenses"`
	FinancialResult   int64   `json:"financial_result"`
	ProfitBeforeTaxes int64   `json:"profit_before_taxes"`

	IncomeTaxes Section `json:"income_taxes"`
	NetProfit   int64   `json:"net_profit"`

	OtherRevenues   Section `json:"other_revenues"`
	OtherExpenses   Section `json:"other_expenses"`
	OtherResult     int64   `json:"other_result"`
	HasOtherResults bool    `json:"has_other_results"`
	FinalResult     int64   `json:"final_result"`

	// EBITDA is informational and does not feed the waterfall.
	EBITDA int64 `json:"ebitda"`
}

// Classify returns the income statement bucket of a revenue or expense
// account. An income statement role on the account wins; otherwise revenue
// falls back to operating revenue and expense to administrative expense.
// Accounts of other categories return RoleNone.
func Classify(a model.Account) model.StatementRole {
	if !a.Category.IsResult() {
		return model.RoleNone
	}
	if a.Role.IsIncomeStatement() {
		return a.Role
	}
	if a.Category == model.CategoryRevenue {
		return model.RoleOperatingRevenue
	}
	return model.RoleAdminExpense
}

// BuildIncomeStatement folds revenue and expense balances into the
// waterfall. The aggregation must already be restricted to entries dated in
// [start, end]; the dates are carried for display only.
func BuildIncomeStatement(agg ledger.Aggregation, start, end time.Time) IncomeStatement {
	is := IncomeStatement{
		PeriodStart:              start,
		PeriodEnd:                end,
		GrossRevenue:             Section{Label: string(model.RoleOperatingRevenue), Items: []Line{}},
		Deductions:               Section{Label: string(model.RoleRevenueDeduction), Items: []Line{}},
		COGS:                     Section{Label: string(model.RoleCOGS), Items: []Line{}},
		SalesExpenses:            Section{Label: string(model.RoleSalesExpense), Items: []Line{}},
		AdminExpenses:            Section{Label: string(model.RoleAdminExpense), Items: []Line{}},
		DepreciationAmortization: Section{Label: string(model.RoleDepreciationAmortization), Items: []Line{}},
		FinancialRevenue:         Section{Label: string(model.RoleFinancialRevenue), Items: []Line{}},
		FinancialExpenses:        Section{Label: string(model.RoleFinancialExpense), Items: []Line{}},
		IncomeTaxes:              Section{Label: string(model.RoleIncomeTax), Items: []Line{}},
		OtherRevenues:            Section{Label: string(model.RoleOtherRevenue), Items: []Line{}},
		OtherExpenses:            Section{Label: string(model.RoleOtherExpense), Items: []Line{}},
	}

	buckets := map[model.StatementRole]*Section{
		model.RoleOperatingRevenue:         &is.GrossRevenue,
		model.RoleRevenueDeduction:         &is.Deductions,
		model.RoleCOGS:                     &is.COGS,
		model.RoleSalesExpense:             &is.SalesExpenses,
		model.RoleAdminExpense:             &is.AdminExpenses,
		model.RoleDepreciationAmortization: &is.DepreciationAmortization,
		model.RoleFinancialRevenue:         &is.FinancialRevenue,
		model.RoleFinancialExpense:         &is.FinancialExpenses,
		model.RoleIncomeTax:                &is.IncomeTaxes,
		model.RoleOtherRevenue:             &is.OtherRevenues,
		model.RoleOtherExpense:             &is.OtherExpenses,
	}

	// reportable is already in code order, so sections need no sorting.
	for _, b := range reportable(agg.Balances) {
		sec, ok := buckets[Classify(b.Account)]
		if !ok {
			continue
		}
		sec.add(b, b.Balance)
	}

	is.NetRevenue = is.GrossRevenue.Total - is.Deductions.Total
	is.GrossProfit = is.NetRevenue - is.COGS.Total
	is.OperatingExpenses = is.SalesExpenses.Total + is.AdminExpenses.Total + is.DepreciationAmortization.Total
	is.EBIT = is.GrossProfit - is.OperatingExpenses
	is.FinancialResult = is.FinancialRevenue.Total - is.FinancialExpenses.Total
	is.ProfitBeforeTaxes = is.EBIT + is.FinancialResult
	is.NetProfit = is.ProfitBeforeTaxes - is.IncomeTaxes.Total
	is.OtherResult = is.OtherRevenues.Total - is.OtherExpenses.Total
	is.HasOtherResults = len(is.OtherRevenues.Items) > 0 || len(is.OtherExpenses.Items) > 0
	is.FinalResult = is.NetProfit + is.OtherResult
	is.EBITDA = is.EBIT + is.DepreciationAmortization.Total

	return is
}
