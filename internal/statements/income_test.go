package statements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

var (
	periodStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
)

func waterfallChart() *ledgerFixture {
	return newFixture(
		acct("bank", "1.01", model.CategoryAsset, model.NatureDebit, model.RoleCashEquivalent),
		acct("sales", "4.01", model.CategoryRevenue, model.NatureCredit, model.RoleOperatingRevenue),
		acct("salestax", "4.02", model.CategoryExpense, model.NatureDebit, model.RoleRevenueDeduction),
		acct("cogs", "5.01", model.CategoryExpense, model.NatureDebit, model.RoleCOGS),
		acct("ads", "6.01", model.CategoryExpense, model.NatureDebit, model.RoleSalesExpense),
		acct("office", "6.02", model.CategoryExpense, model.NatureDebit, model.RoleAdminExpense),
		acct("interest", "7.01", model.CategoryRevenue, model.NatureCredit, model.RoleFinancialRevenue),
		acct("loanfees", "7.02", model.CategoryExpense, model.NatureDebit, model.RoleFinancialExpense),
		acct("incometax", "8.01", model.CategoryExpense, model.NatureDebit, model.RoleIncomeTax),
	)
}

func TestIncomeStatement_Cascade(t *testing.T) {
	f := waterfallChart()
	f.post("bank", "sales", 10000)
	f.post("salestax", "bank", 1000)
	f.post("cogs", "bank", 4000)
	f.post("ads", "bank", 1200)
	f.post("office", "bank", 800)
	f.post("bank", "interest", 100)
	f.post("loanfees", "bank", 600)
	f.post("incometax", "bank", 625)

	is := BuildIncomeStatement(f.aggregate(t), periodStart, periodEnd)

	assert.Equal(t, int64(10000), is.GrossRevenue.Total)
	assert.Equal(t, int64(1000), is.Deductions.Total)
	assert.Equal(t, int64(9000), is.NetRevenue)
	assert.Equal(t, int64(4000), is.COGS.Total)
	assert.Equal(t, int64(5000), is.GrossProfit)
	assert.Equal(t, int64(2000), is.OperatingExpenses)
	assert.Equal(t, int64(3000), is.EBIT)
	assert.Equal(t, int64(-500), is.FinancialResult)
	assert.Equal(t, int64(2500), is.ProfitBeforeTaxes)
	assert.Equal(t, int64(625), is.IncomeTaxes.Total)
	assert.Equal(t, int64(1875), is.NetProfit)

	assert.False(t, is.HasOtherResults)
	assert.Equal(t, is.NetProfit, is.FinalResult)
	assert.Equal(t, is.EBIT, is.EBITDA, "no depreciation accounts")

	assert.Equal(t, periodStart, is.PeriodStart)
	assert.Equal(t, periodEnd, is.PeriodEnd)
}

func TestIncomeStatement_LineItems(t *testing.T) {
	f := waterfallChart()
	f.post("bank", "sales", 10000)
	f.post("ads", "bank", 1200)
	f.post("office", "bank", 800)

	is := BuildIncomeStatement(f.aggregate(t), periodStart, periodEnd)

	require.Len(t, is.GrossRevenue.Items, 1)
	assert.Equal(t, Line{AccountID: "sales", Code: "4.01", Name: "sales", Amount: 10000}, is.GrossRevenue.Items[0])

	require.Len(t, is.SalesExpenses.Items, 1)
	assert.Equal(t, int64(1200), is.SalesExpenses.Items[0].Amount)
	require.Len(t, is.AdminExpenses.Items, 1)
	assert.Equal(t, int64(800), is.AdminExpenses.Items[0].Amount)

	assert.Empty(t, is.COGS.Items, "accounts without movement are not itemised")
	assert.NotNil(t, is.COGS.Items)
}

func TestIncomeStatement_OtherResultsAndEBITDA(t *testing.T) {
	f := newFixture(
		acct("bank", "1.01", model.CategoryAsset, model.NatureDebit, model.RoleCashEquivalent),
		acct("equipment", "1.05", model.CategoryAsset, model.NatureDebit, model.RoleInvestingActivity),
		acct("accdep", "1.06", model.CategoryContraAsset, model.NatureCredit, model.RoleNone),
		acct("sales", "4.01", model.CategoryRevenue, model.NatureCredit, model.RoleOperatingRevenue),
		acct("gain", "9.01", model.CategoryRevenue, model.NatureCredit, model.RoleOtherRevenue),
		acct("loss", "9.02", model.CategoryExpense, model.NatureDebit, model.RoleOtherExpense),
		acct("dep", "6.09", model.CategoryExpense, model.NatureDebit, model.RoleDepreciationAmortization),
	)
	f.post("bank", "sales", 5000)
	f.post("dep", "accdep", 300)
	f.post("bank", "gain", 400)
	f.post("loss", "bank", 150)

	is := BuildIncomeStatement(f.aggregate(t), periodStart, periodEnd)

	assert.Equal(t, int64(300), is.DepreciationAmortization.Total)
	assert.Equal(t, int64(300), is.OperatingExpenses)
	assert.Equal(t, int64(4700), is.EBIT)
	assert.Equal(t, int64(5000), is.EBITDA)
	assert.Equal(t, int64(4700), is.NetProfit)

	assert.True(t, is.HasOtherResults)
	assert.Equal(t, int64(250), is.OtherResult)
	assert.Equal(t, int64(4950), is.FinalResult)
}

func TestIncomeStatement_IgnoresBalanceSheetAccounts(t *testing.T) {
	f := newFixture(
		acct("bank", "1.01", model.CategoryAsset, model.NatureDebit, model.RoleCashEquivalent),
		// An income statement role on a balance sheet account is ignored.
		acct("loan", "2.01", model.CategoryLiability, model.NatureCredit, model.RoleFinancialRevenue),
	)
	f.post("bank", "loan", 9000)

	is := BuildIncomeStatement(f.aggregate(t), periodStart, periodEnd)
	assert.Zero(t, is.FinancialRevenue.Total)
	assert.Zero(t, is.FinalResult)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		acct model.Account
		want model.StatementRole
	}{
		{"tagged revenue", acct("a", "4", model.CategoryRevenue, model.NatureCredit, model.RoleFinancialRevenue), model.RoleFinancialRevenue},
		{"untagged revenue", acct("a", "4", model.CategoryRevenue, model.NatureCredit, model.RoleNone), model.RoleOperatingRevenue},
		{"untagged expense", acct("a", "5", model.CategoryExpense, model.NatureDebit, model.RoleNone), model.RoleAdminExpense},
		{"cash role on expense", acct("a", "5", model.CategoryExpense, model.NatureDebit, model.RoleCashEquivalent), model.RoleAdminExpense},
		{"empty role", acct("a", "5", model.CategoryExpense, model.NatureDebit, ""), model.RoleAdminExpense},
		{"asset", acct("a", "1", model.CategoryAsset, model.NatureDebit, model.RoleCOGS), model.RoleNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.acct))
		})
	}
}

func TestIncomeStatement_Empty(t *testing.T) {
	is := BuildIncomeStatement(ledger.Aggregation{}, periodStart, periodEnd)
	assert.Zero(t, is.FinalResult)
	assert.Empty(t, is.GrossRevenue.Items)
	assert.False(t, is.HasOtherResults)
}

func TestIncomeStatement_Idempotent(t *testing.T) {
	f := waterfallChart()
	f.post("bank", "sales", 10000)
	f.post("cogs", "bank", 4000)
	agg := f.aggregate(t)

	assert.Equal(t, BuildIncomeStatement(agg, periodStart, periodEnd), BuildIncomeStatement(agg, periodStart, periodEnd))
}
