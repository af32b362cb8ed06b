package model

import "fmt"

// Category places an account on a financial statement.
type Category string

const (
	CategoryAsset           Category = "asset"
	CategoryContraAsset     Category = "contra_asset"
	CategoryLiability       Category = "liability"
	CategoryContraLiability Category = "contra_liability"
	CategoryEquity          Category = "equity"
	CategoryRevenue         Category = "revenue"
	CategoryExpense         Category = "expense"
)

// Categories lists every valid category in chart order.
var Categories = []Category{
	CategoryAsset,
	CategoryContraAsset,
	CategoryLiability,
	CategoryContraLiability,
	CategoryEquity,
	CategoryRevenue,
	CategoryExpense,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// IsResult reports whether the category belongs on the income statement.
func (c Category) IsResult() bool {
	return c == CategoryRevenue || c == CategoryExpense
}

// Nature is the entry type that increases an account's balance.
type Nature string

const (
	NatureDebit  Nature = "debit"
	NatureCredit Nature = "credit"
)

// Valid reports whether n is a known nature.
func (n Nature) Valid() bool {
	return n == NatureDebit || n == NatureCredit
}

// StatementRole tags an account for the income statement and cash flow builders.
type StatementRole string

const (
	RoleNone                     StatementRole = "none"
	RoleOperatingRevenue         StatementRole = "operating_revenue"
	RoleRevenueDeduction         StatementRole = "revenue_deduction"
	RoleCOGS                     StatementRole = "cogs"
	RoleSalesExpense             StatementRole = "sales_expense"
	RoleAdminExpense             StatementRole = "admin_expense"
	RoleFinancialRevenue         StatementRole = "financial_revenue"
	RoleFinancialExpense         StatementRole = "financial_expense"
	RoleIncomeTax                StatementRole = "income_tax"
	RoleOtherRevenue             StatementRole = "other_revenue"
	RoleOtherExpense             StatementRole = "other_expense"
	RoleDepreciationAmortization StatementRole = "depreciation_amortization"
	RoleCashEquivalent           StatementRole = "cash_equivalent"
	RoleInvestingActivity        StatementRole = "investing_activity"
)

// Roles lists every valid statement role.
var Roles = []StatementRole{
	RoleNone,
	RoleOperatingRevenue,
	RoleRevenueDeduction,
	RoleCOGS,
	RoleSalesExpense,
	RoleAdminExpense,
	RoleFinancialRevenue,
	RoleFinancialExpense,
	RoleIncomeTax,
	RoleOtherRevenue,
	RoleOtherExpense,
	RoleDepreciationAmortization,
	RoleCashEquivalent,
	RoleInvestingActivity,
}

// Valid reports whether r is a known role. The empty role is treated as none.
func (r StatementRole) Valid() bool {
	if r == "" {
		return true
	}
	for _, k := range Roles {
		if r == k {
			return true
		}
	}
	return false
}

// IsIncomeStatement reports whether r places an account on the income statement.
func (r StatementRole) IsIncomeStatement() bool {
	switch r {
	case RoleOperatingRevenue, RoleRevenueDeduction, RoleCOGS,
		RoleSalesExpense, RoleAdminExpense,
		RoleFinancialRevenue, RoleFinancialExpense,
		RoleIncomeTax, RoleOtherRevenue, RoleOtherExpense,
		RoleDepreciationAmortization:
		return true
	}
	return false
}

// Account represents a row in chart-of-accounts.csv.
//
// Nature decides the sign of the balance, Category decides where the account
// is placed on a statement. The two are conventionally coupled but never
// derived from each other.
type Account struct {
	ID       string
	Code     string // dotted, e.g. "1.01.01"
	Name     string
	Category Category
	Nature   Nature
	Active   bool
	Role     StatementRole
}

// Validate checks the enumerated fields of an account.
func (a Account) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("account %q: empty id", a.Code)
	}
	if !a.Category.Valid() {
		return fmt.Errorf("account %s: unknown category %q", a.ID, a.Category)
	}
	if !a.Nature.Valid() {
		return fmt.Errorf("account %s: unknown nature %q", a.ID, a.Nature)
	}
	if !a.Role.Valid() {
		return fmt.Errorf("account %s: unknown statement role %q", a.ID, a.Role)
	}
	return nil
}

// SignedBalance applies the account nature to debit and credit totals.
func (a Account) SignedBalance(debit, credit int64) int64 {
	if a.Nature == NatureCredit {
		return credit - debit
	}
	return debit - credit
}
