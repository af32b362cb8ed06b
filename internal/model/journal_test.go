package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignedBalance(t *testing.T) {
	tests := []struct {
		nature Nature
		debit  int64
		credit int64
		want   int64
	}{
		{NatureDebit, 1000, 0, 1000},
		{NatureDebit, 300, 500, -200},
		{NatureCredit, 0, 1000, 1000},
		{NatureCredit, 500, 300, -200},
		{NatureCredit, 0, 0, 0},
	}
	for _, tt := range tests {
		acct := Account{Nature: tt.nature}
		assert.Equal(t, tt.want, acct.SignedBalance(tt.debit, tt.credit), "%s %d/%d", tt.nature, tt.debit, tt.credit)
	}
}

func TestAccountValidate(t *testing.T) {
	ok := Account{ID: "a1", Code: "1.01", Category: CategoryAsset, Nature: NatureDebit, Role: RoleCashEquivalent}
	assert.NoError(t, ok.Validate())

	noRole := ok
	noRole.Role = ""
	assert.NoError(t, noRole.Validate(), "empty role means none")

	badCategory := ok
	badCategory.Category = "cash"
	assert.Error(t, badCategory.Validate())

	badNature := ok
	badNature.Nature = "both"
	assert.Error(t, badNature.Validate())

	badRole := ok
	badRole.Role = "capex"
	assert.Error(t, badRole.Validate())

	noID := ok
	noID.ID = ""
	assert.Error(t, noID.Validate())
}

func TestRoleIsIncomeStatement(t *testing.T) {
	assert.True(t, RoleCOGS.IsIncomeStatement())
	assert.True(t, RoleDepreciationAmortization.IsIncomeStatement())
	assert.False(t, RoleCashEquivalent.IsIncomeStatement())
	assert.False(t, RoleInvestingActivity.IsIncomeStatement())
	assert.False(t, RoleNone.IsIncomeStatement())
}

func TestEntryGrouped(t *testing.T) {
	assert.True(t, JournalEntry{TransactionID: "t1"}.Grouped())
	assert.False(t, JournalEntry{}.Grouped())
}

func TestAnomalyString(t *testing.T) {
	a := Anomaly{Kind: AnomalyUnknownAccount, Reference: "e1", Message: "unknown account x"}
	assert.Equal(t, "unknown_account_reference [e1]: unknown account x", a.String())

	b := Anomaly{Kind: AnomalyUnbalancedTrialBalance, Message: "debits != credits"}
	assert.Equal(t, "unbalanced_trial_balance: debits != credits", b.String())
}
