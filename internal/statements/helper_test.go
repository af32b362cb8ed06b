package statements

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func acct(id, code string, cat model.Category, nature model.Nature, role model.StatementRole) model.Account {
	return model.Account{ID: id, Code: code, Name: id, Category: cat, Nature: nature, Active: true, Role: role}
}

// ledgerFixture accumulates a chart and journal entries for a test.
type ledgerFixture struct {
	accounts []model.Account
	entries  []model.JournalEntry
	seq      int
}

func newFixture(accts ...model.Account) *ledgerFixture {
	return &ledgerFixture{accounts: accts}
}

func (f *ledgerFixture) line(txn, accountID string, typ model.EntryType, amount int64) {
	f.seq++
	f.entries = append(f.entries, model.JournalEntry{
		ID:            fmt.Sprintf("e%03d", f.seq),
		TransactionID: txn,
		AccountID:     accountID,
		Type:          typ,
		Amount:        amount,
		Date:          time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
}

// post records a balanced two-line transaction.
func (f *ledgerFixture) post(debitID, creditID string, amount int64) {
	txn := fmt.Sprintf("t%03d", f.seq)
	f.line(txn, debitID, model.EntryDebit, amount)
	f.line(txn, creditID, model.EntryCredit, amount)
}

func (f *ledgerFixture) aggregate(t *testing.T) ledger.Aggregation {
	t.Helper()
	agg, err := ledger.Aggregate(f.entries, accounts.NewService(f.accounts))
	require.NoError(t, err)
	return agg
}
