package journal

import (
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// ValidationError describes a single structural problem with an entry.
type ValidationError struct {
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s]: %s", e.EntryID, e.Description)
}

// AccountChecker tests whether an account ID exists in the chart of accounts.
type AccountChecker interface {
	Exists(id string) bool
}

// ValidateEntries checks the shape of every entry: entry type, amount sign,
// account reference, date and id uniqueness.
func ValidateEntries(entries []model.JournalEntry, accounts AccountChecker) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			errs = append(errs, ValidationError{Description: "entry has no id"})
		} else if seen[e.ID] {
			errs = append(errs, ValidationError{EntryID: e.ID, Description: "duplicate entry id"})
		}
		seen[e.ID] = true

		if !e.Type.Valid() {
			errs = append(errs, ValidationError{
				EntryID:     e.ID,
				Description: fmt.Sprintf("entry type %q must be debit or credit", e.Type),
			})
		}

		if e.Amount < 0 {
			errs = append(errs, ValidationError{
				EntryID:     e.ID,
				Description: fmt.Sprintf("amount %s is negative", FormatAmount(e.Amount)),
			})
		}

		if !accounts.Exists(e.AccountID) {
			errs = append(errs, ValidationError{
				EntryID:     e.ID,
				Description: fmt.Sprintf("unknown account %q", e.AccountID),
			})
		}

		if e.Date.IsZero() {
			errs = append(errs, ValidationError{EntryID: e.ID, Description: "entry has no date"})
		}
	}

	return errs
}

// TransactionBalanceCheck is the debit/credit comparison of one transaction.
type TransactionBalanceCheck struct {
	TransactionID string `json:"transaction_id"`
	DebitSum      int64  `json:"debit_sum"`
	CreditSum     int64  `json:"credit_sum"`
	Balanced      bool   `json:"is_balanced"`
}

// Difference returns debits minus credits.
func (c TransactionBalanceCheck) Difference() int64 {
	return c.DebitSum - c.CreditSum
}

// Anomaly converts an unbalanced check into a reportable anomaly.
func (c TransactionBalanceCheck) Anomaly() model.Anomaly {
	return model.Anomaly{
		Kind:       model.AnomalyUnbalancedTransaction,
		Reference:  c.TransactionID,
		Message:    fmt.Sprintf("debits (%s) != credits (%s)", FormatAmount(c.DebitSum), FormatAmount(c.CreditSum)),
		Difference: c.Difference(),
	}
}

// BalanceOptions configures ValidateBalance.
type BalanceOptions struct {
	// ReportUngrouped returns entries without a transaction id in the report.
	ReportUngrouped bool
}

// BalanceReport is the advisory output of ValidateBalance.
type BalanceReport struct {
	Checked         int                       `json:"checked"`
	UnbalancedCount int                       `json:"unbalanced_count"`
	Unbalanced      []TransactionBalanceCheck `json:"unbalanced"`
	Ungrouped       []model.JournalEntry      `json:"ungrouped,omitempty"`
}

// Anomalies returns one anomaly per unbalanced transaction.
func (r BalanceReport) Anomalies() []model.Anomaly {
	var out []model.Anomaly
	for _, c := range r.Unbalanced {
		out = append(out, c.Anomaly())
	}
	return out
}

// ValidateBalance groups entries by transaction id and reports groups whose
// debit and credit sums differ. Amounts are integers so equality is exact.
// The entries are never modified; unbalanced data still flows to reports.
func ValidateBalance(entries []model.JournalEntry, opts BalanceOptions) BalanceReport {
	var report BalanceReport

	groups := make(map[string]*TransactionBalanceCheck)
	var groupOrder []string
	for _, e := range entries {
		if !e.Grouped() {
			if opts.ReportUngrouped {
				report.Ungrouped = append(report.Ungrouped, e)
			}
			continue
		}
		g, ok := groups[e.TransactionID]
		if !ok {
			g = &TransactionBalanceCheck{TransactionID: e.TransactionID}
			groups[e.TransactionID] = g
			groupOrder = append(groupOrder, e.TransactionID)
		}
		switch e.Type {
		case model.EntryDebit:
			g.DebitSum += e.Amount
		case model.EntryCredit:
			g.CreditSum += e.Amount
		}
	}

	report.Checked = len(groupOrder)
	for _, id := range groupOrder {
		g := groups[id]
		g.Balanced = g.DebitSum == g.CreditSum
		if !g.Balanced {
			report.Unbalanced = append(report.Unbalanced, *g)
		}
	}
	report.UnbalancedCount = len(report.Unbalanced)
	return report
}
