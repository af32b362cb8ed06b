package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func newValidateCommand() *cobra.Command {
	var repoDir, periodExpr string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check journal entries and transaction balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(repoDir)
			if err != nil {
				return err
			}
			defer r.close()

			var from, to time.Time
			if periodExpr != "" {
				p, err := r.period(periodExpr, "", "")
				if err != nil {
					return err
				}
				from, to = p.Window()
			}

			ctx := cmd.Context()
			prov, release, err := r.provider(ctx)
			if err != nil {
				return err
			}
			defer release()

			accts, err := prov.Accounts(ctx)
			if err != nil {
				return err
			}
			entries, err := prov.Entries(ctx, from, to)
			if err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), accts, entries, r.cfg.Reports.ReportUngrouped)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")
	cmd.Flags().StringVar(&periodExpr, "period", "", "only check entries in this period")

	return cmd
}

func runValidate(out io.Writer, accts []model.Account, entries []model.JournalEntry, reportUngrouped bool) error {
	chart := accounts.NewService(accts)
	errs := journal.ValidateEntries(entries, chart)
	balance := journal.ValidateBalance(entries, journal.BalanceOptions{ReportUngrouped: reportUngrouped})

	fmt.Fprintln(out, chartSummary(chart))
	if len(chart.ByRole(model.RoleCashEquivalent)) == 0 {
		fmt.Fprintf(out, "warning: no %s accounts, the cash flow statement will be empty\n", model.RoleCashEquivalent)
	}

	for _, e := range errs {
		fmt.Fprintf(out, "error %s\n", e.Error())
	}
	for _, a := range balance.Anomalies() {
		fmt.Fprintf(out, "unbalanced %s\n", a)
	}
	for _, e := range balance.Ungrouped {
		fmt.Fprintf(out, "ungrouped [%s]: %s %s %s on %s\n", e.ID, e.Type, journal.FormatAmount(e.Amount), e.AccountID, e.Date.Format("2006-01-02"))
	}

	fmt.Fprintf(out, "%d entries, %d transactions checked\n", len(entries), balance.Checked)
	if problems := len(errs) + balance.UnbalancedCount; problems > 0 {
		return fmt.Errorf("%d problems found", problems)
	}
	fmt.Fprintln(out, "OK")
	return nil
}

// chartSummary counts accounts per category, e.g.
// "12 accounts: 4 asset, 1 liability; 2 cash_equivalent".
func chartSummary(chart *accounts.Service) string {
	var parts []string
	for _, c := range model.Categories {
		if n := len(chart.ByCategory(c)); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, c))
		}
	}
	if len(parts) == 0 {
		return "0 accounts"
	}
	cash := len(chart.ByRole(model.RoleCashEquivalent))
	return fmt.Sprintf("%d accounts: %s; %d %s", chart.Len(), strings.Join(parts, ", "), cash, model.RoleCashEquivalent)
}
