package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/anomalylog"
	"github.com/cleared-dev/ledgerbook/internal/render"
	"github.com/cleared-dev/ledgerbook/internal/reports"
)

func newReportCommand() *cobra.Command {
	var repoDir, periodExpr, from, to, format string

	names := make([]string, len(render.Reports))
	for i, r := range render.Reports {
		names[i] = string(r)
	}

	cmd := &cobra.Command{
		Use:       "report [trial-balance|income|balance-sheet|cash-flow|all]",
		Short:     "Print financial statements for a period",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			which := render.ReportAll
			if len(args) > 0 {
				var err error
				if which, err = render.ParseReport(args[0]); err != nil {
					return err
				}
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			r, err := openRepo(repoDir)
			if err != nil {
				return err
			}
			defer r.close()

			p, err := r.period(periodExpr, from, to)
			if err != nil {
				return err
			}
			opts, err := r.reportOptions()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			prov, release, err := r.provider(ctx)
			if err != nil {
				return err
			}
			defer release()

			pkg, err := reports.NewService(prov, opts, r.log).Build(ctx, p)
			if err != nil {
				return fmt.Errorf("building reports for %s: %w", p.Label, err)
			}

			if r.cfg.Reports.LogAnomalies && len(pkg.Anomalies) > 0 {
				entries := anomalylog.FromAnomalies(time.Now().UTC(), p.Label, r.revision(ctx), pkg.Anomalies)
				if err := anomalylog.Append(r.root, entries); err != nil {
					return err
				}
			}

			return render.New(f, r.cfg.Business.Name, r.cfg.Business.Currency).Render(cmd.OutOrStdout(), pkg, which)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")
	cmd.Flags().StringVar(&periodExpr, "period", "", "period: YYYY, YYYY-MM, YYYY-Qn or FYYYYY")
	cmd.Flags().StringVar(&from, "from", "", "first day of a custom period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day of a custom period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&format, "format", string(render.FormatText), "output format: text, markdown or json")

	return cmd
}
