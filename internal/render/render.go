// Package render writes report packages as aligned text, markdown tables or
// JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/Rhymond/go-money"

	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/reports"
)

// Format is an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatMarkdown, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q: want text, markdown or json", s)
}

// Report selects which statements to write.
type Report string

const (
	ReportTrialBalance Report = "trial-balance"
	ReportIncome       Report = "income"
	ReportBalanceSheet Report = "balance-sheet"
	ReportCashFlow     Report = "cash-flow"
	ReportAll          Report = "all"
)

// Reports lists the selectable reports in output order.
var Reports = []Report{ReportTrialBalance, ReportIncome, ReportBalanceSheet, ReportCashFlow, ReportAll}

// ParseReport validates a report name.
func ParseReport(s string) (Report, error) {
	for _, r := range Reports {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown report %q", s)
}

// Renderer writes report packages.
type Renderer struct {
	format   Format
	business string
	currency string
}

// New creates a Renderer. currency is an ISO 4217 code used to display
// amounts.
func New(format Format, business, currency string) *Renderer {
	return &Renderer{format: format, business: business, currency: currency}
}

// Render writes the selected report of pkg to w.
func (r *Renderer) Render(w io.Writer, pkg *reports.Package, which Report) error {
	if r.format == FormatJSON {
		return r.writeJSON(w, pkg, which)
	}

	var tables []table
	if which == ReportTrialBalance || which == ReportAll {
		tables = append(tables, r.trialBalance(pkg))
	}
	if which == ReportIncome || which == ReportAll {
		tables = append(tables, r.incomeStatement(pkg))
	}
	if which == ReportBalanceSheet || which == ReportAll {
		tables = append(tables, r.balanceSheet(pkg))
	}
	if which == ReportCashFlow || which == ReportAll {
		tables = append(tables, r.cashFlow(pkg))
	}

	var b strings.Builder
	r.heading(&b, 1, fmt.Sprintf("%s: %s", r.business, pkg.Period.Label))
	for _, t := range tables {
		r.table(&b, t)
	}
	r.anomalies(&b, pkg.Anomalies)

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) writeJSON(w io.Writer, pkg *reports.Package, which Report) error {
	var v any
	switch which {
	case ReportTrialBalance:
		v = pkg.TrialBalance
	case ReportIncome:
		v = pkg.IncomeStatement
	case ReportBalanceSheet:
		v = pkg.BalanceSheet
	case ReportCashFlow:
		v = pkg.CashFlow
	default:
		v = pkg
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Amount formats minor units in the renderer's currency. Unknown currency
// codes fall back to a plain two-decimal number.
func (r *Renderer) Amount(minor int64) string {
	if money.GetCurrency(r.currency) == nil {
		s := journal.FormatAmount(minor)
		if r.currency != "" {
			s += " " + r.currency
		}
		return s
	}
	return money.New(minor, r.currency).Display()
}

// row is one table line. A total row is emphasised in markdown.
type row struct {
	cells []string
	total bool
}

// table is a titled grid. Columns from numeric onwards are right-aligned.
type table struct {
	title   string
	header  []string
	numeric int
	rows    []row
	footer  string
}

func (r *Renderer) heading(b *strings.Builder, level int, title string) {
	if r.format == FormatMarkdown {
		fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", level), title)
		return
	}
	fmt.Fprintln(b, title)
	under := "="
	if level > 1 {
		under = "-"
	}
	fmt.Fprintf(b, "%s\n\n", strings.Repeat(under, utf8.RuneCountInString(title)))
}

func (r *Renderer) table(b *strings.Builder, t table) {
	r.heading(b, 2, t.title)
	if r.format == FormatMarkdown {
		markdownTable(b, t)
	} else {
		textTable(b, t)
	}
	if t.footer != "" {
		fmt.Fprintf(b, "\n%s\n", t.footer)
	}
	fmt.Fprintln(b)
}

func markdownTable(b *strings.Builder, t table) {
	fmt.Fprintf(b, "| %s |\n", strings.Join(t.header, " | "))
	align := make([]string, len(t.header))
	for i := range align {
		align[i] = ":---"
		if i >= t.numeric {
			align[i] = "---:"
		}
	}
	fmt.Fprintf(b, "|%s|\n", strings.Join(align, "|"))
	for _, rw := range t.rows {
		cells := rw.cells
		if rw.total {
			cells = make([]string, len(rw.cells))
			for i, c := range rw.cells {
				if c != "" {
					c = "**" + c + "**"
				}
				cells[i] = c
			}
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
	}
}

func textTable(b *strings.Builder, t table) {
	widths := make([]int, len(t.header))
	measure := func(cells []string) {
		for i, c := range cells {
			widths[i] = max(widths[i], utf8.RuneCountInString(c))
		}
	}
	measure(t.header)
	for _, rw := range t.rows {
		measure(rw.cells)
	}

	line := func(cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			pad := strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c))
			if i >= t.numeric {
				parts[i] = pad + c
			} else {
				parts[i] = c + pad
			}
		}
		fmt.Fprintln(b, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
	line(t.header)
	for _, rw := range t.rows {
		line(rw.cells)
	}
}

func (r *Renderer) anomalies(b *strings.Builder, anomalies []model.Anomaly) {
	if len(anomalies) == 0 {
		return
	}
	r.heading(b, 2, fmt.Sprintf("Anomalies (%d)", len(anomalies)))
	for _, a := range anomalies {
		fmt.Fprintf(b, "- %s\n", a)
	}
	fmt.Fprintln(b)
}
