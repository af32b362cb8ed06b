// Package reports assembles the financial statements for a period from a
// ledger data provider.
package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/period"
	"github.com/cleared-dev/ledgerbook/internal/statements"
)

// ErrEmptyChartOfAccounts is returned when the provider has no accounts.
var ErrEmptyChartOfAccounts = errors.New("chart of accounts is empty")

// Provider supplies the chart of accounts and journal entries. Entries
// returns entries dated in [from, to); a zero bound is open.
type Provider interface {
	Accounts(ctx context.Context) ([]model.Account, error)
	Entries(ctx context.Context, from, to time.Time) ([]model.JournalEntry, error)
}

// Options tunes a Service.
type Options struct {
	// Parallelism is the number of partitions each aggregation is split into.
	Parallelism int
	// ReportUngrouped lists entries without a transaction id in Validation.
	ReportUngrouped bool
	// CacheTTL keeps built packages for identical ledger snapshots. Zero
	// disables the cache. Hits need a Service that outlives one Build, so a
	// single CLI invocation never sees one.
	CacheTTL time.Duration
}

// Package is every statement for one period.
type Package struct {
	Period          period.Period                `json:"period"`
	TrialBalance    statements.TrialBalance      `json:"trial_balance"`
	IncomeStatement statements.IncomeStatement   `json:"income_statement"`
	BalanceSheet    statements.BalanceSheet      `json:"balance_sheet"`
	CashFlow        statements.CashFlowStatement `json:"cash_flow"`
	Validation      journal.BalanceReport        `json:"validation"`
	EntryErrors     []journal.ValidationError    `json:"entry_errors,omitempty"`
	Anomalies       []model.Anomaly              `json:"anomalies"`
}

// Service builds report packages.
type Service struct {
	provider Provider
	opts     Options
	log      *zap.Logger
	cache    *cache.Cache
}

// NewService creates a Service reading from provider.
func NewService(provider Provider, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{provider: provider, opts: opts, log: log}
	if opts.CacheTTL > 0 {
		s.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return s
}

// snapshot is the data a package is built from.
type snapshot struct {
	accounts []model.Account
	opening  []model.JournalEntry // dated before the period
	period   []model.JournalEntry // dated in the period
}

func (s *Service) load(ctx context.Context, p period.Period) (snapshot, error) {
	accts, err := s.provider.Accounts(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("loading accounts: %w", err)
	}
	if len(accts) == 0 {
		return snapshot{}, ErrEmptyChartOfAccounts
	}

	from, to := p.Window()
	entries, err := s.provider.Entries(ctx, time.Time{}, to)
	if err != nil {
		return snapshot{}, fmt.Errorf("loading entries: %w", err)
	}

	snap := snapshot{accounts: accts}
	for _, e := range entries {
		if e.Date.Before(from) {
			snap.opening = append(snap.opening, e)
		} else {
			snap.period = append(snap.period, e)
		}
	}
	return snap, nil
}

// Build produces the statements for p.
//
// The trial balance, income statement and validation cover entries dated in
// p. The balance sheet covers every entry up to the end of p, with the
// cumulative result not yet closed into equity passed as the period result.
// The cash flow combines the balance before p, the movement in p and an
// independent aggregation of the balance at the end of p.
//
// With the cache enabled, repeated calls for an unchanged ledger return the
// same *Package. Callers must treat it as read-only.
func (s *Service) Build(ctx context.Context, p period.Period) (*Package, error) {
	started := time.Now()

	snap, err := s.load(ctx, p)
	if err != nil {
		return nil, err
	}

	var key string
	if s.cache != nil {
		key = fingerprint(p, s.opts, snap)
		if cached, found := s.cache.Get(key); found {
			s.log.Debug("report cache hit", zap.String("period", p.Label), zap.String("key", key))
			return cached.(*Package), nil
		}
	}

	chart := accounts.NewService(snap.accounts)
	cumulative := make([]model.JournalEntry, 0, len(snap.opening)+len(snap.period))
	cumulative = append(append(cumulative, snap.opening...), snap.period...)

	var opening, current, closing ledger.Aggregation
	g, gctx := errgroup.WithContext(ctx)
	aggregate := func(dst *ledger.Aggregation, entries []model.JournalEntry) {
		g.Go(func() error {
			agg, err := ledger.AggregateParallel(gctx, entries, chart, s.opts.Parallelism)
			if err != nil {
				return err
			}
			*dst = agg
			return nil
		})
	}
	aggregate(&opening, snap.opening)
	aggregate(&current, snap.period)
	aggregate(&closing, cumulative)
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregating %s: %w", p.Label, err)
	}

	pkg := &Package{
		Period:          p,
		TrialBalance:    statements.BuildTrialBalance(current),
		IncomeStatement: statements.BuildIncomeStatement(current, p.Start, p.End),
		CashFlow: statements.BuildCashFlow(statements.CashFlowInput{
			Opening: opening,
			Period:  current,
			Closing: closing,
		}),
		Validation:  journal.ValidateBalance(snap.period, journal.BalanceOptions{ReportUngrouped: s.opts.ReportUngrouped}),
		EntryErrors: journal.ValidateEntries(snap.period, chart),
	}
	unclosed := statements.BuildIncomeStatement(closing, time.Time{}, p.End)
	pkg.BalanceSheet = statements.BuildBalanceSheet(closing, unclosed.FinalResult)

	pkg.Anomalies = []model.Anomaly{}
	pkg.Anomalies = append(pkg.Anomalies, pkg.Validation.Anomalies()...)
	pkg.Anomalies = append(pkg.Anomalies, pkg.TrialBalance.Anomalies...)
	pkg.Anomalies = append(pkg.Anomalies, pkg.BalanceSheet.Anomalies...)
	pkg.Anomalies = append(pkg.Anomalies, pkg.CashFlow.Anomalies...)

	for _, a := range pkg.Anomalies {
		s.log.Warn("ledger anomaly",
			zap.String("period", p.Label),
			zap.String("kind", string(a.Kind)),
			zap.String("reference", a.Reference),
			zap.String("message", a.Message),
			zap.Int64("difference", a.Difference),
		)
	}
	s.log.Info("reports built",
		zap.String("period", p.Label),
		zap.Int("accounts", len(snap.accounts)),
		zap.Int("entries", len(snap.period)),
		zap.Int("anomalies", len(pkg.Anomalies)),
		zap.Duration("elapsed", time.Since(started)),
	)

	if s.cache != nil {
		s.cache.Set(key, pkg, cache.DefaultExpiration)
	}
	return pkg, nil
}
