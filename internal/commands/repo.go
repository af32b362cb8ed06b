package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/gitops"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/logging"
	"github.com/cleared-dev/ledgerbook/internal/period"
	"github.com/cleared-dev/ledgerbook/internal/reports"
	"github.com/cleared-dev/ledgerbook/internal/store"
)

// repo is an opened ledger repository.
type repo struct {
	root string
	cfg  *config.Config
	log  *zap.Logger
}

func openRepo(dir string) (*repo, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return &repo{root: root, cfg: cfg, log: log.With(zap.String("repo", root))}, nil
}

func (r *repo) close() {
	_ = r.log.Sync()
}

// revision returns the git commit of the repository, or "" when it is not
// under git.
func (r *repo) revision(ctx context.Context) string {
	hash, err := gitops.Head(ctx, r.root)
	if err != nil {
		if !errors.Is(err, gitops.ErrNotRepo) {
			r.log.Warn("reading git revision", zap.Error(err))
		}
		return ""
	}
	return hash
}

func (r *repo) dbPath() string {
	return filepath.Join(r.root, r.cfg.Storage.Path)
}

// provider returns the configured ledger source and a function releasing it.
func (r *repo) provider(ctx context.Context) (reports.Provider, func() error, error) {
	if r.cfg.Storage.Driver != config.DriverSQLite {
		return journal.NewService(r.root), func() error { return nil }, nil
	}
	s, err := store.Open(ctx, r.dbPath(), r.log)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

// period resolves --period or --from/--to.
func (r *repo) period(expr, from, to string) (period.Period, error) {
	if from != "" || to != "" {
		if expr != "" {
			return period.Period{}, errors.New("use either --period or --from/--to")
		}
		if from == "" || to == "" {
			return period.Period{}, errors.New("--from and --to must be used together")
		}
		return period.Range(from, to)
	}
	if expr == "" {
		return period.Period{}, errors.New("a period is required: --period or --from/--to")
	}
	month, day, err := r.cfg.Fiscal.Start()
	if err != nil {
		return period.Period{}, err
	}
	return period.Parse(expr, month, day)
}

func (r *repo) reportOptions() (reports.Options, error) {
	ttl, err := r.cfg.Reports.TTL()
	if err != nil {
		return reports.Options{}, err
	}
	return reports.Options{
		Parallelism:     r.cfg.Reports.Parallelism,
		ReportUngrouped: r.cfg.Reports.ReportUngrouped,
		CacheTTL:        ttl,
	}, nil
}
