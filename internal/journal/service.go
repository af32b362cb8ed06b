package journal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Service reads a CSV ledger repository: the chart of accounts at
// accounts/chart-of-accounts.csv and one journal.csv per month under
// <year>/<month>/.
type Service struct {
	repoRoot string
}

// NewService creates a journal Service rooted at repoRoot.
func NewService(repoRoot string) *Service {
	return &Service{repoRoot: repoRoot}
}

// Accounts returns the chart of accounts. A missing chart file yields an
// empty chart rather than an error.
func (s *Service) Accounts(_ context.Context) ([]model.Account, error) {
	svc, err := accounts.Load(s.repoRoot)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return svc.All(), nil
}

// Entries returns entries dated in the half-open window [from, to). A zero
// from is unbounded below; a zero to is unbounded above.
func (s *Service) Entries(ctx context.Context, from, to time.Time) ([]model.JournalEntry, error) {
	months, err := s.months()
	if err != nil {
		return nil, err
	}

	var out []model.JournalEntry
	for _, m := range months {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Date(m.year, time.Month(m.month), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		if !from.IsZero() && !end.After(from) {
			continue
		}
		if !to.IsZero() && !start.Before(to) {
			continue
		}

		entries, err := s.ReadMonth(m.year, m.month)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if InWindow(e.Date, from, to) {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

// InWindow reports whether d falls in [from, to), zero bounds being open.
func InWindow(d, from, to time.Time) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && !d.Before(to) {
		return false
	}
	return true
}

// ReadMonth reads all entries for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.JournalEntry, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return entries, nil
}

// WriteMonth replaces the journal of a given year/month.
func (s *Service) WriteMonth(year, month int, entries []model.JournalEntry) error {
	path := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating journal: %w", err)
	}
	defer f.Close()

	if err := WriteEntries(f, entries); err != nil {
		return fmt.Errorf("writing journal %s: %w", path, err)
	}
	return nil
}

// WriteAll replaces the whole journal with entries, one file per month in
// the order given. Existing months with no entries are left empty.
func (s *Service) WriteAll(entries []model.JournalEntry) error {
	existing, err := s.months()
	if err != nil {
		return err
	}

	byMonth := make(map[yearMonth][]model.JournalEntry)
	for _, ym := range existing {
		byMonth[ym] = nil
	}
	for _, e := range entries {
		ym := yearMonth{year: e.Date.Year(), month: int(e.Date.Month())}
		byMonth[ym] = append(byMonth[ym], e)
	}

	for ym, monthEntries := range byMonth {
		if err := s.WriteMonth(ym.year, ym.month, monthEntries); err != nil {
			return err
		}
	}
	return nil
}

type yearMonth struct {
	year, month int
}

// months lists the <year>/<month> directories holding a journal, in
// chronological order.
func (s *Service) months() ([]yearMonth, error) {
	years, err := os.ReadDir(s.repoRoot)
	if err != nil {
		return nil, fmt.Errorf("reading repo %s: %w", s.repoRoot, err)
	}

	var out []yearMonth
	for _, y := range years {
		year, ok := dirNumber(y, 4)
		if !ok {
			continue
		}
		monthDirs, err := os.ReadDir(filepath.Join(s.repoRoot, y.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading year %s: %w", y.Name(), err)
		}
		for _, m := range monthDirs {
			month, ok := dirNumber(m, 2)
			if !ok || month < 1 || month > 12 {
				continue
			}
			out = append(out, yearMonth{year: year, month: month})
		}
	}
	return out, nil
}

func dirNumber(e fs.DirEntry, width int) (int, bool) {
	if !e.IsDir() || len(e.Name()) != width {
		return 0, false
	}
	n, err := strconv.Atoi(e.Name())
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.repoRoot, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}
