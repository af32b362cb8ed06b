package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

const testRepo = "../../testdata/repo"

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func loadTestRepo(t *testing.T, s *Store) ([]model.Account, []model.JournalEntry) {
	t.Helper()
	ctx := context.Background()
	src := journal.NewService(testRepo)
	accts, err := src.Accounts(ctx)
	require.NoError(t, err)
	entries, err := src.Entries(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.NoError(t, s.Replace(ctx, accts, entries))
	return accts, entries
}

func TestOpen_Empty(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	accts, err := s.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accts)

	entries, err := s.Entries(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	s, err := Open(ctx, path, nil)
	require.NoError(t, err)
	accts, _ := loadTestRepo(t, s)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, nil)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, accts, got)
}

func TestRoundTripMatchesCSV(t *testing.T) {
	s := openTemp(t)
	accts, entries := loadTestRepo(t, s)
	ctx := context.Background()

	gotAccts, err := s.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, accts, gotAccts)

	gotEntries, err := s.Entries(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, entries, gotEntries)
}

func TestEntries_Window(t *testing.T) {
	s := openTemp(t)
	loadTestRepo(t, s)
	ctx := context.Background()
	csv := journal.NewService(testRepo)

	windows := []struct {
		name     string
		from, to time.Time
	}{
		{"february", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"before february", time.Time{}, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"from feb 5", time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC), time.Time{}},
	}
	for _, w := range windows {
		t.Run(w.name, func(t *testing.T) {
			want, err := csv.Entries(ctx, w.from, w.to)
			require.NoError(t, err)
			got, err := s.Entries(ctx, w.from, w.to)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestReplace_Overwrites(t *testing.T) {
	s := openTemp(t)
	loadTestRepo(t, s)
	ctx := context.Background()

	acct := model.Account{ID: "9", Code: "9", Name: "Only", Category: model.CategoryAsset, Nature: model.NatureDebit, Active: false, Role: model.RoleNone}
	require.NoError(t, s.Replace(ctx, []model.Account{acct}, nil))

	accts, err := s.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Account{acct}, accts)

	entries, err := s.Entries(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReplace_DuplicateEntryIDsAreKept(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	d := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	entries := []model.JournalEntry{
		{ID: "e1", AccountID: "a", Type: model.EntryDebit, Amount: 100, Date: d},
		{ID: "e1", AccountID: "b", Type: model.EntryCredit, Amount: 100, Date: d},
	}
	require.NoError(t, s.Replace(ctx, nil, entries))

	got, err := s.Entries(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestReplace_RollsBackOnDuplicateAccount(t *testing.T) {
	s := openTemp(t)
	accts, _ := loadTestRepo(t, s)
	ctx := context.Background()

	dup := []model.Account{accts[0], accts[0]}
	require.Error(t, s.Replace(ctx, dup, nil))

	got, err := s.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, accts, got)
}
