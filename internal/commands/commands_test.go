package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/anomalylog"
	"github.com/cleared-dev/ledgerbook/internal/commands"
	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

const testRepo = "../../testdata/repo"

func runLedgerbook(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// copyRepo copies the fixture repository into a temp dir and applies edits
// to its config.
func copyRepo(t *testing.T, edit func(*config.Config)) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.CopyFS(dir, os.DirFS(testRepo)))
	if edit != nil {
		path := filepath.Join(dir, config.FileName)
		cfg, err := config.Load(path)
		require.NoError(t, err)
		edit(cfg)
		require.NoError(t, config.Save(path, cfg))
	}
	return dir
}

func TestVersion(t *testing.T) {
	out, err := runLedgerbook(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none")
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "books")
	out, err := runLedgerbook(t, "init", dir, "--name", "Test Biz", "--currency", "eur")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized ledger for Test Biz")

	for _, d := range []string{"accounts", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir())
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Test Biz", cfg.Business.Name)
	assert.Equal(t, "EUR", cfg.Business.Currency)

	chart, err := accounts.Load(dir)
	require.NoError(t, err)
	assert.Zero(t, chart.Len())

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ledger.db")
}

func TestInit_Errors(t *testing.T) {
	_, err := runLedgerbook(t, "init", t.TempDir())
	assert.Error(t, err, "init without --name should fail")

	_, err = runLedgerbook(t, "init", t.TempDir(), "--name", "x", "--currency", "ZZZ")
	assert.ErrorContains(t, err, "unknown currency")

	dir := t.TempDir()
	_, err = runLedgerbook(t, "init", dir, "--name", "x")
	require.NoError(t, err)
	_, err = runLedgerbook(t, "init", dir, "--name", "x")
	assert.ErrorContains(t, err, "already exists")
}

func TestReport_EmptyChartAfterInit(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedgerbook(t, "init", dir, "--name", "x")
	require.NoError(t, err)

	_, err = runLedgerbook(t, "report", "--repo", dir, "--period", "2025")
	assert.ErrorContains(t, err, "chart of accounts is empty")
}

func TestReport_Text(t *testing.T) {
	out, err := runLedgerbook(t, "report", "--repo", testRepo, "--period", "2025-02")
	require.NoError(t, err)

	assert.Contains(t, out, "Acme Consulting: 2025-02")
	assert.Contains(t, out, "Trial Balance")
	assert.Contains(t, out, "Cash Flow Statement")
	assert.Contains(t, out, "$10,775.00")
}

func TestReport_SingleJSON(t *testing.T) {
	out, err := runLedgerbook(t, "report", "income", "--repo", testRepo, "--from", "2025-01-01", "--to", "2025-02-28", "--format", "json")
	require.NoError(t, err)

	var is map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &is))
	assert.EqualValues(t, 317500, is["final_result"])
}

func TestReport_FlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no period", []string{"report", "--repo", testRepo}, "period is required"},
		{"both", []string{"report", "--repo", testRepo, "--period", "2025", "--from", "2025-01-01", "--to", "2025-01-31"}, "either --period"},
		{"half range", []string{"report", "--repo", testRepo, "--from", "2025-01-01"}, "used together"},
		{"bad period", []string{"report", "--repo", testRepo, "--period", "last-month"}, "invalid period"},
		{"bad format", []string{"report", "--repo", testRepo, "--period", "2025", "--format", "pdf"}, "unknown format"},
		{"bad report", []string{"report", "dre", "--repo", testRepo, "--period", "2025"}, "invalid argument"},
		{"no repo", []string{"report", "--repo", t.TempDir(), "--period", "2025"}, "reading config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runLedgerbook(t, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestReport_LogsAnomalies(t *testing.T) {
	dir := copyRepo(t, func(c *config.Config) { c.Reports.LogAnomalies = true })

	svc := journal.NewService(dir)
	entries, err := svc.ReadMonth(2025, 3)
	require.NoError(t, err)
	entries = append(entries, model.JournalEntry{
		ID: "2025-03-001a", TransactionID: "2025-03-001", AccountID: "5010",
		Type: model.EntryDebit, Amount: 4200, Date: mustDate(t, "2025-03-03"),
	})
	require.NoError(t, svc.WriteMonth(2025, 3, entries))

	out, err := runLedgerbook(t, "report", "trial-balance", "--repo", dir, "--period", "2025-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Anomalies (")

	logged, err := anomalylog.Read(dir)
	require.NoError(t, err)
	require.NotEmpty(t, logged)
	assert.Equal(t, "2025-03", logged[0].Period)
	assert.Equal(t, model.AnomalyUnbalancedTransaction, logged[0].Kind)
	assert.Equal(t, "2025-03-001", logged[0].Reference)
	assert.Empty(t, logged[0].CommitHash, "fixture copy is not under git")
}

func TestInit_Git(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	out, err := runLedgerbook(t, "init", dir, "--name", "Test Biz", "--git")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized ledger for Test Biz")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	subject, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(subject), "init: Initialize Test Biz")
}

func TestValidate(t *testing.T) {
	out, err := runLedgerbook(t, "validate", "--repo", testRepo)
	require.NoError(t, err)
	assert.Contains(t, out, "12 accounts: 4 asset, 1 contra_asset, 1 liability, 1 equity, 1 revenue, 4 expense; 2 cash_equivalent")
	assert.NotContains(t, out, "warning:")
	assert.Contains(t, out, "16 entries, 7 transactions checked")
	assert.Contains(t, out, "ungrouped [2025-02-005a]")
	assert.True(t, strings.HasSuffix(out, "OK\n"))

	out, err = runLedgerbook(t, "validate", "--repo", testRepo, "--period", "2025-01")
	require.NoError(t, err)
	assert.Contains(t, out, "4 entries, 2 transactions checked")
}

func TestValidate_EmptyChartWarns(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "books")
	_, err := runLedgerbook(t, "init", dir, "--name", "Empty")
	require.NoError(t, err)

	out, err := runLedgerbook(t, "validate", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "0 accounts\n")
	assert.Contains(t, out, "warning: no cash_equivalent accounts")
	assert.Contains(t, out, "0 entries, 0 transactions checked")
}

func TestValidate_Problems(t *testing.T) {
	dir := copyRepo(t, nil)
	svc := journal.NewService(dir)
	d := mustDate(t, "2025-03-03")
	require.NoError(t, svc.WriteMonth(2025, 3, []model.JournalEntry{
		{ID: "x1", TransactionID: "t1", AccountID: "1010", Type: model.EntryDebit, Amount: 500, Date: d},
		{ID: "x2", TransactionID: "t1", AccountID: "4010", Type: model.EntryCredit, Amount: 300, Date: d},
		{ID: "x3", TransactionID: "t2", AccountID: "nope", Type: model.EntryDebit, Amount: 10, Date: d},
		{ID: "x4", TransactionID: "t2", AccountID: "4010", Type: model.EntryCredit, Amount: 10, Date: d},
	}))

	out, err := runLedgerbook(t, "validate", "--repo", dir, "--period", "2025-03")
	assert.ErrorContains(t, err, "2 problems found")
	assert.Contains(t, out, `error [x3]: unknown account "nope"`)
	assert.Contains(t, out, "unbalanced unbalanced_transaction [t1]: debits (5.00) != credits (3.00)")
}

func TestDBLoad_ThenReportFromSQLite(t *testing.T) {
	dir := copyRepo(t, nil)

	out, err := runLedgerbook(t, "db", "load", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 12 accounts and 16 entries")
	_, err = os.Stat(filepath.Join(dir, "ledger.db"))
	require.NoError(t, err)

	csvOut, err := runLedgerbook(t, "report", "--repo", dir, "--period", "2025-Q1", "--format", "json")
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, config.FileName)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.Storage.Driver = config.DriverSQLite
	require.NoError(t, config.Save(cfgPath, cfg))

	// Move the CSV journal away so the report can only come from the store.
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "2025")))

	dbOut, err := runLedgerbook(t, "report", "--repo", dir, "--period", "2025-Q1", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, csvOut, dbOut)
}

func TestDBExport_RestoresCSVLedger(t *testing.T) {
	dir := copyRepo(t, nil)

	before, err := runLedgerbook(t, "report", "--repo", dir, "--period", "2025-Q1", "--format", "json")
	require.NoError(t, err)
	_, err = runLedgerbook(t, "db", "load", "--repo", dir)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(dir, "2025")))
	require.NoError(t, os.Remove(filepath.Join(dir, accounts.ChartPath)))

	out, err := runLedgerbook(t, "db", "export", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 12 accounts and 16 entries")

	chart, err := accounts.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 12, chart.Len())

	after, err := runLedgerbook(t, "report", "--repo", dir, "--period", "2025-Q1", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, before, after)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
