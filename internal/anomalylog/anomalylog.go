// Package anomalylog keeps an append-only CSV history of the anomalies
// found by report runs.
package anomalylog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Entry is one row in the anomaly log.
type Entry struct {
	Timestamp  time.Time
	Period     string
	Kind       model.AnomalyKind
	Reference  string
	Message    string
	Difference int64
	CommitHash string // ledger revision the report was built from, if known
}

// Header is the CSV header for anomalies.csv.
const Header = "timestamp,period,kind,reference,message,difference,commit_hash"

const (
	numFields     = 7
	logDir        = "logs"
	logFile       = "logs/anomalies.csv"
	colTimestamp  = 0
	colPeriod     = 1
	colKind       = 2
	colReference  = 3
	colMessage    = 4
	colDifference = 5
	colCommitHash = 6
)

// FromAnomalies stamps anomalies found for period at ts.
func FromAnomalies(ts time.Time, period, commitHash string, anomalies []model.Anomaly) []Entry {
	entries := make([]Entry, 0, len(anomalies))
	for _, a := range anomalies {
		entries = append(entries, Entry{
			Timestamp:  ts,
			Period:     period,
			Kind:       a.Kind,
			Reference:  a.Reference,
			Message:    a.Message,
			Difference: a.Difference,
			CommitHash: commitHash,
		})
	}
	return entries
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colPeriod] = e.Period
	row[colKind] = string(e.Kind)
	row[colReference] = e.Reference
	row[colMessage] = e.Message
	row[colDifference] = journal.FormatAmount(e.Difference)
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	diff, err := journal.ParseAmount(record[colDifference])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing difference: %w", err)
	}

	return Entry{
		Timestamp:  ts,
		Period:     record[colPeriod],
		Kind:       model.AnomalyKind(record[colKind]),
		Reference:  record[colReference],
		Message:    record[colMessage],
		Difference: diff,
		CommitHash: record[colCommitHash],
	}, nil
}

func logPath(repoRoot string) string {
	return filepath.Join(repoRoot, logFile)
}

// Append adds entries to the anomaly log, writing the header when the file
// is new or empty. Nothing is created for an empty batch.
func Append(repoRoot string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(repoRoot, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	f, err := os.OpenFile(logPath(repoRoot), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening anomaly log: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat anomaly log: %w", err)
	}

	if err := writeEntries(f, info.Size() == 0, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeEntries(w io.Writer, header bool, entries []Entry) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing anomaly %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing anomaly log: %w", err)
	}
	return nil
}

// Read returns every logged anomaly in file order, or nil when the log does
// not exist yet.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(logPath(repoRoot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening anomaly log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading anomaly log header: %w", err)
	}
	if strings.Join(header, ",") != Header {
		return nil, fmt.Errorf("unexpected anomaly log header %q", strings.Join(header, ","))
	}

	var entries []Entry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading anomaly log: %w", err)
		}
		line, _ := cr.FieldPos(0)
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
}
