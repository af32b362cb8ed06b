package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "entry_id,date,account_id,transaction_id,entry_type,amount,description"

const (
	numFields  = 7
	dateFormat = "2006-01-02"
	colEntryID = 0
	colDate    = 1
	colAcctID  = 2
	colTxnID   = 3
	colType    = 4
	colAmount  = 5
	colDesc    = 6
)

// minorUnits is the number of decimal places stored in the CSV amount column.
const minorUnits = 2

// ReadEntries reads all entries from a journal.csv reader.
func ReadEntries(r io.Reader) ([]model.JournalEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []model.JournalEntry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries to a journal.csv writer (including header).
func WriteEntries(w io.Writer, entries []model.JournalEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts an entry to a CSV row ([]string).
func MarshalEntry(e model.JournalEntry) []string {
	row := make([]string, numFields)
	row[colEntryID] = e.ID
	row[colDate] = e.Date.Format(dateFormat)
	row[colAcctID] = e.AccountID
	row[colTxnID] = e.TransactionID
	row[colType] = string(e.Type)
	row[colAmount] = FormatAmount(e.Amount)
	row[colDesc] = e.Description
	return row
}

// UnmarshalEntry converts a CSV row to an entry.
func UnmarshalEntry(record []string) (model.JournalEntry, error) {
	if len(record) != numFields {
		return model.JournalEntry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := ParseAmount(record[colAmount])
	if err != nil {
		return model.JournalEntry{}, err
	}

	return model.JournalEntry{
		ID:            record[colEntryID],
		Date:          date,
		AccountID:     record[colAcctID],
		TransactionID: record[colTxnID],
		Type:          model.EntryType(record[colType]),
		Amount:        amount,
		Description:   record[colDesc],
	}, nil
}

// ParseAmount converts a major-unit decimal string ("12.34") to minor units.
// More than two decimal places is an error; the sign is preserved so that
// negative amounts reach the validators.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	minor := d.Shift(minorUnits)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", s, minorUnits)
	}
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s out of range", s)
	}
	return minor.IntPart(), nil
}

// FormatAmount converts minor units to a fixed two-decimal string.
func FormatAmount(minor int64) string {
	return decimal.New(minor, -minorUnits).StringFixed(minorUnits)
}
