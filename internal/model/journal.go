package model

import "time"

// EntryType is the side of a journal entry.
type EntryType string

const (
	EntryDebit  EntryType = "debit"
	EntryCredit EntryType = "credit"
)

// Valid reports whether t is debit or credit.
func (t EntryType) Valid() bool {
	return t == EntryDebit || t == EntryCredit
}

// JournalEntry is a single row in journal.csv (one side of a transaction).
//
// Amount is in minor currency units and never negative; the sign is carried
// by Type.
type JournalEntry struct {
	ID            string
	AccountID     string
	TransactionID string // empty for freestanding entries
	Type          EntryType
	Amount        int64
	Date          time.Time
	Description   string
}

// Grouped reports whether the entry belongs to a transaction.
func (e JournalEntry) Grouped() bool {
	return e.TransactionID != ""
}
